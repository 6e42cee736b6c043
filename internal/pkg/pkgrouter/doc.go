// Package pkgrouter wraps httprouter with the JSON envelope, error mapping,
// raw file downloads and the shared middleware (recovery, correlation IDs,
// request logging) used by every HTTP module.
package pkgrouter
