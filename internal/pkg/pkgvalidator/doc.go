// Package pkgvalidator validates request payloads declared with struct tags.
//
// Failures are returned as pkgerror validation errors so handlers can return
// them directly and let the router map them to HTTP responses.
package pkgvalidator
