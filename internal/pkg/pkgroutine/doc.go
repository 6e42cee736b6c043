// Package pkgroutine runs background work with a concurrency limit.
//
// A Manager blocks new tasks while it is full, collects returned errors and
// turns panics into ErrPanic errors reported by Wait.
package pkgroutine
