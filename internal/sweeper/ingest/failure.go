package ingest

import (
	"errors"
	"fmt"
)

// Reason classifies why a file could not be ingested.
type Reason string

const (
	ReasonUnsupportedFormat Reason = "UNSUPPORTED_FORMAT"
	ReasonNoTabularData     Reason = "NO_TABULAR_DATA"
	ReasonParseError        Reason = "PARSE_ERROR"
)

// Failure is the terminal outcome of an ingest that produced no table.
type Failure struct {
	Reason  Reason
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func unsupportedFormat(ext string) error {
	if ext == "" {
		ext = "(none)"
	}
	return &Failure{
		Reason:  ReasonUnsupportedFormat,
		Message: fmt.Sprintf("unsupported file format: %s", ext),
	}
}

func noTabularData(msg string) error {
	return &Failure{Reason: ReasonNoTabularData, Message: msg}
}

func parseError(name string, err error) error {
	return &Failure{
		Reason:  ReasonParseError,
		Message: fmt.Sprintf("failed to parse %s", name),
		Err:     err,
	}
}
