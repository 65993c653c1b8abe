package model

import (
	"errors"
	"fmt"
)

// ErrorKind groups errors by how the workflow treats them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAPI
	KindNetwork
	KindTimeout
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAPI:
		return "api"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// ValidationError reports missing user input. It is raised before any
// network call and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing input: %s", e.Message)
}

// APIError is an unsuccessful or malformed response from the generation
// service. Raw holds the response body for diagnostics.
type APIError struct {
	Op      string
	Code    int
	Message string
	Raw     string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: code %d: %s: %s", e.Op, e.Code, e.Message, e.Raw)
	}
	return fmt.Sprintf("%s: code %d: %s", e.Op, e.Code, e.Raw)
}

// NetworkError is a transport failure or a non-success HTTP status.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the poll budget ran out before a terminal status.
type TimeoutError struct {
	TaskID   string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s not finished after %d polls", e.TaskID, e.Attempts)
}

// IOError is a failure to create a directory or write a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// KindOf reports the family of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	var (
		ve *ValidationError
		ae *APIError
		ne *NetworkError
		te *TimeoutError
		ie *IOError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ae):
		return KindAPI
	case errors.As(err, &te):
		return KindTimeout
	case errors.As(err, &ne):
		return KindNetwork
	case errors.As(err, &ie):
		return KindIO
	default:
		return KindUnknown
	}
}
