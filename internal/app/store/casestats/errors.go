// internal/app/store/casestats/errors.go
package casestatsstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is wrapped by every NetworkError.
	ErrNetwork = errors.New("case stats request failed")
	// ErrParse is wrapped by every ParseError.
	ErrParse = errors.New("case stats response unreadable")
)

// NetworkError means the request could not complete: transport failure,
// cancellation, or a non-2xx status.
type NetworkError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}

// ParseError means the body was not JSON or lacked a required field.
// Source names the endpoint or country the body came from.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }

// IsParse reports whether err is (or wraps) a ParseError.
func IsParse(err error) bool { return errors.Is(err, ErrParse) }
