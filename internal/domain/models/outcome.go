// internal/domain/models/outcome.go
package models

import "time"

// Outcome records how the most recent fetch issued by a view ended.
// The zero value means nothing has completed yet.
type Outcome struct {
	Err error
	At  time.Time
}

// Done reports whether any fetch has completed.
func (o Outcome) Done() bool { return !o.At.IsZero() }

// OK reports a completed, successful fetch.
func (o Outcome) OK() bool { return o.Done() && o.Err == nil }

// Failed reports a completed fetch that ended in error.
func (o Outcome) Failed() bool { return o.Err != nil }

// ErrorString returns the error text, or "" on success.
func (o Outcome) ErrorString() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
