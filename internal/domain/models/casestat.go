// internal/domain/models/casestat.go
package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CaseStat is a single metric (confirmed, recovered or deaths) as returned
// by the statistics source. Value is a non-negative count.
type CaseStat struct {
	Value  int64  `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// SummaryResult is a snapshot of case counts for one scope (a country or the
// whole world). A metric is nil when the source omitted it.
//
// A SummaryResult is treated as immutable once received; views replace it
// wholesale on each successful fetch.
type SummaryResult struct {
	Confirmed  *CaseStat `json:"confirmed,omitempty"`
	Recovered  *CaseStat `json:"recovered,omitempty"`
	Deaths     *CaseStat `json:"deaths,omitempty"`
	LastUpdate Timestamp `json:"lastUpdate"`
}

// MissingFieldError reports a metric the source was expected to return.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// RequireMetrics fails fast when any of confirmed/recovered/deaths is absent.
func (s SummaryResult) RequireMetrics() error {
	switch {
	case s.Confirmed == nil:
		return &MissingFieldError{Field: "confirmed"}
	case s.Recovered == nil:
		return &MissingFieldError{Field: "recovered"}
	case s.Deaths == nil:
		return &MissingFieldError{Field: "deaths"}
	}
	return nil
}

// ConfirmedValue, RecoveredValue and DeathsValue return 0 for absent metrics.
func (s SummaryResult) ConfirmedValue() int64 { return s.Confirmed.value() }
func (s SummaryResult) RecoveredValue() int64 { return s.Recovered.value() }
func (s SummaryResult) DeathsValue() int64    { return s.Deaths.value() }

func (c *CaseStat) value() int64 {
	if c == nil {
		return 0
	}
	return c.Value
}

// Timestamp decodes either an ISO-8601 string or a number of milliseconds
// since the Unix epoch. Epoch 0 means the source has no update time and
// decodes to the zero time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("lastUpdate: %w", err)
		}
		return t.parseString(s)
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("lastUpdate: not a timestamp: %s", data)
	}
	t.setMillis(int64(ms))
	return nil
}

func (t *Timestamp) setMillis(ms int64) {
	if ms == 0 {
		t.Time = time.Time{}
		return
	}
	t.Time = time.UnixMilli(ms).UTC()
}

func (t *Timestamp) parseString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.setMillis(ms)
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("lastUpdate: unrecognised time %q", s)
}

// MarshalJSON writes the timestamp as RFC 3339, or null when unset.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}
