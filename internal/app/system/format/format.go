// Package format renders case counts and update times for display.
//
// Counts use the configured locale's digit grouping. A zero or absent
// count renders as Placeholder, matching the dashboard's "no data" dash.
package format

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown for absent or zero counts.
const Placeholder = "-"

// Formatter is safe for concurrent use.
type Formatter struct {
	printer *message.Printer
	loc     *time.Location
}

// New builds a Formatter for a BCP 47 locale tag and an IANA time zone.
// An empty locale means English; an empty zone means UTC.
func New(locale, zone string) (*Formatter, error) {
	tag := language.English
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", locale, err)
		}
		tag = parsed
	}

	loc := time.UTC
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("time zone %q: %w", zone, err)
		}
		loc = l
	}

	return &Formatter{printer: message.NewPrinter(tag), loc: loc}, nil
}

// Default is English grouping in UTC.
func Default() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.English), loc: time.UTC}
}

// Grouped renders n with thousands separators, zero included.
func (f *Formatter) Grouped(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Count renders n grouped, or Placeholder when n is zero.
func (f *Formatter) Count(n int64) string {
	if n == 0 {
		return Placeholder
	}
	return f.Grouped(n)
}

// LastUpdate renders t as "H:M:S D-M-YYYY", 24-hour and without zero
// padding, in the display zone. The zero time renders as "".
func (f *Formatter) LastUpdate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(f.loc)
	return fmt.Sprintf("%d:%d:%d %d-%d-%d",
		t.Hour(), t.Minute(), t.Second(),
		t.Day(), int(t.Month()), t.Year())
}
