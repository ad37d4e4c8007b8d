// internal/app/features/summary/viewmodel.go
package summary

import (
	"unicode"
	"unicode/utf8"

	"github.com/dalemusser/pantaucorona/internal/app/system/format"
)

// ViewModel is what the summary partial and /api/summary render.
type ViewModel struct {
	Global      bool   `json:"global"`
	HomeCountry string `json:"home_country"`
	ShownScope  string `json:"shown_scope,omitempty"`
	Confirmed   string `json:"confirmed"`
	Recovered   string `json:"recovered"`
	Deaths      string `json:"deaths"`
	LastUpdate  string `json:"last_update"`
	HasData     bool   `json:"has_data"`
	Pending     bool   `json:"pending"`
	Error       string `json:"error,omitempty"`
}

// BuildViewModel formats a snapshot for display. Counters fall back to the
// placeholder dash before the first success, and for zero values.
func BuildViewModel(s Snapshot, f *format.Formatter, homeCountry string) ViewModel {
	vm := ViewModel{
		Global:      s.Global,
		HomeCountry: displayCountry(homeCountry),
		Confirmed:   format.Placeholder,
		Recovered:   format.Placeholder,
		Deaths:      format.Placeholder,
		Pending:     s.InFlight > 0,
		Error:       s.Outcome.ErrorString(),
	}
	if s.Shown != nil {
		vm.ShownScope = s.Shown.String()
	}
	if s.Summary == nil {
		return vm
	}

	vm.HasData = true
	vm.Confirmed = f.Count(s.Summary.ConfirmedValue())
	vm.Recovered = f.Count(s.Summary.RecoveredValue())
	vm.Deaths = f.Count(s.Summary.DeathsValue())
	vm.LastUpdate = f.LastUpdate(s.Summary.LastUpdate.Time)
	return vm
}

// displayCountry capitalises the first letter of an API country slug.
func displayCountry(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
