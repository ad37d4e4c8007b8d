// internal/domain/models/scope.go
package models

// Scope selects between the fixed home country and global aggregates.
type Scope struct {
	Global  bool
	Country string
}

// GlobalScope is the whole-world scope.
func GlobalScope() Scope { return Scope{Global: true} }

// CountryScope scopes a fetch to a single named country.
func CountryScope(name string) Scope { return Scope{Country: name} }

// String is used as a log field and metric label.
func (s Scope) String() string {
	if s.Global {
		return "global"
	}
	return s.Country
}

// CountryEntry is one row of the static comparison list.
type CountryEntry struct {
	Name string `json:"name"`
}

// CountryResult pairs a fetched summary with the country it was requested for.
type CountryResult struct {
	Country CountryEntry  `json:"country"`
	Summary SummaryResult `json:"summary"`
}
