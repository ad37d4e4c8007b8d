// internal/app/features/comparison/viewmodel.go
package comparison

import "github.com/dalemusser/pantaucorona/internal/app/system/format"

// Headers are the fixed table columns.
var Headers = []string{"Name", "Positive", "Recovered", "Deaths"}

// Row is one country line of the table.
type Row struct {
	Name      string `json:"name"`
	Positive  string `json:"positive"`
	Recovered string `json:"recovered"`
	Deaths    string `json:"deaths"`
}

// ViewModel is what the comparison partial and /api/comparison render.
// While Loading, Headers and Rows are empty.
type ViewModel struct {
	Loading bool     `json:"loading"`
	Headers []string `json:"headers,omitempty"`
	Rows    []Row    `json:"rows"`
	Error   string   `json:"error,omitempty"`
}

// BuildViewModel formats a snapshot. Rows follow the configured country
// order; zero counts are shown as "0".
func BuildViewModel(s Snapshot, f *format.Formatter) ViewModel {
	vm := ViewModel{
		Loading: s.Loading,
		Rows:    []Row{},
		Error:   s.Outcome.ErrorString(),
	}
	if s.Loading {
		return vm
	}

	vm.Headers = Headers
	for _, r := range s.Results {
		vm.Rows = append(vm.Rows, Row{
			Name:      r.Country.Name,
			Positive:  f.Grouped(r.Summary.ConfirmedValue()),
			Recovered: f.Grouped(r.Summary.RecoveredValue()),
			Deaths:    f.Grouped(r.Summary.DeathsValue()),
		})
	}
	return vm
}
