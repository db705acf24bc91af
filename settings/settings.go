// Package settings holds the process-wide sender identity and billing rate.
package settings

import (
	"strings"

	"github.com/solobill/timebill/types"
)

// Settings is the sender identity printed on every invoice plus the
// default hourly rate. It is a singleton, mutated only through an
// explicit save, and may be empty until the user fills it in.
//
// HourlyRate is kept in major units because that is the persisted wire
// shape; use Rate to get a Money value for arithmetic.
type Settings struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"` // multi-line, newline separated
	HourlyRate float64 `json:"hourlyRate"`
}

// Rate returns the hourly rate as integer-cent Money in the given currency.
func (s *Settings) Rate(currency string) types.Money {
	return types.FromFloat(s.HourlyRate, currency)
}

// AddressLines splits the multi-line address into its non-empty segments.
func (s *Settings) AddressLines() []string {
	var lines []string
	for _, line := range strings.Split(s.Address, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
