package payments

import (
	"strings"
	"time"
)

// Frequency represents how often a pay run is executed
type Frequency string

const (
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyBiWeekly Frequency = "Bi-Weekly"
	FrequencyMonthly  Frequency = "Monthly"
)

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// IsValid checks if the frequency is one of the known labels
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// NextRunDate derives the date of the next pay run from a frequency label.
// Matching is a case-insensitive prefix check: "weekly..." is 7 days out,
// "bi..." is 14 days out, everything else (including unrecognized labels)
// falls back to the monthly cadence of 30 days.
func NextRunDate(today time.Time, freq Frequency) time.Time {
	label := strings.ToLower(string(freq))
	switch {
	case strings.HasPrefix(label, "weekly"):
		return today.AddDate(0, 0, 7)
	case strings.HasPrefix(label, "bi"):
		return today.AddDate(0, 0, 14)
	default:
		return today.AddDate(0, 0, 30)
	}
}
