package period

import (
	"fmt"
	"time"
)

// Window is a half-open [Start, End) calendar month range. End is the first
// instant of the following month, so a transaction dated exactly at month end
// belongs to the next window.
type Window struct {
	Start time.Time
	End   time.Time
	Label string
}

// Parse resolves a "YYYY-MM" label into its month window.
func Parse(label string) (Window, error) {
	start, err := time.Parse("2006-01", label)
	if err != nil {
		return Window{}, fmt.Errorf("invalid month label %q: %w", label, err)
	}
	return Window{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: label,
	}, nil
}

// Current returns the window of the month containing now.
func Current(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: start.Format("2006-01"),
	}
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
