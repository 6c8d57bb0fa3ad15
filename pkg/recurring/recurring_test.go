package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCadence_Next(t *testing.T) {
	tests := []struct {
		name    string
		cadence Cadence
		from    time.Time
		want    time.Time
	}{
		{
			name:    "daily advances one day",
			cadence: CadenceDaily,
			from:    time.Date(2025, time.April, 30, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "weekly advances seven days",
			cadence: CadenceWeekly,
			from:    time.Date(2025, time.April, 28, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2025, time.May, 5, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "monthly keeps the day of month",
			cadence: CadenceMonthly,
			from:    time.Date(2025, time.April, 15, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2025, time.May, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "monthly clamps the 31st to a 30-day month",
			cadence: CadenceMonthly,
			from:    time.Date(2025, time.March, 31, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2025, time.April, 30, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "monthly clamps the 31st to February",
			cadence: CadenceMonthly,
			from:    time.Date(2025, time.January, 31, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2025, time.February, 28, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "monthly clamps to February 29th in a leap year",
			cadence: CadenceMonthly,
			from:    time.Date(2024, time.January, 30, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "monthly rolls over the year boundary",
			cadence: CadenceMonthly,
			from:    time.Date(2025, time.December, 31, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2026, time.January, 31, 8, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cadence.Next(tt.from))
		})
	}
}

func TestCadence_Next_clampedDayPersists(t *testing.T) {
	// given
	from := time.Date(2025, time.January, 31, 8, 0, 0, 0, time.UTC)

	// when
	second := CadenceMonthly.Next(CadenceMonthly.Next(from))

	// then
	// once clamped to Feb 28, the rule stays on the 28th
	assert.Equal(t, time.Date(2025, time.March, 28, 8, 0, 0, 0, time.UTC), second)
}

func TestCadence_Valid(t *testing.T) {
	assert.True(t, CadenceDaily.Valid())
	assert.True(t, CadenceWeekly.Valid())
	assert.True(t, CadenceMonthly.Valid())
	assert.False(t, Cadence("YEARLY").Valid())
}
