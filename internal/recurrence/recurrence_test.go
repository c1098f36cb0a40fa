package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhvplatform/go-property-automation/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		name string
		freq domain.Frequency
		now  time.Time
		want time.Time
	}{
		{
			name: "daily adds one day",
			freq: domain.FrequencyDaily,
			now:  date(2025, time.March, 14),
			want: date(2025, time.March, 15),
		},
		{
			name: "daily crosses month boundary",
			freq: domain.FrequencyDaily,
			now:  date(2025, time.April, 30),
			want: date(2025, time.May, 1),
		},
		{
			name: "weekly adds seven days",
			freq: domain.FrequencyWeekly,
			now:  date(2025, time.March, 14),
			want: date(2025, time.March, 21),
		},
		{
			name: "weekly crosses year boundary",
			freq: domain.FrequencyWeekly,
			now:  date(2025, time.December, 29),
			want: date(2026, time.January, 5),
		},
		{
			name: "monthly keeps day of month",
			freq: domain.FrequencyMonthly,
			now:  date(2025, time.March, 14),
			want: date(2025, time.April, 14),
		},
		{
			name: "monthly clamps Jan 31 to Feb 28",
			freq: domain.FrequencyMonthly,
			now:  date(2025, time.January, 31),
			want: date(2025, time.February, 28),
		},
		{
			name: "monthly clamps Jan 31 to Feb 29 in leap year",
			freq: domain.FrequencyMonthly,
			now:  date(2024, time.January, 31),
			want: date(2024, time.February, 29),
		},
		{
			name: "monthly clamps May 31 to Jun 30",
			freq: domain.FrequencyMonthly,
			now:  date(2025, time.May, 31),
			want: date(2025, time.June, 30),
		},
		{
			name: "monthly from December rolls into next year",
			freq: domain.FrequencyMonthly,
			now:  date(2025, time.December, 15),
			want: date(2026, time.January, 15),
		},
		{
			name: "yearly adds one year",
			freq: domain.FrequencyYearly,
			now:  date(2025, time.March, 14),
			want: date(2026, time.March, 14),
		},
		{
			name: "yearly clamps Feb 29 to Feb 28",
			freq: domain.FrequencyYearly,
			now:  date(2024, time.February, 29),
			want: date(2025, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextRun(tt.freq, tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.now), "next run must be strictly after now")
		})
	}
}

func TestNextRunOnceDoesNotRecur(t *testing.T) {
	_, ok := NextRun(domain.FrequencyOnce, date(2025, time.March, 14))
	assert.False(t, ok)
}

func TestNextRunPreservesTimeOfDay(t *testing.T) {
	now := time.Date(2025, time.January, 31, 6, 15, 42, 0, time.UTC)

	got, ok := NextRun(domain.FrequencyMonthly, now)
	require.True(t, ok)
	assert.Equal(t, 6, got.Hour())
	assert.Equal(t, 15, got.Minute())
	assert.Equal(t, 42, got.Second())
}
