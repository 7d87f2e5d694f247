package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "staff-planner.com/staff-planner/internal/errors"
	"staff-planner.com/staff-planner/internal/recurrence"
)

func TestGenerateDates_WeeklyMondaysOfJanuary(t *testing.T) {
	got, err := GenerateDates("2025-01-01", "2025-01-31", []recurrence.Weekday{recurrence.Monday}, UnitWeekly)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-06", "2025-01-13", "2025-01-20", "2025-01-27"}, got)
}

func TestGenerateDates_WeeklyMultipleWeekdays(t *testing.T) {
	got, err := GenerateDates("2025-01-06", "2025-01-12",
		[]recurrence.Weekday{recurrence.Monday, recurrence.Friday}, UnitWeekly)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-06", "2025-01-10"}, got)
}

func TestGenerateDates_Daily(t *testing.T) {
	got, err := GenerateDates("2025-01-01", "2025-01-05", nil, UnitDaily)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05"}, got)
}

func TestGenerateDates_BiweeklyKeepsRhythm(t *testing.T) {
	got, err := GenerateDates("2025-01-06", "2025-02-17", []recurrence.Weekday{recurrence.Monday}, UnitBiweekly)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-06", "2025-01-20", "2025-02-03", "2025-02-17"}, got)
}

func TestGenerateDates_MonthlySkipsShortMonths(t *testing.T) {
	got, err := GenerateDates("2025-01-31", "2025-04-30", nil, UnitMonthly)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-31", "2025-03-31"}, got)
}

func TestGenerateDates_MonthlyMidMonth(t *testing.T) {
	got, err := GenerateDates("2025-01-15", "2025-03-20", nil, UnitMonthly)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-15", "2025-02-15", "2025-03-15"}, got)
}

func TestGenerateDates_ValidationFailures(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		weekdays []recurrence.Weekday
		unit     IntervalUnit
		wantErr  error
	}{
		{
			name:    "empty weekday selection",
			start:   "2025-01-01",
			end:     "2025-01-31",
			unit:    UnitWeekly,
			wantErr: apperrors.ErrEmptyWeekdaySelection,
		},
		{
			name:     "end before start",
			start:    "2025-02-01",
			end:      "2025-01-01",
			weekdays: []recurrence.Weekday{recurrence.Monday},
			unit:     UnitWeekly,
			wantErr:  apperrors.ErrEndBeforeStart,
		},
		{
			name:     "bad start date",
			start:    "01/01/2025",
			end:      "2025-01-31",
			weekdays: []recurrence.Weekday{recurrence.Monday},
			unit:     UnitWeekly,
			wantErr:  apperrors.ErrInvalidDate,
		},
		{
			name:     "unknown unit",
			start:    "2025-01-01",
			end:      "2025-01-31",
			weekdays: []recurrence.Weekday{recurrence.Monday},
			unit:     IntervalUnit("fortnightly"),
			wantErr:  apperrors.ErrUnknownIntervalUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateDates(tt.start, tt.end, tt.weekdays, tt.unit)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateDates_EmptyResultIsNotAnError(t *testing.T) {
	// Monday-to-Friday range with only Saturday selected matches nothing;
	// rejecting the empty batch is the caller's decision.
	got, err := GenerateDates("2025-01-06", "2025-01-10", []recurrence.Weekday{recurrence.Saturday}, UnitWeekly)

	require.NoError(t, err)
	assert.Empty(t, got)
}
