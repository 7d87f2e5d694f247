package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Rule
		wantErr bool
	}{
		{
			name:  "weekly with weekday set",
			input: "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR",
			want:  Rule{Freq: FreqWeekly, Interval: 1, ByDay: []Weekday{Monday, Wednesday, Friday}},
		},
		{
			name:  "interval defaults to one",
			input: "FREQ=DAILY",
			want:  Rule{Freq: FreqDaily, Interval: 1},
		},
		{
			name:  "monthly with interval",
			input: "FREQ=MONTHLY;INTERVAL=3",
			want:  Rule{Freq: FreqMonthly, Interval: 3},
		},
		{
			name:  "lowercase tokens accepted",
			input: "freq=weekly;byday=sa,su",
			want:  Rule{Freq: FreqWeekly, Interval: 1, ByDay: []Weekday{Saturday, Sunday}},
		},
		{
			name:  "unknown frequency parses to none",
			input: "FREQ=YEARLY;INTERVAL=1",
			want:  Rule{Freq: FreqNone, Interval: 1},
		},
		{
			name:  "unknown tokens ignored",
			input: "FREQ=DAILY;COUNT=10",
			want:  Rule{Freq: FreqDaily, Interval: 1},
		},
		{
			name:    "empty rule",
			input:   "",
			wantErr: true,
		},
		{
			name:    "zero interval",
			input:   "FREQ=DAILY;INTERVAL=0",
			wantErr: true,
		},
		{
			name:    "negative interval",
			input:   "FREQ=WEEKLY;INTERVAL=-2",
			wantErr: true,
		},
		{
			name:    "non-numeric interval",
			input:   "FREQ=WEEKLY;INTERVAL=two",
			wantErr: true,
		},
		{
			name:    "bad weekday code",
			input:   "FREQ=WEEKLY;BYDAY=MO,XX",
			wantErr: true,
		},
		{
			name:    "token without value",
			input:   "FREQ=",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRule(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	wd, err := ParseWeekday(" mo ")
	require.NoError(t, err)
	assert.Equal(t, Monday, wd)

	_, err = ParseWeekday("MONDAY")
	assert.Error(t, err)
}
