package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"
)

// MaxOccurrences caps a single expansion so a malformed or very dense rule
// can never produce an unbounded occurrence list.
const MaxOccurrences = 100

var ruleFreq = map[Frequency]rrule.Frequency{
	FreqDaily:   rrule.DAILY,
	FreqWeekly:  rrule.WEEKLY,
	FreqMonthly: rrule.MONTHLY,
}

// Expand turns a rule anchored at anchor into the concrete occurrence dates
// inside [rangeStart, rangeEnd], ascending and de-duplicated. The anchor date
// itself is a candidate occurrence when it falls inside the range (for weekly
// rules with an explicit weekday set, only if its weekday is selected).
//
// Expand is pure: identical inputs always yield identical output. A rule with
// FreqNone expands to nothing. Monthly rules anchored on day 29-31 follow
// RFC 5545 semantics: months without that day produce no occurrence.
func Expand(rule Rule, anchor, rangeStart, rangeEnd time.Time) []time.Time {
	freq, ok := ruleFreq[rule.Freq]
	if !ok {
		return nil
	}
	if rangeEnd.Before(rangeStart) {
		return nil
	}

	anchor = midnight(anchor)
	rangeStart = midnight(rangeStart)
	rangeEnd = midnight(rangeEnd)

	opt := rrule.ROption{
		Freq:     freq,
		Interval: rule.Interval,
		Dtstart:  anchor,
	}
	if rule.Freq == FreqWeekly && len(rule.ByDay) > 0 {
		for _, wd := range rule.ByDay {
			opt.Byweekday = append(opt.Byweekday, weekdayToRRule[wd])
		}
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}

	occurrences := r.Between(rangeStart, rangeEnd, true)
	if len(occurrences) > MaxOccurrences {
		occurrences = occurrences[:MaxOccurrences]
	}

	// rrule emits ascending unique instants already; normalizing to midnight
	// keeps callers on day granularity regardless of the anchor's clock time.
	dates := make([]time.Time, 0, len(occurrences))
	var last time.Time
	for _, occ := range occurrences {
		day := midnight(occ)
		if !last.IsZero() && day.Equal(last) {
			continue
		}
		dates = append(dates, day)
		last = day
	}

	return dates
}

// ExpandRuleString parses and expands in one step, for callers holding the
// stored rule string. A parse failure expands to nothing; write paths are
// expected to have validated the rule already.
func ExpandRuleString(ruleStr string, anchor, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	rule, err := ParseRule(ruleStr)
	if err != nil {
		return nil, err
	}
	return Expand(rule, anchor, rangeStart, rangeEnd), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
