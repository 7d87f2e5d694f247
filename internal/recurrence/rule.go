package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// DateLayout is the wire format for calendar dates throughout the service.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for clock times (due time, activity window).
const TimeLayout = "15:04"

type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"

	// FreqNone is stored for a syntactically valid rule whose frequency token
	// is not one we expand. Such rules expand to nothing rather than erroring.
	FreqNone Frequency = ""
)

// Weekday is a two-letter iCalendar weekday code (MO..SU).
type Weekday string

const (
	Monday    Weekday = "MO"
	Tuesday   Weekday = "TU"
	Wednesday Weekday = "WE"
	Thursday  Weekday = "TH"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
	Sunday    Weekday = "SU"
)

var weekdayToRRule = map[Weekday]rrule.Weekday{
	Monday:    rrule.MO,
	Tuesday:   rrule.TU,
	Wednesday: rrule.WE,
	Thursday:  rrule.TH,
	Friday:    rrule.FR,
	Saturday:  rrule.SA,
	Sunday:    rrule.SU,
}

var weekdayToTime = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// ParseWeekday converts a two-letter code into a Weekday.
func ParseWeekday(code string) (Weekday, error) {
	wd := Weekday(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := weekdayToRRule[wd]; !ok {
		return "", fmt.Errorf("unknown weekday code %q", code)
	}
	return wd, nil
}

// Time returns the time.Weekday equivalent of the code.
func (w Weekday) Time() time.Weekday {
	return weekdayToTime[w]
}

// Rule is the parsed form of a compact recurrence rule string, e.g.
// "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR". ByDay is only meaningful for
// weekly rules; an absent ByDay means "same weekday as the anchor date".
type Rule struct {
	Freq     Frequency
	Interval int
	ByDay    []Weekday
}

// ParseRule parses the rule string. Unknown frequency tokens parse to
// FreqNone (the rule expands to nothing); malformed syntax, a non-positive
// interval or an unknown weekday code are errors.
func ParseRule(s string) (Rule, error) {
	rule := Rule{Interval: 1}

	s = strings.TrimSpace(s)
	if s == "" {
		return Rule{}, fmt.Errorf("empty recurrence rule")
	}

	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found || value == "" {
			return Rule{}, fmt.Errorf("malformed rule token %q", part)
		}

		switch strings.ToUpper(key) {
		case "FREQ":
			switch Frequency(strings.ToUpper(value)) {
			case FreqDaily:
				rule.Freq = FreqDaily
			case FreqWeekly:
				rule.Freq = FreqWeekly
			case FreqMonthly:
				rule.Freq = FreqMonthly
			default:
				rule.Freq = FreqNone
			}
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Rule{}, fmt.Errorf("interval %q is not an integer", value)
			}
			if n < 1 {
				return Rule{}, fmt.Errorf("interval must be >= 1, got %d", n)
			}
			rule.Interval = n
		case "BYDAY":
			for _, code := range strings.Split(value, ",") {
				wd, err := ParseWeekday(code)
				if err != nil {
					return Rule{}, err
				}
				rule.ByDay = append(rule.ByDay, wd)
			}
		default:
			// Tokens we do not understand (COUNT, UNTIL, ...) are ignored
			// rather than rejected, matching how stored rules were written.
		}
	}

	return rule, nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
