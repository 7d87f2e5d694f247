package batch

import (
	"time"

	apperrors "staff-planner.com/staff-planner/internal/errors"
	"staff-planner.com/staff-planner/internal/recurrence"
)

// IntervalUnit selects how a materialized batch repeats between its start and
// end dates.
type IntervalUnit string

const (
	UnitDaily    IntervalUnit = "daily"
	UnitWeekly   IntervalUnit = "weekly"
	UnitBiweekly IntervalUnit = "biweekly"
	UnitMonthly  IntervalUnit = "monthly"
)

// GenerateDates lists every date in [startDate, endDate] matching the repeat
// specification, ascending, as YYYY-MM-DD strings. Each returned date becomes
// one persisted task row; the caller owns choosing a single creation instant
// shared by all of them.
//
// daily emits every day. weekly emits each selected weekday every week and
// biweekly every second week, counted from the start date's week. monthly
// emits the start date's day-of-month in each month, skipping months without
// that day. An empty result is returned as-is; rejecting it is the caller's
// decision.
func GenerateDates(startDate, endDate string, weekdays []recurrence.Weekday, unit IntervalUnit) ([]string, error) {
	start, err := recurrence.ParseDate(startDate)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	end, err := recurrence.ParseDate(endDate)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	if end.Before(start) {
		return nil, apperrors.ErrEndBeforeStart
	}

	switch unit {
	case UnitDaily:
		return everyDay(start, end), nil
	case UnitWeekly, UnitBiweekly:
		if len(weekdays) == 0 {
			return nil, apperrors.ErrEmptyWeekdaySelection
		}
		weekStep := 1
		if unit == UnitBiweekly {
			weekStep = 2
		}
		return matchingWeekdays(start, end, weekdays, weekStep), nil
	case UnitMonthly:
		return sameDayEachMonth(start, end), nil
	default:
		return nil, apperrors.ErrUnknownIntervalUnit
	}
}

func everyDay(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, recurrence.FormatDate(d))
	}
	return dates
}

func matchingWeekdays(start, end time.Time, weekdays []recurrence.Weekday, weekStep int) []string {
	allowed := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		allowed[wd.Time()] = true
	}

	// Weeks are counted Monday-aligned from the start date, so a biweekly
	// batch keeps its rhythm across month boundaries.
	weekAnchor := startOfWeek(start)

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !allowed[d.Weekday()] {
			continue
		}
		weeks := int(startOfWeek(d).Sub(weekAnchor).Hours()) / (24 * 7)
		if weeks%weekStep != 0 {
			continue
		}
		dates = append(dates, recurrence.FormatDate(d))
	}
	return dates
}

func sameDayEachMonth(start, end time.Time) []string {
	day := start.Day()
	var dates []string
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		candidate := time.Date(cursor.Year(), cursor.Month(), day, 0, 0, 0, 0, time.UTC)
		// Day-of-month overflow rolls into the next month; such months are
		// skipped rather than clamped.
		if candidate.Month() == cursor.Month() && !candidate.Before(start) && !candidate.After(end) {
			dates = append(dates, recurrence.FormatDate(candidate))
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return dates
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}
