// Package calendar flattens regular tasks, rule-based recurring tasks and
// approved leave into one ordered event list for a date range. Projection is
// pure over already-fetched rows; all I/O belongs to the calling service.
package calendar

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"staff-planner.com/staff-planner/internal/constants"
	model "staff-planner.com/staff-planner/internal/models"
	"staff-planner.com/staff-planner/internal/overlay"
	"staff-planner.com/staff-planner/internal/recurrence"
)

type EventKind string

const (
	KindTask  EventKind = "task"
	KindLeave EventKind = "leave"
)

// Event is one displayable calendar entry. Start/End are HH:MM clock times;
// both nil for all-day entries.
type Event struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id,omitempty"`
	Kind        EventKind  `json:"kind"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Start       *string    `json:"start,omitempty"`
	End         *string    `json:"end,omitempty"`
	AllDay      bool       `json:"all_day"`
	Category    string     `json:"category,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedBy *string    `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UserID      string     `json:"user_id,omitempty"`
	LeaveType   string     `json:"leave_type,omitempty"`
}

// Visibility is the viewer's scope. An unscoped (admin) context sees every
// event; a scoped one sees events assigned to "all", to the viewer directly,
// or to one of the viewer's groups.
type Visibility struct {
	ViewerID string
	Groups   []string
	Admin    bool
}

func (v Visibility) covers(task model.Task) bool {
	if v.Admin {
		return true
	}
	if task.AssignedTo == constants.AssignedAll || task.AssignedTo == v.ViewerID {
		return true
	}
	if task.AssignedGroup != nil {
		for _, g := range v.Groups {
			if g == *task.AssignedGroup {
				return true
			}
		}
	}
	return false
}

// Input carries everything one projection needs, pre-fetched by the caller.
type Input struct {
	From, To  string
	Tasks     []model.Task // non-recurring rows due inside [From, To]
	Recurring []model.Task // recurring definitions anchored on or before To
	Overlays  *overlay.Set
	Leaves    []model.Leave
	Viewer    Visibility
}

const (
	defaultStart = "09:00"
	defaultEnd   = "10:00"
)

// Project produces the ordered event list for the range. A row that cannot be
// transformed (bad recurrence rule, malformed stored time) is logged and
// dropped so one broken record never blanks the whole calendar.
func Project(in Input) []Event {
	events := make([]Event, 0, len(in.Tasks)+len(in.Leaves))

	for _, task := range in.Tasks {
		if !in.Viewer.covers(task) {
			continue
		}
		ev, err := taskEvent(task)
		if err != nil {
			log.Error().Err(err).Str("task_id", task.ID).Msg("dropping malformed task from calendar")
			continue
		}
		events = append(events, ev)
	}

	events = append(events, recurringEvents(in)...)
	events = append(events, leaveEvents(in)...)

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		si, sj := eventSortTime(events[i]), eventSortTime(events[j])
		if si != sj {
			return si < sj
		}
		return events[i].Title < events[j].Title
	})

	return events
}

func recurringEvents(in Input) []Event {
	rangeStart, err := recurrence.ParseDate(in.From)
	if err != nil {
		log.Error().Err(err).Str("from", in.From).Msg("invalid projection range start")
		return nil
	}
	rangeEnd, err := recurrence.ParseDate(in.To)
	if err != nil {
		log.Error().Err(err).Str("to", in.To).Msg("invalid projection range end")
		return nil
	}

	var events []Event
	for _, def := range in.Recurring {
		if !in.Viewer.covers(def) {
			continue
		}

		anchor, err := recurrence.ParseDate(def.DueDate)
		if err != nil {
			log.Error().Err(err).Str("task_id", def.ID).Msg("dropping recurring task with bad anchor date")
			continue
		}
		rule, err := recurrence.ParseRule(derefRule(def))
		if err != nil {
			log.Error().Err(err).Str("task_id", def.ID).Msg("dropping recurring task with bad rule")
			continue
		}

		for _, day := range recurrence.Expand(rule, anchor, rangeStart, rangeEnd) {
			date := recurrence.FormatDate(day)
			occ, skipped := overlay.Resolve(def, date, in.Overlays)
			if skipped {
				continue
			}
			ev, err := occurrenceEvent(occ)
			if err != nil {
				log.Error().Err(err).Str("task_id", def.ID).Str("date", date).Msg("dropping malformed occurrence")
				continue
			}
			events = append(events, ev)
		}
	}
	return events
}

func leaveEvents(in Input) []Event {
	var events []Event
	for _, lv := range in.Leaves {
		if lv.Status != constants.LeaveApproved {
			continue
		}
		if lv.EndDate < in.From || lv.StartDate > in.To {
			continue
		}
		startDate := lv.StartDate
		if startDate < in.From {
			startDate = in.From
		}
		endDate := lv.EndDate
		if endDate > in.To {
			endDate = in.To
		}
		start, err := recurrence.ParseDate(startDate)
		if err != nil {
			log.Error().Err(err).Str("leave_id", lv.ID).Msg("dropping leave with bad start date")
			continue
		}
		end, err := recurrence.ParseDate(endDate)
		if err != nil {
			log.Error().Err(err).Str("leave_id", lv.ID).Msg("dropping leave with bad end date")
			continue
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			date := recurrence.FormatDate(d)
			events = append(events, Event{
				ID:        lv.ID + ":" + date,
				Kind:      KindLeave,
				Title:     lv.LeaveType,
				Date:      date,
				AllDay:    true,
				UserID:    lv.UserID,
				LeaveType: lv.LeaveType,
			})
		}
	}
	return events
}

func taskEvent(task model.Task) (Event, error) {
	start, end, err := displaySpan(task.IsAllDay, task.IsActivity, task.DueTime, task.StartTime, task.EndTime)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:          task.ID,
		TaskID:      task.ID,
		Kind:        KindTask,
		Title:       task.Title,
		Date:        task.DueDate,
		Start:       start,
		End:         end,
		AllDay:      task.IsAllDay,
		Category:    task.Category,
		Priority:    task.Priority,
		Completed:   task.Status == constants.StatusCompleted,
		CompletedBy: task.CompletedBy,
		CompletedAt: task.CompletedAt,
	}, nil
}

func occurrenceEvent(occ overlay.Occurrence) (Event, error) {
	start, end, err := displaySpan(occ.IsAllDay, occ.IsActivity, occ.DueTime, occ.StartTime, occ.EndTime)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:          occ.TaskID + ":" + occ.Date,
		TaskID:      occ.TaskID,
		Kind:        KindTask,
		Title:       occ.Title,
		Date:        occ.Date,
		Start:       start,
		End:         end,
		AllDay:      occ.IsAllDay,
		Category:    occ.Category,
		Priority:    occ.Priority,
		Completed:   occ.Completed,
		CompletedBy: occ.CompletedBy,
		CompletedAt: occ.CompletedAt,
	}, nil
}

// displaySpan computes the displayed start/end: all-day entries span the date
// with no time, activities use their explicit window, ordinary tasks get a
// synthetic one-hour span from the due time, or 09:00-10:00 without one.
func displaySpan(allDay, activity bool, dueTime, startTime, endTime *string) (*string, *string, error) {
	if allDay {
		return nil, nil, nil
	}
	if activity {
		return startTime, endTime, nil
	}
	if dueTime == nil {
		s, e := defaultStart, defaultEnd
		return &s, &e, nil
	}
	t, err := time.Parse(recurrence.TimeLayout, *dueTime)
	if err != nil {
		return nil, nil, err
	}
	end := t.Add(time.Hour).Format(recurrence.TimeLayout)
	return dueTime, &end, nil
}

func eventSortTime(ev Event) string {
	if ev.Start == nil {
		return "" // all-day entries sort before timed ones
	}
	return *ev.Start
}

func derefRule(task model.Task) string {
	if task.RecurrenceRule == nil {
		return ""
	}
	return *task.RecurrenceRule
}
