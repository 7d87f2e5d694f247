// Package overlay reconciles per-occurrence state against the base recurring
// task definition. Three independent overlay layers exist: skips, time
// overrides and completions. Resolution never writes; it composes a snapshot
// of already-fetched overlay rows with the base definition.
package overlay

import (
	"time"

	"github.com/samber/mo"

	model "staff-planner.com/staff-planner/internal/models"
)

// Occurrence is the effective state of one occurrence of a recurring task on
// one date, after overlays have been applied.
type Occurrence struct {
	TaskID      string
	Date        string
	Title       string
	Description string
	Category    string
	Priority    string
	IsAllDay    bool
	IsActivity  bool

	// Time fields after override application. When an override record exists,
	// a nil value here is an explicit "no time", not a fall-back to the base.
	DueTime   *string
	StartTime *string
	EndTime   *string

	Overridden  bool
	Completed   bool
	CompletedBy *string
	CompletedAt *time.Time
}

// Set is a snapshot of overlay rows keyed by (task id, date). Lookups return
// mo.Option so "no record" stays distinct from any value a record may carry.
type Set struct {
	skips       map[string]model.TaskSkip
	overrides   map[string]model.TaskOverride
	completions map[string]model.TaskCompletion
}

func NewSet(skips []model.TaskSkip, overrides []model.TaskOverride, completions []model.TaskCompletion) *Set {
	s := &Set{
		skips:       make(map[string]model.TaskSkip, len(skips)),
		overrides:   make(map[string]model.TaskOverride, len(overrides)),
		completions: make(map[string]model.TaskCompletion, len(completions)),
	}
	for _, sk := range skips {
		s.skips[occKey(sk.TaskID, sk.Date)] = sk
	}
	for _, ov := range overrides {
		s.overrides[occKey(ov.TaskID, ov.Date)] = ov
	}
	for _, cp := range completions {
		s.completions[occKey(cp.TaskID, cp.Date)] = cp
	}
	return s
}

func (s *Set) Skip(taskID, date string) mo.Option[model.TaskSkip] {
	if sk, ok := s.skips[occKey(taskID, date)]; ok {
		return mo.Some(sk)
	}
	return mo.None[model.TaskSkip]()
}

func (s *Set) Override(taskID, date string) mo.Option[model.TaskOverride] {
	if ov, ok := s.overrides[occKey(taskID, date)]; ok {
		return mo.Some(ov)
	}
	return mo.None[model.TaskOverride]()
}

func (s *Set) Completion(taskID, date string) mo.Option[model.TaskCompletion] {
	if cp, ok := s.completions[occKey(taskID, date)]; ok {
		return mo.Some(cp)
	}
	return mo.None[model.TaskCompletion]()
}

// Resolve computes the effective state of one occurrence of task on date.
// Precedence: a skip wins unconditionally; otherwise an override replaces the
// base time fields wholesale; completion state is attached last. The second
// return value reports a skipped occurrence, in which case the Occurrence is
// the zero value.
func Resolve(task model.Task, date string, set *Set) (Occurrence, bool) {
	if set.Skip(task.ID, date).IsPresent() {
		return Occurrence{}, true
	}

	occ := Occurrence{
		TaskID:      task.ID,
		Date:        date,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Priority:    task.Priority,
		IsAllDay:    task.IsAllDay,
		IsActivity:  task.IsActivity,
		DueTime:     task.DueTime,
		StartTime:   task.StartTime,
		EndTime:     task.EndTime,
	}

	if ov, ok := set.Override(task.ID, date).Get(); ok {
		occ.DueTime = ov.DueTime
		occ.StartTime = ov.StartTime
		occ.EndTime = ov.EndTime
		occ.Overridden = true
	}

	if cp, ok := set.Completion(task.ID, date).Get(); ok {
		occ.Completed = true
		occ.CompletedBy = &cp.CompletedBy
		occ.CompletedAt = &cp.CompletedAt
	}

	return occ, false
}

func occKey(taskID, date string) string {
	return taskID + "|" + date
}
