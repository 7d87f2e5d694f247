package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"staff-planner.com/staff-planner/internal/cache"
	"staff-planner.com/staff-planner/internal/calendar"
	apperrors "staff-planner.com/staff-planner/internal/errors"
	"staff-planner.com/staff-planner/internal/overlay"
	"staff-planner.com/staff-planner/internal/recurrence"
	repository "staff-planner.com/staff-planner/internal/repositories"
)

// CalendarService fetches everything one projection needs and hands it to the
// pure projector. Expansion is computed per request; nothing recurring is
// pre-materialized here.
type CalendarService struct {
	tasks    *repository.TaskRepository
	overlays *repository.OverlayRepository
	leaves   *repository.LeaveRepository
	cache    *cache.CalendarCache
}

func NewCalendarService(
	tasks *repository.TaskRepository,
	overlays *repository.OverlayRepository,
	leaves *repository.LeaveRepository,
	calendarCache *cache.CalendarCache,
) *CalendarService {
	return &CalendarService{
		tasks:    tasks,
		overlays: overlays,
		leaves:   leaves,
		cache:    calendarCache,
	}
}

func (s *CalendarService) GetCalendar(ctx context.Context, from, to string, viewer calendar.Visibility) ([]calendar.Event, error) {
	start, err := recurrence.ParseDate(from)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	end, err := recurrence.ParseDate(to)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	if end.Before(start) {
		return nil, apperrors.ErrEndBeforeStart
	}

	key := s.cache.Key(ctx, viewerScope(viewer), from, to)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var events []calendar.Event
		if err := json.Unmarshal(payload, &events); err == nil {
			return events, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached calendar")
	}

	input, err := s.fetchProjectionInput(ctx, from, to, viewer)
	if err != nil {
		return nil, err
	}
	events := calendar.Project(input)

	if payload, err := json.Marshal(events); err == nil {
		s.cache.Set(ctx, key, payload)
	}

	return events, nil
}

func (s *CalendarService) fetchProjectionInput(ctx context.Context, from, to string, viewer calendar.Visibility) (calendar.Input, error) {
	tasks, err := s.tasks.ListDueInRange(ctx, from, to)
	if err != nil {
		return calendar.Input{}, err
	}
	recurring, err := s.tasks.ListRecurring(ctx, to)
	if err != nil {
		return calendar.Input{}, err
	}

	recurringIDs := make([]string, 0, len(recurring))
	for _, def := range recurring {
		recurringIDs = append(recurringIDs, def.ID)
	}

	skips, err := s.overlays.ListSkips(ctx, recurringIDs, from, to)
	if err != nil {
		return calendar.Input{}, err
	}
	overrides, err := s.overlays.ListOverrides(ctx, recurringIDs, from, to)
	if err != nil {
		return calendar.Input{}, err
	}
	completions, err := s.overlays.ListCompletions(ctx, recurringIDs, from, to)
	if err != nil {
		return calendar.Input{}, err
	}

	leaves, err := s.leaves.ListApprovedOverlapping(ctx, from, to)
	if err != nil {
		return calendar.Input{}, err
	}

	return calendar.Input{
		From:      from,
		To:        to,
		Tasks:     tasks,
		Recurring: recurring,
		Overlays:  overlay.NewSet(skips, overrides, completions),
		Leaves:    leaves,
		Viewer:    viewer,
	}, nil
}

func viewerScope(viewer calendar.Visibility) string {
	if viewer.Admin {
		return "admin"
	}
	return viewer.ViewerID + "," + strings.Join(viewer.Groups, ",")
}
