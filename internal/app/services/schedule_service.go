package services

import (
	"context"
	"time"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/timerange"
)

// ScheduleStore is the slice of the schedule repository the service needs.
type ScheduleStore interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	ListByClass(ctx context.Context, classID int64) ([]models.Schedule, error)
	ListByClassAndDay(ctx context.Context, classID int64, day models.Day) ([]models.Schedule, error)
	Delete(ctx context.Context, classID, scheduleID int64) error
}

// ExtraClassStore is the slice of the extra class repository the service needs.
type ExtraClassStore interface {
	Create(ctx context.Context, extra *models.ExtraClass) error
	ListByClass(ctx context.Context, classID int64) ([]models.ExtraClass, error)
	ListByClassAndDate(ctx context.Context, classID int64, date time.Time) ([]models.ExtraClass, error)
	Delete(ctx context.Context, classID, extraID int64) error
}

// Conflict describes the existing session a proposed time range collides
// with, formatted for display.
type Conflict struct {
	Range  string
	Source apperrors.ConflictSource
}

// ActiveWindow is the weekly slot covering a given instant, with the
// session label that keys its attendance record.
type ActiveWindow struct {
	Schedule models.Schedule
	Label    string
}

// ScheduleService manages weekly schedules and one-off extra classes, and
// resolves which slot is active at an instant.
type ScheduleService struct {
	scheduleStore ScheduleStore
	extraStore    ExtraClassStore
	loc           *time.Location
}

// NewScheduleService creates a new schedule service. All wall-clock
// decisions use loc, the campus timezone.
func NewScheduleService(scheduleStore ScheduleStore, extraStore ExtraClassStore, loc *time.Location) *ScheduleService {
	return &ScheduleService{
		scheduleStore: scheduleStore,
		extraStore:    extraStore,
		loc:           loc,
	}
}

// CheckWeeklyConflict reports the first existing weekly slot on the given
// day whose range overlaps [start, end). Slots that merely touch at an
// endpoint do not conflict. An inverted or empty range is rejected with
// ErrInvalidTimeRange before anything is fetched. skipID excludes one
// schedule from the check (0 skips nothing).
func (s *ScheduleService) CheckWeeklyConflict(ctx context.Context, classID int64, day models.Day, start, end timerange.TimeOfDay, skipID int64) (*Conflict, error) {
	if end.Minutes() <= start.Minutes() {
		return nil, apperrors.ErrInvalidTimeRange
	}

	existing, err := s.scheduleStore.ListByClassAndDay(ctx, classID, day)
	if err != nil {
		return nil, err
	}

	for _, sched := range existing {
		if sched.ID == skipID {
			continue
		}
		if timerange.Overlaps(start, end, sched.StartTime, sched.EndTime) {
			return &Conflict{
				Range:  timerange.FormatRange12h(sched.StartTime, sched.EndTime),
				Source: apperrors.ConflictSourceWeekly,
			}, nil
		}
	}

	return nil, nil
}

// CheckExtraConflict reports the first existing session on the given date
// that overlaps [start, end): weekly slots falling on that date's weekday
// are checked first, then other extra classes on the same date. An inverted
// or empty range is rejected with ErrInvalidTimeRange before anything is
// fetched.
func (s *ScheduleService) CheckExtraConflict(ctx context.Context, classID int64, date time.Time, start, end timerange.TimeOfDay, skipID int64) (*Conflict, error) {
	if end.Minutes() <= start.Minutes() {
		return nil, apperrors.ErrInvalidTimeRange
	}

	weekly, err := s.scheduleStore.ListByClassAndDay(ctx, classID, models.DayOf(date))
	if err != nil {
		return nil, err
	}

	for _, sched := range weekly {
		if timerange.Overlaps(start, end, sched.StartTime, sched.EndTime) {
			return &Conflict{
				Range:  timerange.FormatRange12h(sched.StartTime, sched.EndTime),
				Source: apperrors.ConflictSourceWeekly,
			}, nil
		}
	}

	extras, err := s.extraStore.ListByClassAndDate(ctx, classID, date)
	if err != nil {
		return nil, err
	}

	for _, extra := range extras {
		if extra.ID == skipID {
			continue
		}
		if timerange.Overlaps(start, end, extra.StartTime, extra.EndTime) {
			return &Conflict{
				Range:  timerange.FormatRange12h(extra.StartTime, extra.EndTime),
				Source: apperrors.ConflictSourceExtra,
			}, nil
		}
	}

	return nil, nil
}

// AddSchedule validates a proposed weekly slot, rejects conflicts, and
// persists it. Conflicts are returned as *apperrors.ScheduleConflictError.
func (s *ScheduleService) AddSchedule(ctx context.Context, classID int64, day models.Day, start, end timerange.TimeOfDay) (*models.Schedule, error) {
	if !day.IsValid() {
		return nil, apperrors.ErrValidationFailed
	}

	conflict, err := s.CheckWeeklyConflict(ctx, classID, day, start, end, 0)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &apperrors.ScheduleConflictError{Range: conflict.Range, Source: conflict.Source}
	}

	schedule := &models.Schedule{
		ClassID:   classID,
		Day:       day,
		StartTime: start,
		EndTime:   end,
	}
	if err := s.scheduleStore.Create(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// AddExtraClass validates a proposed one-off session, rejects conflicts
// with both weekly slots and other extras on the same date, and persists it.
func (s *ScheduleService) AddExtraClass(ctx context.Context, classID int64, date time.Time, start, end timerange.TimeOfDay, reason *string) (*models.ExtraClass, error) {
	conflict, err := s.CheckExtraConflict(ctx, classID, date, start, end, 0)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &apperrors.ScheduleConflictError{Range: conflict.Range, Source: conflict.Source}
	}

	extra := &models.ExtraClass{
		ClassID:   classID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    reason,
	}
	if err := s.extraStore.Create(ctx, extra); err != nil {
		return nil, err
	}

	return extra, nil
}

// ListSchedules retrieves a class's weekly schedules.
func (s *ScheduleService) ListSchedules(ctx context.Context, classID int64) ([]models.Schedule, error) {
	return s.scheduleStore.ListByClass(ctx, classID)
}

// ListExtraClasses retrieves a class's extra classes.
func (s *ScheduleService) ListExtraClasses(ctx context.Context, classID int64) ([]models.ExtraClass, error) {
	return s.extraStore.ListByClass(ctx, classID)
}

// DeleteSchedule removes a weekly schedule, scoped to its class.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, classID, scheduleID int64) error {
	return s.scheduleStore.Delete(ctx, classID, scheduleID)
}

// DeleteExtraClass removes an extra class, scoped to its class.
func (s *ScheduleService) DeleteExtraClass(ctx context.Context, classID, extraID int64) error {
	return s.extraStore.Delete(ctx, classID, extraID)
}

// ResolveActiveWindow finds the weekly slot covering the instant at,
// evaluated on the campus wall clock. The window is inclusive at both
// boundaries, unlike the half-open rule used for conflict checks: a scan
// at exactly the end time still belongs to the session. Extra classes are
// never resolved as active windows; attendance for them goes through their
// stored records directly. Earliest-starting slot wins if slots were ever
// to overlap.
func (s *ScheduleService) ResolveActiveWindow(ctx context.Context, classID int64, at time.Time) (*ActiveWindow, error) {
	local := at.In(s.loc)
	now := timerange.FromTime(local)

	slots, err := s.scheduleStore.ListByClassAndDay(ctx, classID, models.DayOf(local))
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if timerange.Contains(slot.StartTime, slot.EndTime, now) {
			return &ActiveWindow{Schedule: slot, Label: slot.Label()}, nil
		}
	}

	return nil, apperrors.ErrNoActiveSchedule
}
