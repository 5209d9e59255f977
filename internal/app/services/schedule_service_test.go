package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/timerange"
)

type fakeScheduleStore struct {
	schedules []models.Schedule
	nextID    int64
}

func (f *fakeScheduleStore) Create(ctx context.Context, schedule *models.Schedule) error {
	f.nextID++
	schedule.ID = f.nextID
	f.schedules = append(f.schedules, *schedule)
	return nil
}

func (f *fakeScheduleStore) ListByClass(ctx context.Context, classID int64) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.schedules {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) ListByClassAndDay(ctx context.Context, classID int64, day models.Day) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.schedules {
		if s.ClassID == classID && s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) Delete(ctx context.Context, classID, scheduleID int64) error {
	for i, s := range f.schedules {
		if s.ID == scheduleID && s.ClassID == classID {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrScheduleNotFound
}

type fakeExtraClassStore struct {
	extras []models.ExtraClass
	nextID int64
}

func (f *fakeExtraClassStore) Create(ctx context.Context, extra *models.ExtraClass) error {
	f.nextID++
	extra.ID = f.nextID
	f.extras = append(f.extras, *extra)
	return nil
}

func (f *fakeExtraClassStore) ListByClass(ctx context.Context, classID int64) ([]models.ExtraClass, error) {
	var out []models.ExtraClass
	for _, e := range f.extras {
		if e.ClassID == classID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExtraClassStore) ListByClassAndDate(ctx context.Context, classID int64, date time.Time) ([]models.ExtraClass, error) {
	var out []models.ExtraClass
	for _, e := range f.extras {
		if e.ClassID == classID && e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExtraClassStore) Delete(ctx context.Context, classID, extraID int64) error {
	for i, e := range f.extras {
		if e.ID == extraID && e.ClassID == classID {
			f.extras = append(f.extras[:i], f.extras[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrExtraClassNotFound
}

func mustTime(t *testing.T, s string) timerange.TimeOfDay {
	t.Helper()
	tod, err := timerange.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return tod
}

func newTestScheduleService() (*ScheduleService, *fakeScheduleStore, *fakeExtraClassStore) {
	schedStore := &fakeScheduleStore{}
	extraStore := &fakeExtraClassStore{}
	loc := time.FixedZone("UTC+8", 8*60*60)
	return NewScheduleService(schedStore, extraStore, loc), schedStore, extraStore
}

func TestAddSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestScheduleService()

	existing, err := svc.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30"))
	if err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}
	if existing.ID == 0 {
		t.Error("AddSchedule() did not assign an ID")
	}

	tests := []struct {
		name       string
		day        models.Day
		start, end string
		wantErr    error
	}{
		{name: "overlapping slot rejected", day: models.DayMonday, start: "10:00", end: "11:00", wantErr: apperrors.ErrScheduleConflict},
		{name: "slot inside existing rejected", day: models.DayMonday, start: "09:30", end: "10:00", wantErr: apperrors.ErrScheduleConflict},
		{name: "touching endpoint allowed", day: models.DayMonday, start: "10:30", end: "12:00"},
		{name: "same time other day allowed", day: models.DayTuesday, start: "09:00", end: "10:30"},
		{name: "end before start rejected", day: models.DayWednesday, start: "10:00", end: "09:00", wantErr: apperrors.ErrInvalidTimeRange},
		{name: "zero-length slot rejected", day: models.DayWednesday, start: "10:00", end: "10:00", wantErr: apperrors.ErrInvalidTimeRange},
		{name: "unknown day rejected", day: models.Day("Funday"), start: "09:00", end: "10:00", wantErr: apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddSchedule(ctx, 1, tt.day, mustTime(t, tt.start), mustTime(t, tt.end))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddSchedule() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddScheduleConflictDetails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestScheduleService()

	if _, err := svc.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30")); err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}

	_, err := svc.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "10:00"), mustTime(t, "11:00"))
	var conflictErr *apperrors.ScheduleConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("AddSchedule() error = %v, want *ScheduleConflictError", err)
	}
	if conflictErr.Range != "9:00 AM - 10:30 AM" {
		t.Errorf("conflict range = %q, want %q", conflictErr.Range, "9:00 AM - 10:30 AM")
	}
	if conflictErr.Source != apperrors.ConflictSourceWeekly {
		t.Errorf("conflict source = %q, want %q", conflictErr.Source, apperrors.ConflictSourceWeekly)
	}
}

func TestAddExtraClass(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestScheduleService()

	// Weekly slot every Monday 09:00-10:30.
	if _, err := svc.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30")); err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}

	monday := time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	// Conflicts with the weekly slot on that weekday.
	_, err := svc.AddExtraClass(ctx, 1, monday, mustTime(t, "10:00"), mustTime(t, "11:00"), nil)
	var conflictErr *apperrors.ScheduleConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("AddExtraClass() error = %v, want *ScheduleConflictError", err)
	}
	if conflictErr.Source != apperrors.ConflictSourceWeekly {
		t.Errorf("conflict source = %q, want %q", conflictErr.Source, apperrors.ConflictSourceWeekly)
	}

	// Same times on a day with no weekly slot are fine.
	extra, err := svc.AddExtraClass(ctx, 1, tuesday, mustTime(t, "10:00"), mustTime(t, "11:00"), nil)
	if err != nil {
		t.Fatalf("AddExtraClass() error = %v", err)
	}
	if extra.ID == 0 {
		t.Error("AddExtraClass() did not assign an ID")
	}

	// A second extra overlapping the first on the same date conflicts,
	// and the source names the extra class.
	_, err = svc.AddExtraClass(ctx, 1, tuesday, mustTime(t, "10:30"), mustTime(t, "11:30"), nil)
	if !errors.As(err, &conflictErr) {
		t.Fatalf("AddExtraClass() error = %v, want *ScheduleConflictError", err)
	}
	if conflictErr.Source != apperrors.ConflictSourceExtra {
		t.Errorf("conflict source = %q, want %q", conflictErr.Source, apperrors.ConflictSourceExtra)
	}

	// Touching endpoints never conflict.
	if _, err := svc.AddExtraClass(ctx, 1, tuesday, mustTime(t, "11:00"), mustTime(t, "12:00"), nil); err != nil {
		t.Errorf("AddExtraClass() touching endpoint error = %v", err)
	}

	// Inverted range rejected before any conflict check.
	if _, err := svc.AddExtraClass(ctx, 1, tuesday, mustTime(t, "14:00"), mustTime(t, "13:00"), nil); !errors.Is(err, apperrors.ErrInvalidTimeRange) {
		t.Errorf("AddExtraClass() error = %v, want %v", err, apperrors.ErrInvalidTimeRange)
	}
}

func TestCheckWeeklyConflictSkipID(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestScheduleService()

	sched, err := svc.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30"))
	if err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}

	// A slot overlapping itself is not a conflict when its ID is skipped.
	conflict, err := svc.CheckWeeklyConflict(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30"), sched.ID)
	if err != nil {
		t.Fatalf("CheckWeeklyConflict() error = %v", err)
	}
	if conflict != nil {
		t.Errorf("CheckWeeklyConflict() with skipID = %+v, want nil", conflict)
	}

	conflict, err = svc.CheckWeeklyConflict(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30"), 0)
	if err != nil {
		t.Fatalf("CheckWeeklyConflict() error = %v", err)
	}
	if conflict == nil {
		t.Error("CheckWeeklyConflict() without skipID = nil, want conflict")
	}
}

func TestCheckConflictRejectsInvertedRange(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestScheduleService()

	tests := []struct {
		name       string
		start, end string
	}{
		{"inverted", "10:30", "09:00"},
		{"zero length", "09:00", "09:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := mustTime(t, tt.start), mustTime(t, tt.end)

			if _, err := svc.CheckWeeklyConflict(ctx, 1, models.DayMonday, start, end, 0); !errors.Is(err, apperrors.ErrInvalidTimeRange) {
				t.Errorf("CheckWeeklyConflict() error = %v, want ErrInvalidTimeRange", err)
			}

			date := time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC)
			if _, err := svc.CheckExtraConflict(ctx, 1, date, start, end, 0); !errors.Is(err, apperrors.ErrInvalidTimeRange) {
				t.Errorf("CheckExtraConflict() error = %v, want ErrInvalidTimeRange", err)
			}
		})
	}
}

func TestResolveActiveWindow(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestScheduleService()

	if _, err := svc.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30")); err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}

	campus := time.FixedZone("UTC+8", 8*60*60)
	// 2025-09-15 is a Monday.
	at := func(hour, min int) time.Time {
		return time.Date(2025, time.September, 15, hour, min, 0, 0, campus)
	}

	tests := []struct {
		name    string
		at      time.Time
		wantHit bool
	}{
		{name: "minute before start", at: at(8, 59), wantHit: false},
		{name: "exactly at start", at: at(9, 0), wantHit: true},
		{name: "mid-session", at: at(9, 45), wantHit: true},
		{name: "exactly at end still active", at: at(10, 30), wantHit: true},
		{name: "minute after end", at: at(10, 31), wantHit: false},
		{name: "right time wrong day", at: at(9, 30).AddDate(0, 0, 1), wantHit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := svc.ResolveActiveWindow(ctx, 1, tt.at)
			if tt.wantHit {
				if err != nil {
					t.Fatalf("ResolveActiveWindow() error = %v", err)
				}
				if window.Label != "09:00 - 10:30" {
					t.Errorf("window label = %q, want %q", window.Label, "09:00 - 10:30")
				}
				return
			}
			if !errors.Is(err, apperrors.ErrNoActiveSchedule) {
				t.Errorf("ResolveActiveWindow() error = %v, want %v", err, apperrors.ErrNoActiveSchedule)
			}
		})
	}
}

func TestResolveActiveWindowUsesCampusClock(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestScheduleService()

	if _, err := svc.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30")); err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}

	// 01:30 UTC on Monday is 09:30 on the campus clock (UTC+8): inside
	// the window even though the UTC hour is not.
	at := time.Date(2025, time.September, 15, 1, 30, 0, 0, time.UTC)
	window, err := svc.ResolveActiveWindow(ctx, 1, at)
	if err != nil {
		t.Fatalf("ResolveActiveWindow() error = %v", err)
	}
	if window.Schedule.Day != models.DayMonday {
		t.Errorf("window day = %q, want %q", window.Schedule.Day, models.DayMonday)
	}

	// 22:00 UTC on Sunday is already 06:00 Monday on campus, before the
	// window opens.
	at = time.Date(2025, time.September, 14, 22, 0, 0, 0, time.UTC)
	if _, err := svc.ResolveActiveWindow(ctx, 1, at); !errors.Is(err, apperrors.ErrNoActiveSchedule) {
		t.Errorf("ResolveActiveWindow() error = %v, want %v", err, apperrors.ErrNoActiveSchedule)
	}
}

func TestResolveActiveWindowEarliestSlotWins(t *testing.T) {
	ctx := context.Background()
	svc, schedStore, _ := newTestScheduleService()

	// Seed directly: the conflict checker would reject overlapping slots,
	// but the resolver must still behave deterministically against them.
	schedStore.schedules = []models.Schedule{
		{ID: 1, ClassID: 1, Day: models.DayMonday, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "11:00")},
		{ID: 2, ClassID: 1, Day: models.DayMonday, StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "12:00")},
	}

	campus := time.FixedZone("UTC+8", 8*60*60)
	at := time.Date(2025, time.September, 15, 10, 30, 0, 0, campus)
	window, err := svc.ResolveActiveWindow(ctx, 1, at)
	if err != nil {
		t.Fatalf("ResolveActiveWindow() error = %v", err)
	}
	if window.Schedule.ID != 1 {
		t.Errorf("active window schedule ID = %d, want 1", window.Schedule.ID)
	}
}
