package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/app/repositories"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/classcode"
	"github.com/rollcall-app/rollcall/internal/pkg/logger"
)

// EnrolledClass is one class in the student dashboard with the student's
// own attendance tally.
type EnrolledClass struct {
	Class               models.Class
	Schedules           []models.Schedule
	RecentAnnouncements []models.Announcement
	AttendanceCount     int
}

// StudentClassDetail is the student's view of one class.
type StudentClassDetail struct {
	Class             *models.Class
	Schedules         []models.Schedule
	Announcements     []models.Announcement
	AttendanceRecords []models.AttendanceRecord
	TotalAttendance   int
	TotalSessions     int
}

// EnrollmentService handles the student side: joining classes by code,
// the dashboard, and the combined calendar.
type EnrollmentService struct {
	enrollmentRepo *repositories.EnrollmentRepository
	classRepo      *repositories.ClassRepository
	scheduleRepo   *repositories.ScheduleRepository
	extraRepo      *repositories.ExtraClassRepository
	annRepo        *repositories.AnnouncementRepository
	attendanceRepo *repositories.AttendanceRepository
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(
	enrollmentRepo *repositories.EnrollmentRepository,
	classRepo *repositories.ClassRepository,
	scheduleRepo *repositories.ScheduleRepository,
	extraRepo *repositories.ExtraClassRepository,
	annRepo *repositories.AnnouncementRepository,
	attendanceRepo *repositories.AttendanceRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		classRepo:      classRepo,
		scheduleRepo:   scheduleRepo,
		extraRepo:      extraRepo,
		annRepo:        annRepo,
		attendanceRepo: attendanceRepo,
	}
}

// JoinByCode enrolls a student in the class matching a join code. Codes
// are matched uppercase; an unknown code reads the same as a malformed one.
func (s *EnrollmentService) JoinByCode(ctx context.Context, studentID int64, code string) (*models.Class, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !classcode.IsValid(code) {
		return nil, apperrors.ErrInvalidClassCode
	}

	class, err := s.classRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil, apperrors.ErrInvalidClassCode
		}
		return nil, err
	}

	if _, err := s.enrollmentRepo.Create(ctx, studentID, class.ID); err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", studentID).Int64("classID", class.ID).Msg("Student enrolled")
	return class, nil
}

// Leave unenrolls a student from a class.
func (s *EnrollmentService) Leave(ctx context.Context, studentID, classID int64) error {
	return s.enrollmentRepo.Delete(ctx, studentID, classID)
}

// ListStudentClasses assembles the student dashboard: each enrolled class
// with its weekly schedules, the three most recent announcements, and the
// student's attendance tally.
func (s *EnrollmentService) ListStudentClasses(ctx context.Context, studentID int64) ([]EnrolledClass, error) {
	classes, err := s.enrollmentRepo.ListClassesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := make([]EnrolledClass, 0, len(classes))
	for _, class := range classes {
		schedules, err := s.scheduleRepo.ListByClass(ctx, class.ID)
		if err != nil {
			return nil, err
		}

		announcements, err := s.annRepo.ListByClass(ctx, class.ID, 3)
		if err != nil {
			return nil, err
		}

		count, err := s.attendanceRepo.CountStudentEntries(ctx, class.ID, studentID)
		if err != nil {
			return nil, err
		}

		result = append(result, EnrolledClass{
			Class:               class,
			Schedules:           schedules,
			RecentAnnouncements: announcements,
			AttendanceCount:     count,
		})
	}

	return result, nil
}

// GetStudentClassDetail assembles the student's view of one class,
// including their own attendance history against the session total.
func (s *EnrollmentService) GetStudentClassDetail(ctx context.Context, class *models.Class, studentID int64) (*StudentClassDetail, error) {
	schedules, err := s.scheduleRepo.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	announcements, err := s.annRepo.ListByClass(ctx, class.ID, 0)
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListStudentRecords(ctx, class.ID, studentID)
	if err != nil {
		return nil, err
	}

	total, err := s.attendanceRepo.CountRecordsByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	return &StudentClassDetail{
		Class:             class,
		Schedules:         schedules,
		Announcements:     announcements,
		AttendanceRecords: records,
		TotalAttendance:   len(records),
		TotalSessions:     total,
	}, nil
}

// StudentCalendar aggregates the student's weekly slots by day name, extra
// classes by date, and cancellations by date, across all enrolled classes.
func (s *EnrollmentService) StudentCalendar(ctx context.Context, studentID int64) (*dto.StudentCalendarResponse, error) {
	classes, err := s.enrollmentRepo.ListClassesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	calendar := &dto.StudentCalendarResponse{
		SchedulesByDay:     make(map[string][]dto.CalendarEntry),
		ExtraClassesByDate: make(map[string][]dto.CalendarEntry),
		CanceledByDate:     make(map[string][]dto.CanceledEntry),
	}

	if len(classes) == 0 {
		return calendar, nil
	}

	names := make(map[int64]string, len(classes))
	ids := make([]int64, 0, len(classes))
	for _, class := range classes {
		names[class.ID] = class.DisplayName()
		ids = append(ids, class.ID)
	}

	schedules, err := s.scheduleRepo.ListByClassIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, sched := range schedules {
		day := string(sched.Day)
		calendar.SchedulesByDay[day] = append(calendar.SchedulesByDay[day], dto.CalendarEntry{
			ID:        sched.ID,
			ClassID:   sched.ClassID,
			ClassName: names[sched.ClassID],
			StartTime: sched.StartTime.String(),
			EndTime:   sched.EndTime.String(),
		})
	}

	extras, err := s.extraRepo.ListByClassIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, extra := range extras {
		date := extra.Date.Format("2006-01-02")
		entry := dto.CalendarEntry{
			ID:        extra.ID,
			ClassID:   extra.ClassID,
			ClassName: names[extra.ClassID],
			StartTime: extra.StartTime.String(),
			EndTime:   extra.EndTime.String(),
		}
		if extra.Reason != nil {
			entry.Reason = *extra.Reason
		}
		calendar.ExtraClassesByDate[date] = append(calendar.ExtraClassesByDate[date], entry)
	}

	canceled, err := s.attendanceRepo.ListCanceledByClassIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, record := range canceled {
		date := record.SessionDate.Format("2006-01-02")
		calendar.CanceledByDate[date] = append(calendar.CanceledByDate[date], dto.CanceledEntry{
			ClassID:      record.ClassID,
			ClassName:    names[record.ClassID],
			ScheduleTime: record.ScheduleTime,
		})
	}

	return calendar, nil
}
