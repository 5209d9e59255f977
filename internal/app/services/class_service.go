package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/app/repositories"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/classcode"
	"github.com/rollcall-app/rollcall/internal/pkg/logger"
)

// ClassDetail is the professor's detail view of one class with aggregate
// statistics.
type ClassDetail struct {
	Class          *models.Class
	Schedules      []models.Schedule
	ExtraClasses   []models.ExtraClass
	Announcements  []models.Announcement
	TotalStudents  int
	TotalSessions  int
	AttendanceRate int
}

// createClassAttempts bounds how often CreateClass regenerates a join
// code after losing an insert race.
const createClassAttempts = 3

// ClassStore is the class persistence surface used by ClassService.
type ClassStore interface {
	Create(ctx context.Context, class *models.Class) error
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]models.ClassWithCounts, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	CountEntries(ctx context.Context, classID int64) (int, error)
}

// ClassService handles class lifecycle operations for professors.
type ClassService struct {
	classRepo      ClassStore
	scheduleRepo   *repositories.ScheduleRepository
	extraRepo      *repositories.ExtraClassRepository
	annRepo        *repositories.AnnouncementRepository
	attendanceRepo *repositories.AttendanceRepository
	enrollmentRepo *repositories.EnrollmentRepository
}

// NewClassService creates a new class service.
func NewClassService(
	classRepo ClassStore,
	scheduleRepo *repositories.ScheduleRepository,
	extraRepo *repositories.ExtraClassRepository,
	annRepo *repositories.AnnouncementRepository,
	attendanceRepo *repositories.AttendanceRepository,
	enrollmentRepo *repositories.EnrollmentRepository,
) *ClassService {
	return &ClassService{
		classRepo:      classRepo,
		scheduleRepo:   scheduleRepo,
		extraRepo:      extraRepo,
		annRepo:        annRepo,
		attendanceRepo: attendanceRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// CreateClass creates a class with a freshly generated unique join code.
// The code is fixed for the lifetime of the class.
func (s *ClassService) CreateClass(ctx context.Context, professorID int64, subject string, section, room, description *string) (*models.Class, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.ErrValidationFailed
	}

	class := &models.Class{
		ProfessorID: professorID,
		Subject:     subject,
		Section:     section,
		Room:        room,
		Description: description,
	}

	// CodeExists and the insert are not atomic, so a concurrent creation
	// can still claim the code first. Regenerate and retry when it does.
	for attempt := 0; attempt < createClassAttempts; attempt++ {
		code, err := classcode.Generate(ctx, s.classRepo.CodeExists)
		if err != nil {
			return nil, err
		}

		class.ClassCode = code
		err = s.classRepo.Create(ctx, class)
		if err == nil {
			logger.Info().Int64("classID", class.ID).Str("code", class.ClassCode).Msg("Class created")
			return class, nil
		}
		if !errors.Is(err, apperrors.ErrClassCodeTaken) {
			return nil, err
		}
		logger.Warn().Str("code", code).Msg("Class code taken by concurrent insert, regenerating")
	}

	return nil, apperrors.ErrClassCodeTaken
}

// UpdateClass updates a class's editable fields. The join code never changes.
func (s *ClassService) UpdateClass(ctx context.Context, class *models.Class, subject string, section, room, description *string) (*models.Class, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.ErrValidationFailed
	}

	class.Subject = subject
	class.Section = section
	class.Room = room
	class.Description = description

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// ListClasses retrieves a professor's classes with dashboard counts.
func (s *ClassService) ListClasses(ctx context.Context, professorID int64) ([]models.ClassWithCounts, error) {
	return s.classRepo.ListByProfessor(ctx, professorID)
}

// GetClassDetail assembles the professor detail view: schedules, extras,
// announcements and the overall attendance rate. The rate is total entries
// over (sessions held x enrolled students), as a percentage.
func (s *ClassService) GetClassDetail(ctx context.Context, class *models.Class) (*ClassDetail, error) {
	schedules, err := s.scheduleRepo.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	extras, err := s.extraRepo.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	announcements, err := s.annRepo.ListByClass(ctx, class.ID, 0)
	if err != nil {
		return nil, err
	}

	students, err := s.enrollmentRepo.CountByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.attendanceRepo.CountRecordsByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	rate := 0
	if students > 0 && sessions > 0 {
		entries, err := s.classRepo.CountEntries(ctx, class.ID)
		if err != nil {
			return nil, err
		}
		rate = entries * 100 / (students * sessions)
	}

	return &ClassDetail{
		Class:          class,
		Schedules:      schedules,
		ExtraClasses:   extras,
		Announcements:  announcements,
		TotalStudents:  students,
		TotalSessions:  sessions,
		AttendanceRate: rate,
	}, nil
}

// DeleteClass removes a class and everything attached to it.
func (s *ClassService) DeleteClass(ctx context.Context, classID int64) error {
	if err := s.classRepo.Delete(ctx, classID); err != nil {
		return err
	}
	logger.Info().Int64("classID", classID).Msg("Class deleted")
	return nil
}

// ListRoster retrieves a class's enrolled students.
func (s *ClassService) ListRoster(ctx context.Context, classID int64) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListByClass(ctx, classID)
}

// RemoveStudent unenrolls a student from a class.
func (s *ClassService) RemoveStudent(ctx context.Context, classID, studentID int64) error {
	return s.enrollmentRepo.Delete(ctx, studentID, classID)
}
