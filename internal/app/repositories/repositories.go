package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	ClassRepository        *ClassRepository
	ScheduleRepository     *ScheduleRepository
	ExtraClassRepository   *ExtraClassRepository
	AnnouncementRepository *AnnouncementRepository
	AttendanceRepository   *AttendanceRepository
	EnrollmentRepository   *EnrollmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ClassRepository:        NewClassRepository(db),
		ScheduleRepository:     NewScheduleRepository(db),
		ExtraClassRepository:   NewExtraClassRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
		AttendanceRepository:   NewAttendanceRepository(db),
		EnrollmentRepository:   NewEnrollmentRepository(db),
	}
}
