package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/dberrors"
	"github.com/rollcall-app/rollcall/internal/pkg/timerange"
)

// ScheduleRepository handles database operations for weekly schedules.
// Times are stored as zero-padded "HH:MM" text, so lexicographic order is
// chronological order.
type ScheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{
		db: db,
	}
}

// Create creates a new weekly schedule
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules (class_id, day, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		schedule.ClassID,
		schedule.Day,
		schedule.StartTime.String(),
		schedule.EndTime.String(),
	).Scan(&schedule.ID)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrScheduleExists
		}
		return fmt.Errorf("error creating schedule: %w", err)
	}

	return nil
}

// ListByClass retrieves all schedules of a class ordered by day and start
func (r *ScheduleRepository) ListByClass(ctx context.Context, classID int64) ([]models.Schedule, error) {
	query := `
		SELECT id, class_id, day, start_time, end_time
		FROM schedules
		WHERE class_id = $1
		ORDER BY day, start_time
	`

	return r.list(ctx, query, classID)
}

// ListByClassAndDay retrieves the schedules of a class on one day of the
// week, ordered by start time.
func (r *ScheduleRepository) ListByClassAndDay(ctx context.Context, classID int64, day models.Day) ([]models.Schedule, error) {
	query := `
		SELECT id, class_id, day, start_time, end_time
		FROM schedules
		WHERE class_id = $1 AND day = $2
		ORDER BY start_time
	`

	return r.list(ctx, query, classID, day)
}

// ListByClassIDs retrieves schedules for a set of classes (student
// calendar view).
func (r *ScheduleRepository) ListByClassIDs(ctx context.Context, classIDs []int64) ([]models.Schedule, error) {
	query := `
		SELECT id, class_id, day, start_time, end_time
		FROM schedules
		WHERE class_id = ANY($1)
		ORDER BY day, start_time
	`

	return r.list(ctx, query, classIDs)
}

func (r *ScheduleRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Schedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// Delete removes a schedule, scoped to its class
func (r *ScheduleRepository) Delete(ctx context.Context, classID, scheduleID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM schedules WHERE id = $1 AND class_id = $2`, scheduleID, classID)
	if err != nil {
		return fmt.Errorf("error deleting schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}

func scanSchedule(row pgx.Row) (*models.Schedule, error) {
	var (
		schedule models.Schedule
		start    string
		end      string
	)

	if err := row.Scan(&schedule.ID, &schedule.ClassID, &schedule.Day, &start, &end); err != nil {
		return nil, err
	}

	var err error
	if schedule.StartTime, err = timerange.Parse(start); err != nil {
		return nil, fmt.Errorf("corrupt start_time %q: %w", start, err)
	}
	if schedule.EndTime, err = timerange.Parse(end); err != nil {
		return nil, fmt.Errorf("corrupt end_time %q: %w", end, err)
	}

	return &schedule, nil
}
