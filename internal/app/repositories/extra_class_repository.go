package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/dberrors"
	"github.com/rollcall-app/rollcall/internal/pkg/helpers"
	"github.com/rollcall-app/rollcall/internal/pkg/timerange"
)

// ExtraClassRepository handles database operations for one-off sessions
type ExtraClassRepository struct {
	db *pgxpool.Pool
}

// NewExtraClassRepository creates a new extra class repository
func NewExtraClassRepository(db *pgxpool.Pool) *ExtraClassRepository {
	return &ExtraClassRepository{
		db: db,
	}
}

// Create creates a new extra class
func (r *ExtraClassRepository) Create(ctx context.Context, extra *models.ExtraClass) error {
	query := `
		INSERT INTO extra_classes (class_id, date, start_time, end_time, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		extra.ClassID,
		extra.Date,
		extra.StartTime.String(),
		extra.EndTime.String(),
		helpers.GetNullString(extra.Reason),
	).Scan(&extra.ID, &extra.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrExtraClassExists
		}
		return fmt.Errorf("error creating extra class: %w", err)
	}

	return nil
}

// ListByClass retrieves all extra classes of a class ordered by date
func (r *ExtraClassRepository) ListByClass(ctx context.Context, classID int64) ([]models.ExtraClass, error) {
	query := `
		SELECT id, class_id, date, start_time, end_time, reason, created_at
		FROM extra_classes
		WHERE class_id = $1
		ORDER BY date, start_time
	`

	return r.list(ctx, query, classID)
}

// ListByClassAndDate retrieves the extra classes of a class on one
// calendar date.
func (r *ExtraClassRepository) ListByClassAndDate(ctx context.Context, classID int64, date time.Time) ([]models.ExtraClass, error) {
	query := `
		SELECT id, class_id, date, start_time, end_time, reason, created_at
		FROM extra_classes
		WHERE class_id = $1 AND date = $2
		ORDER BY start_time
	`

	return r.list(ctx, query, classID, date)
}

// ListByClassIDs retrieves extra classes for a set of classes (student
// calendar view).
func (r *ExtraClassRepository) ListByClassIDs(ctx context.Context, classIDs []int64) ([]models.ExtraClass, error) {
	query := `
		SELECT id, class_id, date, start_time, end_time, reason, created_at
		FROM extra_classes
		WHERE class_id = ANY($1)
		ORDER BY date, start_time
	`

	return r.list(ctx, query, classIDs)
}

func (r *ExtraClassRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.ExtraClass, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing extra classes: %w", err)
	}
	defer rows.Close()

	var extras []models.ExtraClass
	for rows.Next() {
		extra, err := scanExtraClass(rows)
		if err != nil {
			return nil, err
		}
		extras = append(extras, *extra)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return extras, nil
}

// Delete removes an extra class, scoped to its class
func (r *ExtraClassRepository) Delete(ctx context.Context, classID, extraID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM extra_classes WHERE id = $1 AND class_id = $2`, extraID, classID)
	if err != nil {
		return fmt.Errorf("error deleting extra class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrExtraClassNotFound
	}
	return nil
}

func scanExtraClass(row pgx.Row) (*models.ExtraClass, error) {
	var (
		extra models.ExtraClass
		start string
		end   string
	)

	if err := row.Scan(&extra.ID, &extra.ClassID, &extra.Date, &start, &end, &extra.Reason, &extra.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if extra.StartTime, err = timerange.Parse(start); err != nil {
		return nil, fmt.Errorf("corrupt start_time %q: %w", start, err)
	}
	if extra.EndTime, err = timerange.Parse(end); err != nil {
		return nil, fmt.Errorf("corrupt end_time %q: %w", end, err)
	}

	return &extra, nil
}
