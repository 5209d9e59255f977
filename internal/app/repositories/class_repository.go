package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/dberrors"
	"github.com/rollcall-app/rollcall/internal/pkg/helpers"
)

// ClassRepository handles database operations for classes
type ClassRepository struct {
	db *pgxpool.Pool
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{
		db: db,
	}
}

// Create creates a new class. Returns ErrClassCodeTaken when the code lost
// a race against a concurrent insert, so the caller can regenerate.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (professor_id, subject, section, room, description, class_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		class.ProfessorID,
		class.Subject,
		helpers.GetNullString(class.Section),
		helpers.GetNullString(class.Room),
		helpers.GetNullString(class.Description),
		class.ClassCode,
	).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "classes_class_code_key") {
			return apperrors.ErrClassCodeTaken
		}
		return fmt.Errorf("error creating class: %w", err)
	}

	return nil
}

// GetByID retrieves a class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	query := `
		SELECT id, professor_id, subject, section, room, description, class_code, created_at, updated_at
		FROM classes
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByCode retrieves a class by its join code
func (r *ClassRepository) GetByCode(ctx context.Context, code string) (*models.Class, error) {
	query := `
		SELECT id, professor_id, subject, section, room, description, class_code, created_at, updated_at
		FROM classes
		WHERE class_code = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, code))
}

func (r *ClassRepository) scanOne(row pgx.Row) (*models.Class, error) {
	var class models.Class
	err := row.Scan(
		&class.ID,
		&class.ProfessorID,
		&class.Subject,
		&class.Section,
		&class.Room,
		&class.Description,
		&class.ClassCode,
		&class.CreatedAt,
		&class.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}

	return &class, nil
}

// CodeExists checks whether a class code is already taken
func (r *ClassRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM classes WHERE class_code = $1)`
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking class code: %w", err)
	}
	return exists, nil
}

// ListByProfessor retrieves all classes of a professor annotated with
// schedule, announcement, attendance and student counts, newest first.
func (r *ClassRepository) ListByProfessor(ctx context.Context, professorID int64) ([]models.ClassWithCounts, error) {
	query := `
		SELECT c.id, c.professor_id, c.subject, c.section, c.room, c.description, c.class_code, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM schedules s WHERE s.class_id = c.id) AS schedule_count,
			(SELECT COUNT(*) FROM announcements a WHERE a.class_id = c.id) AS announcement_count,
			(SELECT COUNT(*) FROM attendance_records ar WHERE ar.class_id = c.id) AS attendance_count,
			(SELECT COUNT(*) FROM enrollments e WHERE e.class_id = c.id) AS student_count
		FROM classes c
		WHERE c.professor_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	var classes []models.ClassWithCounts
	for rows.Next() {
		var c models.ClassWithCounts
		if err := rows.Scan(
			&c.ID,
			&c.ProfessorID,
			&c.Subject,
			&c.Section,
			&c.Room,
			&c.Description,
			&c.ClassCode,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.ScheduleCount,
			&c.AnnouncementCount,
			&c.AttendanceCount,
			&c.StudentCount,
		); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

// Update updates a class's editable fields. The class code is never touched.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	query := `
		UPDATE classes
		SET subject = $1, section = $2, room = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		class.Subject,
		helpers.GetNullString(class.Section),
		helpers.GetNullString(class.Room),
		helpers.GetNullString(class.Description),
		class.ID,
	).Scan(&class.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrClassNotFound
		}
		return fmt.Errorf("error updating class: %w", err)
	}

	return nil
}

// Delete removes a class. Schedules, extra classes, announcements,
// attendance records and enrollments cascade.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// CountEntries counts all attendance entries across a class's sessions.
// Used for the professor dashboard attendance rate.
func (r *ClassRepository) CountEntries(ctx context.Context, classID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM attendance_entries e
		JOIN attendance_records ar ON ar.id = e.record_id
		WHERE ar.class_id = $1
	`
	if err := r.db.QueryRow(ctx, query, classID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting attendance entries: %w", err)
	}
	return count, nil
}
