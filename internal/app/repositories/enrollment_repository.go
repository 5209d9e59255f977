package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/dberrors"
)

// EnrollmentRepository handles database operations for class enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// Create enrolls a student in a class
func (r *EnrollmentRepository) Create(ctx context.Context, studentID, classID int64) (*models.Enrollment, error) {
	query := `
		INSERT INTO enrollments (student_id, class_id)
		VALUES ($1, $2)
		RETURNING id, student_id, class_id, enrolled_at
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, studentID, classID).Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.ClassID,
		&enrollment.EnrolledAt,
	)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	return &enrollment, nil
}

// Delete removes a student's enrollment in a class
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, classID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE student_id = $1 AND class_id = $2`, studentID, classID)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}
	return nil
}

// Exists checks whether a student is enrolled in a class
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, classID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)`
	if err := r.db.QueryRow(ctx, query, studentID, classID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// ListByClass retrieves a class's enrolled students in enrollment order
func (r *EnrollmentRepository) ListByClass(ctx context.Context, classID int64) ([]models.Enrollment, error) {
	query := `
		SELECT en.id, en.student_id, en.class_id, en.enrolled_at,
			u.id, u.email, u.username, u.first_name, u.last_name, u.role_type
		FROM enrollments en
		JOIN users u ON u.id = en.student_id
		WHERE en.class_id = $1
		ORDER BY en.enrolled_at
	`

	rows, err := r.db.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var (
			enrollment models.Enrollment
			student    models.User
		)
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.ClassID,
			&enrollment.EnrolledAt,
			&student.ID,
			&student.Email,
			&student.Username,
			&student.FirstName,
			&student.LastName,
			&student.RoleType,
		); err != nil {
			return nil, err
		}
		enrollment.Student = &student
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ListClassesByStudent retrieves the classes a student is enrolled in,
// most recent enrollment first.
func (r *EnrollmentRepository) ListClassesByStudent(ctx context.Context, studentID int64) ([]models.Class, error) {
	query := `
		SELECT c.id, c.professor_id, c.subject, c.section, c.room, c.description, c.class_code, c.created_at, c.updated_at
		FROM classes c
		JOIN enrollments en ON en.class_id = c.id
		WHERE en.student_id = $1
		ORDER BY en.enrolled_at DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled classes: %w", err)
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var class models.Class
		if err := rows.Scan(
			&class.ID,
			&class.ProfessorID,
			&class.Subject,
			&class.Section,
			&class.Room,
			&class.Description,
			&class.ClassCode,
			&class.CreatedAt,
			&class.UpdatedAt,
		); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

// CountByClass counts the students enrolled in a class
func (r *EnrollmentRepository) CountByClass(ctx context.Context, classID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE class_id = $1`, classID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}
