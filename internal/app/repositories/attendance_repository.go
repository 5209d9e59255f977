package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/dberrors"
)

// AttendanceRepository handles database operations for attendance records
// and entries
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

const recordColumns = `id, class_id, recorded_at, session_date, schedule_time, qr_code_data, canceled`

// GetOrCreateRecord returns the attendance record for (class, date, label),
// creating it if absent. The insert races through the unique constraint on
// the natural key, so concurrent callers converge on a single row; the
// second return value reports whether this call created it.
func (r *AttendanceRepository) GetOrCreateRecord(ctx context.Context, classID int64, sessionDate time.Time, scheduleTime string, recordedAt time.Time) (*models.AttendanceRecord, bool, error) {
	insert := `
		INSERT INTO attendance_records (class_id, recorded_at, session_date, schedule_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (class_id, session_date, schedule_time) DO NOTHING
		RETURNING ` + recordColumns

	record, err := scanRecord(r.db.QueryRow(ctx, insert, classID, recordedAt, sessionDate, scheduleTime))
	if err == nil {
		return record, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("error creating attendance record: %w", err)
	}

	// Lost the race or the record predates this call; fetch the winner.
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE class_id = $1 AND session_date = $2 AND schedule_time = $3
	`

	record, err = scanRecord(r.db.QueryRow(ctx, query, classID, sessionDate, scheduleTime))
	if err != nil {
		return nil, false, fmt.Errorf("error retrieving attendance record: %w", err)
	}

	return record, false, nil
}

// GetRecordByID retrieves an attendance record by ID
func (r *AttendanceRepository) GetRecordByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE id = $1`

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving attendance record: %w", err)
	}
	return record, nil
}

// ToggleCanceled flips the canceled flag of a record and returns the
// updated row.
func (r *AttendanceRepository) ToggleCanceled(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	query := `
		UPDATE attendance_records
		SET canceled = NOT canceled
		WHERE id = $1
		RETURNING ` + recordColumns

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error toggling cancellation: %w", err)
	}
	return record, nil
}

// SetQRCodeData overwrites the stored QR payload of a record
func (r *AttendanceRepository) SetQRCodeData(ctx context.Context, id int64, payload string) error {
	tag, err := r.db.Exec(ctx, `UPDATE attendance_records SET qr_code_data = $1 WHERE id = $2`, payload, id)
	if err != nil {
		return fmt.Errorf("error storing QR payload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// FindRecordByQRTimestamp locates the most recently created record of a
// class whose stored QR payload contains the given timestamp string.
func (r *AttendanceRepository) FindRecordByQRTimestamp(ctx context.Context, classID int64, timestamp string) (*models.AttendanceRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE class_id = $1 AND qr_code_data LIKE '%' || $2 || '%'
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	record, err := scanRecord(r.db.QueryRow(ctx, query, classID, timestamp))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error locating attendance record by QR timestamp: %w", err)
	}
	return record, nil
}

// ListRecordsByClass retrieves a page of a class's attendance records with
// entry counts, newest first.
func (r *AttendanceRepository) ListRecordsByClass(ctx context.Context, classID int64, offset uint64, limit int) ([]models.AttendanceRecordWithCount, error) {
	query := `
		SELECT ar.id, ar.class_id, ar.recorded_at, ar.session_date, ar.schedule_time, ar.qr_code_data, ar.canceled,
			(SELECT COUNT(*) FROM attendance_entries e WHERE e.record_id = ar.id) AS entry_count
		FROM attendance_records ar
		WHERE ar.class_id = $1
		ORDER BY ar.recorded_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, classID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance records: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecordWithCount
	for rows.Next() {
		var rec models.AttendanceRecordWithCount
		if err := rows.Scan(
			&rec.ID,
			&rec.ClassID,
			&rec.RecordedAt,
			&rec.SessionDate,
			&rec.ScheduleTime,
			&rec.QRCodeData,
			&rec.Canceled,
			&rec.EntryCount,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ListCanceledByClassIDs retrieves canceled records for a set of classes
// (student calendar view).
func (r *AttendanceRepository) ListCanceledByClassIDs(ctx context.Context, classIDs []int64) ([]models.AttendanceRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE class_id = ANY($1) AND canceled = TRUE
		ORDER BY session_date
	`

	rows, err := r.db.Query(ctx, query, classIDs)
	if err != nil {
		return nil, fmt.Errorf("error listing canceled records: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CreateEntry inserts an attendance entry. The unique constraint on
// (record, student) is the authoritative duplicate guard: a violation is
// returned as ErrDuplicateEntry, never as a raw database error.
func (r *AttendanceRepository) CreateEntry(ctx context.Context, entry *models.AttendanceEntry) error {
	query := `
		INSERT INTO attendance_entries (record_id, student_id)
		VALUES ($1, $2)
		RETURNING id, scanned_at
	`

	err := r.db.QueryRow(ctx, query, entry.RecordID, entry.StudentID).Scan(&entry.ID, &entry.ScannedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("error creating attendance entry: %w", err)
	}

	return nil
}

// ListEntriesByRecord retrieves a session's entries joined with the
// student, in scan order.
func (r *AttendanceRepository) ListEntriesByRecord(ctx context.Context, recordID int64) ([]models.AttendanceEntry, error) {
	query := `
		SELECT e.id, e.record_id, e.student_id, e.scanned_at,
			u.id, u.email, u.username, u.first_name, u.last_name, u.role_type
		FROM attendance_entries e
		JOIN users u ON u.id = e.student_id
		WHERE e.record_id = $1
		ORDER BY e.scanned_at
	`

	rows, err := r.db.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AttendanceEntry
	for rows.Next() {
		var (
			entry   models.AttendanceEntry
			student models.User
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.RecordID,
			&entry.StudentID,
			&entry.ScannedAt,
			&student.ID,
			&student.Email,
			&student.Username,
			&student.FirstName,
			&student.LastName,
			&student.RoleType,
		); err != nil {
			return nil, err
		}
		entry.Student = &student
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListStudentRecords retrieves the sessions of a class in which the
// student has an entry, newest first.
func (r *AttendanceRepository) ListStudentRecords(ctx context.Context, classID, studentID int64) ([]models.AttendanceRecord, error) {
	query := `
		SELECT ar.id, ar.class_id, ar.recorded_at, ar.session_date, ar.schedule_time, ar.qr_code_data, ar.canceled
		FROM attendance_records ar
		JOIN attendance_entries e ON e.record_id = ar.id
		WHERE ar.class_id = $1 AND e.student_id = $2
		ORDER BY ar.recorded_at DESC
	`

	rows, err := r.db.Query(ctx, query, classID, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student attendance: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CountRecordsByClass counts all sessions held for a class
func (r *AttendanceRepository) CountRecordsByClass(ctx context.Context, classID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records WHERE class_id = $1`, classID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting attendance records: %w", err)
	}
	return count, nil
}

// CountStudentEntries counts the sessions of a class a student attended
func (r *AttendanceRepository) CountStudentEntries(ctx context.Context, classID, studentID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM attendance_entries e
		JOIN attendance_records ar ON ar.id = e.record_id
		WHERE ar.class_id = $1 AND e.student_id = $2
	`
	if err := r.db.QueryRow(ctx, query, classID, studentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting student attendance: %w", err)
	}
	return count, nil
}

func scanRecord(row pgx.Row) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := row.Scan(
		&record.ID,
		&record.ClassID,
		&record.RecordedAt,
		&record.SessionDate,
		&record.ScheduleTime,
		&record.QRCodeData,
		&record.Canceled,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
