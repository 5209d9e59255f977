package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/logger"
)

// AttendanceStore is the slice of the attendance repository the service needs.
type AttendanceStore interface {
	GetOrCreateRecord(ctx context.Context, classID int64, sessionDate time.Time, scheduleTime string, recordedAt time.Time) (*models.AttendanceRecord, bool, error)
	GetRecordByID(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	ToggleCanceled(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	SetQRCodeData(ctx context.Context, id int64, payload string) error
	FindRecordByQRTimestamp(ctx context.Context, classID int64, timestamp string) (*models.AttendanceRecord, error)
	CreateEntry(ctx context.Context, entry *models.AttendanceEntry) error
	ListRecordsByClass(ctx context.Context, classID int64, offset uint64, limit int) ([]models.AttendanceRecordWithCount, error)
	ListEntriesByRecord(ctx context.Context, recordID int64) ([]models.AttendanceEntry, error)
	ListStudentRecords(ctx context.Context, classID, studentID int64) ([]models.AttendanceRecord, error)
	CountRecordsByClass(ctx context.Context, classID int64) (int, error)
	CountStudentEntries(ctx context.Context, classID, studentID int64) (int, error)
}

// RosterStore lists the students enrolled in a class for name matching.
type RosterStore interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Enrollment, error)
	Exists(ctx context.Context, studentID, classID int64) (bool, error)
}

// WindowResolver resolves the weekly slot covering an instant.
type WindowResolver interface {
	ResolveActiveWindow(ctx context.Context, classID int64, at time.Time) (*ActiveWindow, error)
}

// ActiveSession pairs an attendance record with the QR payload encoded for
// it when scanning was activated.
type ActiveSession struct {
	Record       *models.AttendanceRecord
	QRData       dto.QRPayload
	ScheduleTime string
}

// ScanResult is the outcome of recording one scanned student.
type ScanResult struct {
	StudentName   string
	AlreadyMarked bool
}

// AttendanceService runs the attendance ledger: it opens sessions against
// the active schedule window, records scanned students, and serves both the
// professor-side and student-side QR flows.
type AttendanceService struct {
	attendanceStore AttendanceStore
	rosterStore     RosterStore
	resolver        WindowResolver
	loc             *time.Location
	qrTTL           time.Duration
	now             func() time.Time
}

// NewAttendanceService creates a new attendance service. qrTTL bounds how
// long an issued session QR code stays scannable.
func NewAttendanceService(attendanceStore AttendanceStore, rosterStore RosterStore, resolver WindowResolver, loc *time.Location, qrTTL time.Duration) *AttendanceService {
	return &AttendanceService{
		attendanceStore: attendanceStore,
		rosterStore:     rosterStore,
		resolver:        resolver,
		loc:             loc,
		qrTTL:           qrTTL,
		now:             time.Now,
	}
}

// sessionDate truncates an instant to its campus-local calendar date.
func (s *AttendanceService) sessionDate(at time.Time) time.Time {
	local := at.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// GetOrCreateSession resolves the active window for a class and returns
// the attendance record for (class, today, window label), creating it on
// first use. Concurrent activations converge on the same record.
func (s *AttendanceService) GetOrCreateSession(ctx context.Context, classID int64) (*models.AttendanceRecord, *ActiveWindow, error) {
	now := s.now()

	window, err := s.resolver.ResolveActiveWindow(ctx, classID, now)
	if err != nil {
		return nil, nil, err
	}

	record, created, err := s.attendanceStore.GetOrCreateRecord(ctx, classID, s.sessionDate(now), window.Label, now)
	if err != nil {
		return nil, nil, err
	}
	if created {
		logger.Info().Int64("classID", classID).Str("session", window.Label).Msg("Opened attendance session")
	}

	return record, window, nil
}

// ActivateScanning opens (or reopens) the current session of a class and
// issues a fresh QR payload for students to scan. The payload's timestamp
// ties scanned codes back to this record.
func (s *AttendanceService) ActivateScanning(ctx context.Context, class *models.Class) (*ActiveSession, error) {
	record, window, err := s.GetOrCreateSession(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	payload := dto.QRPayload{
		ClassID:     strconv.FormatInt(class.ID, 10),
		ClassName:   class.DisplayName(),
		ProfessorID: strconv.FormatInt(class.ProfessorID, 10),
		Timestamp:   s.now().In(s.loc).Format(time.RFC3339),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error encoding QR payload: %w", err)
	}

	if err := s.attendanceStore.SetQRCodeData(ctx, record.ID, string(raw)); err != nil {
		return nil, err
	}
	data := string(raw)
	record.QRCodeData = &data

	return &ActiveSession{
		Record:       record,
		QRData:       payload,
		ScheduleTime: window.Label,
	}, nil
}

// ProcessScan records attendance for a scanned student QR code during the
// class's active session. The scanned value is the student's display name.
func (s *AttendanceService) ProcessScan(ctx context.Context, classID int64, studentName string) (*ScanResult, error) {
	record, _, err := s.GetOrCreateSession(ctx, classID)
	if err != nil {
		return nil, err
	}

	return s.RecordEntry(ctx, record, studentName)
}

// RecordEntry matches a scanned display name against the class roster and
// marks that student present in the session. Matching is case-insensitive
// on trimmed names; the first roster match wins. The unique constraint on
// (record, student) is the duplicate guard, so two professors scanning the
// same student at once produce exactly one entry.
func (s *AttendanceService) RecordEntry(ctx context.Context, record *models.AttendanceRecord, studentName string) (*ScanResult, error) {
	name := strings.TrimSpace(studentName)
	if name == "" {
		return nil, apperrors.ErrEmptyStudentName
	}

	roster, err := s.rosterStore.ListByClass(ctx, record.ClassID)
	if err != nil {
		return nil, err
	}

	// Index the roster by lowercased display name. On duplicate display
	// names the earliest enrollment keeps the slot.
	index := make(map[string]*models.User, len(roster))
	for _, enrollment := range roster {
		if enrollment.Student == nil {
			continue
		}
		key := strings.ToLower(enrollment.Student.DisplayName())
		if _, seen := index[key]; !seen {
			index[key] = enrollment.Student
		}
	}

	student, ok := index[strings.ToLower(name)]
	if !ok {
		return nil, &apperrors.StudentNotFoundError{Name: name}
	}

	entry := &models.AttendanceEntry{
		RecordID:  record.ID,
		StudentID: student.ID,
	}
	if err := s.attendanceStore.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return &ScanResult{StudentName: student.DisplayName(), AlreadyMarked: true},
				&apperrors.DuplicateEntryError{Name: student.DisplayName()}
		}
		return nil, err
	}

	logger.Info().Int64("recordID", record.ID).Int64("studentID", student.ID).Msg("Attendance marked")
	return &ScanResult{StudentName: student.DisplayName()}, nil
}

// VerifyQRCode handles the student-side flow: the student scanned a session
// QR code and submits its raw payload. The payload is validated, checked
// against the expiry window, and resolved to the record that issued it;
// the student is then marked present.
func (s *AttendanceService) VerifyQRCode(ctx context.Context, studentID int64, qrData string) (*ScanResult, error) {
	var payload dto.QRPayload
	if err := json.Unmarshal([]byte(qrData), &payload); err != nil {
		return nil, apperrors.ErrMalformedQRPayload
	}
	if payload.ClassID == "" || payload.Timestamp == "" {
		return nil, apperrors.ErrMalformedQRPayload
	}

	classID, err := strconv.ParseInt(payload.ClassID, 10, 64)
	if err != nil {
		return nil, apperrors.ErrMalformedQRPayload
	}

	issuedAt, err := time.Parse(time.RFC3339, payload.Timestamp)
	if err != nil {
		return nil, apperrors.ErrMalformedQRPayload
	}
	if s.now().Sub(issuedAt) > s.qrTTL {
		return nil, apperrors.ErrQRCodeExpired
	}

	enrolled, err := s.rosterStore.Exists(ctx, studentID, classID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	record, err := s.attendanceStore.FindRecordByQRTimestamp(ctx, classID, payload.Timestamp)
	if err != nil {
		return nil, err
	}
	if record.Canceled {
		return nil, apperrors.ErrSessionNotFound
	}

	entry := &models.AttendanceEntry{
		RecordID:  record.ID,
		StudentID: studentID,
	}
	if err := s.attendanceStore.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return &ScanResult{AlreadyMarked: true}, apperrors.ErrDuplicateEntry
		}
		return nil, err
	}

	return &ScanResult{}, nil
}

// ToggleCancellation flips a session's canceled flag, scoped to its class.
func (s *AttendanceService) ToggleCancellation(ctx context.Context, classID, recordID int64) (*models.AttendanceRecord, error) {
	record, err := s.attendanceStore.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.ClassID != classID {
		return nil, apperrors.ErrSessionNotFound
	}

	return s.attendanceStore.ToggleCanceled(ctx, recordID)
}

// ListRecords retrieves a page of a class's sessions with entry counts,
// plus the total session count for pagination.
func (s *AttendanceService) ListRecords(ctx context.Context, classID int64, offset uint64, limit int) ([]models.AttendanceRecordWithCount, int, error) {
	records, err := s.attendanceStore.ListRecordsByClass(ctx, classID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.attendanceStore.CountRecordsByClass(ctx, classID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListEntries retrieves a session's entries, scoped to its class.
func (s *AttendanceService) ListEntries(ctx context.Context, classID, recordID int64) ([]models.AttendanceEntry, error) {
	record, err := s.attendanceStore.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.ClassID != classID {
		return nil, apperrors.ErrSessionNotFound
	}

	return s.attendanceStore.ListEntriesByRecord(ctx, recordID)
}

// StudentHistory retrieves the sessions of a class a student attended,
// plus the class's total session count.
func (s *AttendanceService) StudentHistory(ctx context.Context, classID, studentID int64) ([]models.AttendanceRecord, int, error) {
	records, err := s.attendanceStore.ListStudentRecords(ctx, classID, studentID)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.attendanceStore.CountRecordsByClass(ctx, classID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
