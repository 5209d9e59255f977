package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/app/models/dto"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
)

type fakeAttendanceStore struct {
	mu      sync.Mutex
	records []models.AttendanceRecord
	entries []models.AttendanceEntry
	nextID  int64
}

func (f *fakeAttendanceStore) sessionKey(classID int64, sessionDate time.Time, scheduleTime string) string {
	return fmt.Sprintf("%d|%s|%s", classID, sessionDate.Format("2006-01-02"), scheduleTime)
}

func (f *fakeAttendanceStore) GetOrCreateRecord(ctx context.Context, classID int64, sessionDate time.Time, scheduleTime string, recordedAt time.Time) (*models.AttendanceRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := f.sessionKey(classID, sessionDate, scheduleTime)
	for i := range f.records {
		r := &f.records[i]
		if f.sessionKey(r.ClassID, r.SessionDate, r.ScheduleTime) == key {
			rec := *r
			return &rec, false, nil
		}
	}
	f.nextID++
	record := models.AttendanceRecord{
		ID:           f.nextID,
		ClassID:      classID,
		RecordedAt:   recordedAt,
		SessionDate:  sessionDate,
		ScheduleTime: scheduleTime,
	}
	f.records = append(f.records, record)
	return &record, true, nil
}

func (f *fakeAttendanceStore) GetRecordByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeAttendanceStore) ToggleCanceled(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Canceled = !f.records[i].Canceled
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeAttendanceStore) SetQRCodeData(ctx context.Context, id int64, payload string) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].QRCodeData = &payload
			return nil
		}
	}
	return apperrors.ErrSessionNotFound
}

func (f *fakeAttendanceStore) FindRecordByQRTimestamp(ctx context.Context, classID int64, timestamp string) (*models.AttendanceRecord, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.ClassID == classID && r.QRCodeData != nil && strings.Contains(*r.QRCodeData, timestamp) {
			return &r, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeAttendanceStore) CreateEntry(ctx context.Context, entry *models.AttendanceEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.entries {
		if e.RecordID == entry.RecordID && e.StudentID == entry.StudentID {
			return apperrors.ErrDuplicateEntry
		}
	}
	f.nextID++
	entry.ID = f.nextID
	entry.ScannedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAttendanceStore) ListRecordsByClass(ctx context.Context, classID int64, offset uint64, limit int) ([]models.AttendanceRecordWithCount, error) {
	var all []models.AttendanceRecordWithCount
	for _, r := range f.records {
		if r.ClassID != classID {
			continue
		}
		count := 0
		for _, e := range f.entries {
			if e.RecordID == r.ID {
				count++
			}
		}
		all = append(all, models.AttendanceRecordWithCount{AttendanceRecord: r, EntryCount: count})
	}
	if offset >= uint64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeAttendanceStore) ListEntriesByRecord(ctx context.Context, recordID int64) ([]models.AttendanceEntry, error) {
	var out []models.AttendanceEntry
	for _, e := range f.entries {
		if e.RecordID == recordID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) ListStudentRecords(ctx context.Context, classID, studentID int64) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, e := range f.entries {
		if e.StudentID != studentID {
			continue
		}
		for _, r := range f.records {
			if r.ID == e.RecordID && r.ClassID == classID {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) CountRecordsByClass(ctx context.Context, classID int64) (int, error) {
	count := 0
	for _, r := range f.records {
		if r.ClassID == classID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceStore) CountStudentEntries(ctx context.Context, classID, studentID int64) (int, error) {
	records, err := f.ListStudentRecords(ctx, classID, studentID)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

type fakeRosterStore struct {
	enrollments []models.Enrollment
}

func (f *fakeRosterStore) ListByClass(ctx context.Context, classID int64) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.ClassID == classID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRosterStore) Exists(ctx context.Context, studentID, classID int64) (bool, error) {
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

type attendanceFixture struct {
	svc    *AttendanceService
	store  *fakeAttendanceStore
	roster *fakeRosterStore
	class  *models.Class
	campus *time.Location
}

// newAttendanceFixture wires an attendance service over in-memory stores
// with one weekly Monday 09:00-10:30 slot, two enrolled students, and the
// clock frozen at Monday 2025-09-15 09:15 campus time.
func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()

	campus := time.FixedZone("UTC+8", 8*60*60)

	schedStore := &fakeScheduleStore{}
	extraStore := &fakeExtraClassStore{}
	resolver := NewScheduleService(schedStore, extraStore, campus)

	ctx := context.Background()
	if _, err := resolver.AddSchedule(ctx, 1, models.DayMonday, mustTime(t, "09:00"), mustTime(t, "10:30")); err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}

	section := "A"
	class := &models.Class{ID: 1, ProfessorID: 10, Subject: "Physics 101", Section: &section, ClassCode: "AB12CD"}

	roster := &fakeRosterStore{enrollments: []models.Enrollment{
		{ID: 1, StudentID: 2, ClassID: 1, Student: &models.User{ID: 2, Username: "janedoe", FirstName: "Jane", LastName: "Doe"}},
		{ID: 2, StudentID: 3, ClassID: 1, Student: &models.User{ID: 3, Username: "johnroe", FirstName: "John", LastName: "Roe"}},
	}}

	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, roster, resolver, campus, 2*time.Hour)
	svc.now = func() time.Time {
		return time.Date(2025, time.September, 15, 9, 15, 0, 0, campus)
	}

	return &attendanceFixture{svc: svc, store: store, roster: roster, class: class, campus: campus}
}

func TestGetOrCreateSessionConverges(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	first, window, err := fix.svc.GetOrCreateSession(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreateSession() error = %v", err)
	}
	if window.Label != "09:00 - 10:30" {
		t.Errorf("window label = %q, want %q", window.Label, "09:00 - 10:30")
	}
	if first.ScheduleTime != "09:00 - 10:30" {
		t.Errorf("record schedule time = %q, want %q", first.ScheduleTime, "09:00 - 10:30")
	}

	second, _, err := fix.svc.GetOrCreateSession(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreateSession() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second call created record %d, want existing %d", second.ID, first.ID)
	}
	if len(fix.store.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(fix.store.records))
	}
}

func TestGetOrCreateSessionConcurrent(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	// Many activations racing on the same (class, date, label) key must
	// converge on a single record.
	const workers = 16
	ids := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, _, err := fix.svc.GetOrCreateSession(ctx, 1)
			if err != nil {
				t.Errorf("GetOrCreateSession() error = %v", err)
				return
			}
			ids <- record.ID
		}()
	}
	wg.Wait()
	close(ids)

	var first int64
	for id := range ids {
		if first == 0 {
			first = id
		}
		if id != first {
			t.Errorf("concurrent callers saw records %d and %d, want one shared record", first, id)
		}
	}
	if len(fix.store.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(fix.store.records))
	}
}

func TestGetOrCreateSessionOutsideWindow(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	// Saturday afternoon: no weekly slot covers it.
	fix.svc.now = func() time.Time {
		return time.Date(2025, time.September, 13, 15, 0, 0, 0, fix.campus)
	}

	if _, _, err := fix.svc.GetOrCreateSession(ctx, 1); !errors.Is(err, apperrors.ErrNoActiveSchedule) {
		t.Errorf("GetOrCreateSession() error = %v, want %v", err, apperrors.ErrNoActiveSchedule)
	}
}

func TestProcessScan(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	tests := []struct {
		name       string
		scanned    string
		wantName   string
		wantErr    error
		wantMarked bool
	}{
		{name: "exact name", scanned: "Jane Doe", wantName: "Jane Doe"},
		{name: "case-insensitive rescan is duplicate", scanned: "jane doe", wantErr: apperrors.ErrDuplicateEntry, wantMarked: true},
		{name: "second student", scanned: "John Roe", wantName: "John Roe"},
		{name: "unknown name", scanned: "Intruder", wantErr: apperrors.ErrStudentNotFound},
		{name: "blank name", scanned: "   ", wantErr: apperrors.ErrEmptyStudentName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := fix.svc.ProcessScan(ctx, 1, tt.scanned)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ProcessScan(%q) error = %v, want %v", tt.scanned, err, tt.wantErr)
				}
				if tt.wantMarked && (result == nil || !result.AlreadyMarked) {
					t.Errorf("ProcessScan(%q) result = %+v, want AlreadyMarked", tt.scanned, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProcessScan(%q) error = %v", tt.scanned, err)
			}
			if result.StudentName != tt.wantName {
				t.Errorf("ProcessScan(%q) student = %q, want %q", tt.scanned, result.StudentName, tt.wantName)
			}
		})
	}

	// Both students marked in a single session record.
	if len(fix.store.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(fix.store.records))
	}
	if len(fix.store.entries) != 2 {
		t.Errorf("store holds %d entries, want 2", len(fix.store.entries))
	}
}

func TestActivateScanning(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	session, err := fix.svc.ActivateScanning(ctx, fix.class)
	if err != nil {
		t.Fatalf("ActivateScanning() error = %v", err)
	}
	if session.ScheduleTime != "09:00 - 10:30" {
		t.Errorf("session schedule time = %q, want %q", session.ScheduleTime, "09:00 - 10:30")
	}
	if session.QRData.ClassID != "1" || session.QRData.ProfessorID != "10" {
		t.Errorf("QR payload ids = %q/%q, want 1/10", session.QRData.ClassID, session.QRData.ProfessorID)
	}
	if session.QRData.ClassName != "Physics 101 - Section A" {
		t.Errorf("QR payload class name = %q, want %q", session.QRData.ClassName, "Physics 101 - Section A")
	}
	if session.Record.QRCodeData == nil {
		t.Fatal("ActivateScanning() did not attach QR data to the record")
	}

	// The stored payload round-trips and its timestamp carries the
	// campus offset.
	var payload dto.QRPayload
	if err := json.Unmarshal([]byte(*session.Record.QRCodeData), &payload); err != nil {
		t.Fatalf("stored QR data is not valid JSON: %v", err)
	}
	if payload.Timestamp != session.QRData.Timestamp {
		t.Errorf("stored timestamp = %q, want %q", payload.Timestamp, session.QRData.Timestamp)
	}
	if _, err := time.Parse(time.RFC3339, payload.Timestamp); err != nil {
		t.Errorf("QR timestamp %q is not RFC3339: %v", payload.Timestamp, err)
	}
}

func TestVerifyQRCode(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	session, err := fix.svc.ActivateScanning(ctx, fix.class)
	if err != nil {
		t.Fatalf("ActivateScanning() error = %v", err)
	}
	qrData := *session.Record.QRCodeData

	// First verification marks the student.
	result, err := fix.svc.VerifyQRCode(ctx, 2, qrData)
	if err != nil {
		t.Fatalf("VerifyQRCode() error = %v", err)
	}
	if result.AlreadyMarked {
		t.Error("VerifyQRCode() first scan reported AlreadyMarked")
	}

	// Second verification by the same student is a duplicate.
	result, err = fix.svc.VerifyQRCode(ctx, 2, qrData)
	if !errors.Is(err, apperrors.ErrDuplicateEntry) {
		t.Fatalf("VerifyQRCode() repeat error = %v, want %v", err, apperrors.ErrDuplicateEntry)
	}
	if result == nil || !result.AlreadyMarked {
		t.Errorf("VerifyQRCode() repeat result = %+v, want AlreadyMarked", result)
	}

	// A student not enrolled in the class is rejected.
	if _, err := fix.svc.VerifyQRCode(ctx, 99, qrData); !errors.Is(err, apperrors.ErrNotEnrolled) {
		t.Errorf("VerifyQRCode() unenrolled error = %v, want %v", err, apperrors.ErrNotEnrolled)
	}
}

func TestVerifyQRCodeRejectsBadPayloads(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	issued := fix.svc.now().Format(time.RFC3339)

	payload := func(classID, timestamp string) string {
		raw, _ := json.Marshal(dto.QRPayload{ClassID: classID, ClassName: "x", ProfessorID: "10", Timestamp: timestamp})
		return string(raw)
	}

	tests := []struct {
		name    string
		qrData  string
		wantErr error
	}{
		{name: "not json", qrData: "Jane Doe", wantErr: apperrors.ErrMalformedQRPayload},
		{name: "missing class id", qrData: payload("", issued), wantErr: apperrors.ErrMalformedQRPayload},
		{name: "missing timestamp", qrData: payload("1", ""), wantErr: apperrors.ErrMalformedQRPayload},
		{name: "non-numeric class id", qrData: payload("abc", issued), wantErr: apperrors.ErrMalformedQRPayload},
		{name: "garbled timestamp", qrData: payload("1", "yesterday-ish"), wantErr: apperrors.ErrMalformedQRPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fix.svc.VerifyQRCode(ctx, 2, tt.qrData); !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyQRCode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyQRCodeExpiry(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	session, err := fix.svc.ActivateScanning(ctx, fix.class)
	if err != nil {
		t.Fatalf("ActivateScanning() error = %v", err)
	}
	qrData := *session.Record.QRCodeData
	activatedAt := fix.svc.now()

	// Just inside the 2h TTL.
	fix.svc.now = func() time.Time { return activatedAt.Add(2 * time.Hour) }
	if _, err := fix.svc.VerifyQRCode(ctx, 2, qrData); err != nil {
		t.Errorf("VerifyQRCode() at TTL boundary error = %v", err)
	}

	// Past the TTL the code is dead, even for a student not yet marked.
	fix.svc.now = func() time.Time { return activatedAt.Add(2*time.Hour + time.Minute) }
	if _, err := fix.svc.VerifyQRCode(ctx, 3, qrData); !errors.Is(err, apperrors.ErrQRCodeExpired) {
		t.Errorf("VerifyQRCode() past TTL error = %v, want %v", err, apperrors.ErrQRCodeExpired)
	}
}

func TestVerifyQRCodeCanceledSession(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	session, err := fix.svc.ActivateScanning(ctx, fix.class)
	if err != nil {
		t.Fatalf("ActivateScanning() error = %v", err)
	}
	qrData := *session.Record.QRCodeData

	if _, err := fix.svc.ToggleCancellation(ctx, 1, session.Record.ID); err != nil {
		t.Fatalf("ToggleCancellation() error = %v", err)
	}

	if _, err := fix.svc.VerifyQRCode(ctx, 2, qrData); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Errorf("VerifyQRCode() canceled session error = %v, want %v", err, apperrors.ErrSessionNotFound)
	}
}

func TestToggleCancellation(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	record, _, err := fix.svc.GetOrCreateSession(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreateSession() error = %v", err)
	}

	toggled, err := fix.svc.ToggleCancellation(ctx, 1, record.ID)
	if err != nil {
		t.Fatalf("ToggleCancellation() error = %v", err)
	}
	if !toggled.Canceled {
		t.Error("ToggleCancellation() first toggle left record active")
	}

	toggled, err = fix.svc.ToggleCancellation(ctx, 1, record.ID)
	if err != nil {
		t.Fatalf("ToggleCancellation() second toggle error = %v", err)
	}
	if toggled.Canceled {
		t.Error("ToggleCancellation() second toggle left record canceled")
	}

	// Records are scoped to their class.
	if _, err := fix.svc.ToggleCancellation(ctx, 2, record.ID); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Errorf("ToggleCancellation() wrong class error = %v, want %v", err, apperrors.ErrSessionNotFound)
	}
}

func TestStudentHistory(t *testing.T) {
	ctx := context.Background()
	fix := newAttendanceFixture(t)

	if _, err := fix.svc.ProcessScan(ctx, 1, "Jane Doe"); err != nil {
		t.Fatalf("ProcessScan() error = %v", err)
	}

	records, total, err := fix.svc.StudentHistory(ctx, 1, 2)
	if err != nil {
		t.Fatalf("StudentHistory() error = %v", err)
	}
	if total != 1 {
		t.Errorf("StudentHistory() total sessions = %d, want 1", total)
	}
	if len(records) != 1 {
		t.Fatalf("StudentHistory() attended = %d, want 1", len(records))
	}

	// The other student attended nothing, but the session still counts.
	records, total, err = fix.svc.StudentHistory(ctx, 1, 3)
	if err != nil {
		t.Fatalf("StudentHistory() error = %v", err)
	}
	if total != 1 || len(records) != 0 {
		t.Errorf("StudentHistory() = %d attended of %d, want 0 of 1", len(records), total)
	}
}
