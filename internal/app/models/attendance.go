package models

import "time"

// AttendanceRecord is the ledger entry for one class session. It is keyed
// by (class, session date, schedule-time label): at most one record may
// ever exist for that triple, enforced by a unique constraint.
type AttendanceRecord struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	ClassID      int64     `json:"classId" db:"class_id" example:"1"`
	RecordedAt   time.Time `json:"recordedAt" db:"recorded_at"`
	SessionDate  time.Time `json:"sessionDate" db:"session_date" example:"2025-09-15T00:00:00Z"`
	ScheduleTime string    `json:"scheduleTime" db:"schedule_time" example:"09:00 - 10:30"`
	QRCodeData   *string   `json:"qrCodeData,omitempty" db:"qr_code_data"`
	Canceled     bool      `json:"canceled" db:"canceled" example:"false"`
}

// AttendanceRecordWithCount is a record annotated with how many students
// scanned in.
type AttendanceRecordWithCount struct {
	AttendanceRecord
	EntryCount int `json:"entryCount" db:"entry_count"`
}

// AttendanceEntry marks a single student present in one session. At most
// one entry per (record, student), enforced by a unique constraint.
type AttendanceEntry struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	RecordID  int64     `json:"recordId" db:"record_id" example:"1"`
	StudentID int64     `json:"studentId" db:"student_id" example:"2"`
	ScannedAt time.Time `json:"scannedAt" db:"scanned_at"`
	Student   *User     `json:"student,omitempty"` // Relation, no db tag
}

// Enrollment links a student to a class. At most one per (student, class).
type Enrollment struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	StudentID  int64     `json:"studentId" db:"student_id" example:"2"`
	ClassID    int64     `json:"classId" db:"class_id" example:"1"`
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"`
	Student    *User     `json:"student,omitempty"` // Relation, no db tag
	Class      *Class    `json:"class,omitempty"`   // Relation, no db tag
}
