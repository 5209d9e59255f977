package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// User errors
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// Class errors
var (
	ErrClassNotFound    = errors.New("class not found")
	ErrNotClassOwner    = errors.New("caller is not the professor of this class")
	ErrInvalidClassCode = errors.New("invalid class code")
	ErrClassCodeTaken   = errors.New("class code already taken")
)

// Scheduling errors
var (
	ErrInvalidTimeRange   = errors.New("end time must be after start time")
	ErrScheduleConflict   = errors.New("schedule conflict")
	ErrScheduleExists     = errors.New("an identical schedule already exists for this class")
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrExtraClassExists   = errors.New("an identical extra class already exists for this class")
	ErrExtraClassNotFound = errors.New("extra class not found")
	ErrNoActiveSchedule   = errors.New("no active schedule at this time")
)

// Attendance errors
var (
	ErrSessionNotFound    = errors.New("attendance session not found")
	ErrEmptyStudentName   = errors.New("no student name provided")
	ErrStudentNotFound    = errors.New("no enrolled student found with this name")
	ErrDuplicateEntry     = errors.New("attendance already marked")
	ErrMalformedQRPayload = errors.New("invalid QR code data")
	ErrQRCodeExpired      = errors.New("QR code has expired")
)

// Enrollment errors
var (
	ErrAlreadyEnrolled      = errors.New("already enrolled in this class")
	ErrNotEnrolled          = errors.New("not enrolled in this class")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// ConflictSource identifies which kind of existing session a proposed time
// range collided with.
type ConflictSource string

const (
	ConflictSourceWeekly ConflictSource = "weekly schedule"
	ConflictSourceExtra  ConflictSource = "extra class"
)

// ScheduleConflictError reports the existing range a proposed schedule or
// extra class overlaps, formatted for display.
type ScheduleConflictError struct {
	Range  string
	Source ConflictSource
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("conflicts with an existing %s (%s)", e.Source, e.Range)
}

// Unwrap makes errors.Is(err, ErrScheduleConflict) work.
func (e *ScheduleConflictError) Unwrap() error {
	return ErrScheduleConflict
}

// StudentNotFoundError carries the scanned name that failed to match any
// enrollment.
type StudentNotFoundError struct {
	Name string
}

func (e *StudentNotFoundError) Error() string {
	return fmt.Sprintf("no enrolled student in this class found with name %q", e.Name)
}

func (e *StudentNotFoundError) Unwrap() error {
	return ErrStudentNotFound
}

// DuplicateEntryError carries the display name of a student whose
// attendance was already recorded for the session.
type DuplicateEntryError struct {
	Name string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("attendance already marked for %s", e.Name)
}

func (e *DuplicateEntryError) Unwrap() error {
	return ErrDuplicateEntry
}
