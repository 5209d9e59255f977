package models

import "time"

// Class defines the class model based on the 'classes' table. The class
// code is generated once at creation and never changes afterwards.
type Class struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	ProfessorID int64     `json:"professorId" db:"professor_id" example:"1"`
	Subject     string    `json:"subject" db:"subject" example:"Data Structures"`
	Section     *string   `json:"section,omitempty" db:"section" example:"A"`
	Room        *string   `json:"room,omitempty" db:"room" example:"Room 204"`
	Description *string   `json:"description,omitempty" db:"description"`
	ClassCode   string    `json:"classCode" db:"class_code" example:"X7K2P9"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// DisplayName returns "subject - Section X" when a section is set.
func (c *Class) DisplayName() string {
	if c.Section != nil && *c.Section != "" {
		return c.Subject + " - Section " + *c.Section
	}
	return c.Subject
}

// ClassWithCounts is a class row annotated with aggregate counts for the
// professor dashboard.
type ClassWithCounts struct {
	Class
	ScheduleCount     int `json:"scheduleCount" db:"schedule_count"`
	AnnouncementCount int `json:"announcementCount" db:"announcement_count"`
	AttendanceCount   int `json:"attendanceCount" db:"attendance_count"`
	StudentCount      int `json:"studentCount" db:"student_count"`
}
