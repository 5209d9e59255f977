package dto

// CreateClassRequest represents a class creation request. The class code is
// generated server side and cannot be supplied.
type CreateClassRequest struct {
	Subject     string  `json:"subject" binding:"required,max=200" example:"Data Structures"`
	Section     *string `json:"section,omitempty" binding:"omitempty,max=50" example:"A"`
	Room        *string `json:"room,omitempty" binding:"omitempty,max=100" example:"Room 204"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

// UpdateClassRequest represents an update to a class's editable fields.
// The class code is immutable and deliberately absent here.
type UpdateClassRequest struct {
	Subject     string  `json:"subject" binding:"required,max=200" example:"Data Structures"`
	Section     *string `json:"section,omitempty" binding:"omitempty,max=50" example:"A"`
	Room        *string `json:"room,omitempty" binding:"omitempty,max=100" example:"Room 204"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

// ClassDetailResponse is the professor's class detail view with aggregate
// statistics.
type ClassDetailResponse struct {
	Class          interface{} `json:"class"`
	Schedules      interface{} `json:"schedules"`
	ExtraClasses   interface{} `json:"extraClasses"`
	Announcements  interface{} `json:"announcements"`
	TotalStudents  int         `json:"totalStudents" example:"32"`
	TotalSessions  int         `json:"totalSessions" example:"14"`
	AttendanceRate int         `json:"attendanceRate" example:"87"`
}
