package dto

// JoinClassRequest represents a student joining a class by its code.
type JoinClassRequest struct {
	ClassCode string `json:"classCode" binding:"required,len=6" example:"X7K2P9"`
}

// EnrolledClassResponse is one class in the student dashboard, with the
// student's own attendance tally.
type EnrolledClassResponse struct {
	Class               interface{} `json:"class"`
	Schedules           interface{} `json:"schedules"`
	RecentAnnouncements interface{} `json:"recentAnnouncements"`
	AttendanceCount     int         `json:"attendanceCount" example:"12"`
}

// StudentClassDetailResponse is the student's view of one class.
type StudentClassDetailResponse struct {
	Class             interface{} `json:"class"`
	Schedules         interface{} `json:"schedules"`
	Announcements     interface{} `json:"announcements"`
	AttendanceRecords interface{} `json:"attendanceRecords"`
	TotalAttendance   int         `json:"totalAttendance" example:"12"`
	TotalSessions     int         `json:"totalSessions" example:"14"`
}
