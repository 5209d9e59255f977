package dto

// AddScheduleRequest represents a weekly schedule creation request. Times
// are 24-hour "HH:MM" strings with minute precision.
type AddScheduleRequest struct {
	Day       string `json:"day" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday" example:"Monday"`
	StartTime string `json:"startTime" binding:"required" example:"09:00"`
	EndTime   string `json:"endTime" binding:"required" example:"10:30"`
}

// AddExtraClassRequest represents a one-off session creation request.
type AddExtraClassRequest struct {
	Date      string  `json:"date" binding:"required" example:"2025-09-15"`
	StartTime string  `json:"startTime" binding:"required" example:"14:00"`
	EndTime   string  `json:"endTime" binding:"required" example:"15:30"`
	Reason    *string `json:"reason,omitempty" binding:"omitempty,max=200" example:"Makeup class"`
}

// ScheduleConflictResponse describes the existing range a proposed time
// range collided with.
type ScheduleConflictResponse struct {
	ConflictingRange string `json:"conflictingRange" example:"9:00 AM - 10:30 AM"`
	Source           string `json:"source" example:"weekly schedule"`
}

// CalendarEntry is one schedule slot in the student calendar, grouped by
// day or by date.
type CalendarEntry struct {
	ID        int64  `json:"id" example:"1"`
	ClassID   int64  `json:"classId" example:"1"`
	ClassName string `json:"className" example:"Data Structures"`
	StartTime string `json:"startTime" example:"09:00"`
	EndTime   string `json:"endTime" example:"10:30"`
	Reason    string `json:"reason,omitempty" example:"Makeup class"`
}

// CanceledEntry is one canceled session in the student calendar.
type CanceledEntry struct {
	ClassID      int64  `json:"classId" example:"1"`
	ClassName    string `json:"className" example:"Data Structures"`
	ScheduleTime string `json:"scheduleTime" example:"09:00 - 10:30"`
}

// StudentCalendarResponse aggregates everything the student calendar view
// needs: weekly slots keyed by day name, extra classes and cancellations
// keyed by "YYYY-MM-DD" date.
type StudentCalendarResponse struct {
	SchedulesByDay     map[string][]CalendarEntry `json:"schedulesByDay"`
	ExtraClassesByDate map[string][]CalendarEntry `json:"extraClassesByDate"`
	CanceledByDate     map[string][]CanceledEntry `json:"canceledByDate"`
}
