package models

import "time"

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "STUDENT"
	RoleProfessor RoleType = "PROFESSOR"
)

// Day is a day-of-week name as stored with weekly schedules.
type Day string

const (
	DayMonday    Day = "Monday"
	DayTuesday   Day = "Tuesday"
	DayWednesday Day = "Wednesday"
	DayThursday  Day = "Thursday"
	DayFriday    Day = "Friday"
	DaySaturday  Day = "Saturday"
	DaySunday    Day = "Sunday"
)

// Days lists all valid days in week order.
var Days = []Day{
	DayMonday, DayTuesday, DayWednesday, DayThursday,
	DayFriday, DaySaturday, DaySunday,
}

// IsValid reports whether d is one of the seven day names.
func (d Day) IsValid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// DayOf returns the Day for an instant's weekday.
func DayOf(t time.Time) Day {
	return Day(t.Weekday().String())
}
