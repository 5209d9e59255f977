package models

import (
	"time"

	"github.com/rollcall-app/rollcall/internal/pkg/timerange"
)

// Schedule defines a recurring weekly time slot for a class.
type Schedule struct {
	ID        int64               `json:"id" db:"id" example:"1"`
	ClassID   int64               `json:"classId" db:"class_id" example:"1"`
	Day       Day                 `json:"day" db:"day" example:"Monday"`
	StartTime timerange.TimeOfDay `json:"startTime" db:"start_time" swaggertype:"string" example:"09:00"`
	EndTime   timerange.TimeOfDay `json:"endTime" db:"end_time" swaggertype:"string" example:"10:30"`
}

// Label returns the session label for this slot, e.g. "09:00 - 10:30".
func (s *Schedule) Label() string {
	return timerange.Label(s.StartTime, s.EndTime)
}

// ExtraClass defines a one-off session (makeup class, review session)
// scheduled on a specific calendar date.
type ExtraClass struct {
	ID        int64               `json:"id" db:"id" example:"1"`
	ClassID   int64               `json:"classId" db:"class_id" example:"1"`
	Date      time.Time           `json:"date" db:"date" example:"2025-09-15T00:00:00Z"`
	StartTime timerange.TimeOfDay `json:"startTime" db:"start_time" swaggertype:"string" example:"14:00"`
	EndTime   timerange.TimeOfDay `json:"endTime" db:"end_time" swaggertype:"string" example:"15:30"`
	Reason    *string             `json:"reason,omitempty" db:"reason" example:"Makeup class"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
}
