package models

import "time"

// Announcement defines an announcement posted by the professor of a class.
type Announcement struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	ClassID   int64     `json:"classId" db:"class_id" example:"1"`
	Title     string    `json:"title" db:"title" example:"Midterm moved to Friday"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
