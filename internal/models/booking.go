package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	CourseID  string    `json:"course_id"`
	Commander string    `json:"commander_name"`
	Phone     string    `json:"phone"`
	Date      time.Time `json:"date"`
	StartSlot string    `json:"start_slot"`
	EndSlot   string    `json:"end_slot"`
	CreatedAt time.Time `json:"created_at"`
}

// DateKey returns the canonical yyyy-mm-dd form used for storage and lookups.
func (b *Booking) DateKey() string {
	return b.Date.Format(DateLayout)
}
