package models

import "time"

type AdminLogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// Admin action labels recorded in the action log.
const (
	ActionCreateBooking      = "create_booking"
	ActionDeleteBooking      = "delete_booking"
	ActionDeleteAllBookings  = "delete_all_bookings"
	ActionDeleteDateBookings = "delete_date_bookings"
	ActionPublishMessage     = "publish_announcement"
	ActionDeleteMessage      = "delete_announcement"
)
