package domain

import (
	"context"
	"time"

	"maale/internal/models"
)

// Repository is the durable store behind the allocator, announcement board,
// admin log and credential services.
type Repository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingsByDate(ctx context.Context, date time.Time) ([]models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	CreateBookingTx(ctx context.Context, booking *models.Booking) error
	SearchBookings(ctx context.Context, course, commander string, date *time.Time) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	DeleteAllBookings(ctx context.Context) (int64, error)
	DeleteBookingsForDate(ctx context.Context, date time.Time) (int64, error)

	AddAnnouncement(ctx context.Context, a *models.Announcement) error
	LatestAnnouncement(ctx context.Context) (*models.Announcement, error)
	DeleteLatestAnnouncement(ctx context.Context) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)

	AppendAdminLog(ctx context.Context, e *models.AdminLogEntry) error
	RetainAdminLog(ctx context.Context, now time.Time) (int64, error)
	ListAdminLog(ctx context.Context) ([]models.AdminLogEntry, error)

	GetCredential(ctx context.Context, username string) (*models.Credential, error)
	UpsertCredential(ctx context.Context, username, secret string, role models.Role) error
	SeedDefaultAdmin(ctx context.Context) error
}

// SessionStore resolves session tokens to actors. Implementations carry a
// TTL so stale sessions expire on their own.
type SessionStore interface {
	Put(ctx context.Context, token string, actor models.Actor) error
	Get(ctx context.Context, token string) (*models.Actor, error)
	Delete(ctx context.Context, token string) error
}

// EventPublisher decouples services from the in-process bus.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
