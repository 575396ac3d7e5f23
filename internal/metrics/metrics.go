package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "maale",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "maale",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted by the allocator.",
		},
	)

	bookingsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "maale",
			Name:      "bookings_deleted_total",
			Help:      "Bookings removed by administrators.",
		},
	)

	authFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "maale",
			Name:      "auth_failures_total",
			Help:      "Failed login attempts.",
		},
	)

	announcementsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "maale",
			Name:      "announcements_published_total",
			Help:      "Announcements published by administrators.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsCreated,
			bookingsDeleted,
			authFailures,
			announcementsPublished,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncBookingCreated() { bookingsCreated.Inc() }

// IncBookingsDeleted adds n removed bookings; bulk deletions count each row.
func IncBookingsDeleted(n int64) {
	if n > 0 {
		bookingsDeleted.Add(float64(n))
	}
}

func IncAuthFailure() { authFailures.Inc() }

func IncAnnouncementPublished() { announcementsPublished.Inc() }
