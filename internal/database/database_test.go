package database

import (
	"path/filepath"
	"testing"
	"time"

	"maale/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testBooking(date time.Time, start, end string) *models.Booking {
	return &models.Booking{
		CourseID:  "course-1",
		Commander: "Levi",
		Phone:     "0534444494",
		Date:      date,
		StartSlot: start,
		EndSlot:   end,
	}
}

func TestNewDB_CreatesSchema(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"bookings", "announcements", "admin_log", "credentials"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s must exist", table)
	}
}
