package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)

func TestCreateBookingTx_AndGetByDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	b := testBooking(testDate, "10:00", "11:00")
	require.NoError(t, db.CreateBookingTx(ctx, b))
	assert.NotZero(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := db.GetBookingsByDate(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, "course-1", got[0].CourseID)
	assert.Equal(t, testDate.Format("2006-01-02"), got[0].Date.Format("2006-01-02"))
}

func TestCreateBookingTx_OverlapRejected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate, "10:00", "11:00")))

	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{name: "identical interval", start: "10:00", end: "11:00", wantErr: ErrSlotTaken},
		{name: "starts inside", start: "10:30", end: "12:00", wantErr: ErrSlotTaken},
		{name: "ends inside", start: "09:00", end: "10:30", wantErr: ErrSlotTaken},
		{name: "covers", start: "09:00", end: "12:00", wantErr: ErrSlotTaken},
		{name: "ends on occupied start", start: "09:00", end: "10:00", wantErr: ErrSlotTaken},
		{name: "adjacent after", start: "11:00", end: "12:00"},
		{name: "clear of both", start: "08:00", end: "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.CreateBookingTx(ctx, testBooking(testDate, tt.start, tt.end))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateBookingTx_OtherDayUnaffected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate, "10:00", "11:00")))

	other := testBooking(testDate.AddDate(0, 0, 1), "10:00", "11:00")
	assert.NoError(t, db.CreateBookingTx(ctx, other))
}

func TestCreateBookingTx_Concurrent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// A single connection serializes the transactions; every loser must
	// fail the in-transaction re-check, not a driver lock.
	db.SetMaxOpenConns(1)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.CreateBookingTx(ctx, testBooking(testDate, "14:00", "15:00"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent submission may win the interval")

	got, err := db.GetBookingsByDate(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetBookingsByDate_OrderedByStart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate, "15:00", "16:00")))
	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate, "08:00", "09:00")))
	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate, "11:30", "12:00")))

	got, err := db.GetBookingsByDate(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "08:00", got[0].StartSlot)
	assert.Equal(t, "11:30", got[1].StartSlot)
	assert.Equal(t, "15:00", got[2].StartSlot)
}

func TestGetBookingsByDateRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate.AddDate(0, 0, i), "10:00", "11:00")))
	}

	got, err := db.GetBookingsByDateRange(ctx, testDate.AddDate(0, 0, 1), testDate.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchBookings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alpha := testBooking(testDate, "10:00", "11:00")
	alpha.CourseID = "alpha"
	alpha.Commander = "Levi"
	require.NoError(t, db.CreateBookingTx(ctx, alpha))

	bravo := testBooking(testDate.AddDate(0, 0, 1), "10:00", "11:00")
	bravo.CourseID = "bravo"
	bravo.Commander = "Dana"
	require.NoError(t, db.CreateBookingTx(ctx, bravo))

	t.Run("by course substring", func(t *testing.T) {
		got, err := db.SearchBookings(ctx, "alp", "", nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alpha", got[0].CourseID)
	})

	t.Run("by commander substring", func(t *testing.T) {
		got, err := db.SearchBookings(ctx, "", "Dan", nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dana", got[0].Commander)
	})

	t.Run("by exact date", func(t *testing.T) {
		got, err := db.SearchBookings(ctx, "", "", &testDate)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alpha", got[0].CourseID)
	})

	t.Run("no criteria matches everything", func(t *testing.T) {
		got, err := db.SearchBookings(ctx, "", "", nil)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestDeleteBooking(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	b := testBooking(testDate, "10:00", "11:00")
	require.NoError(t, db.CreateBookingTx(ctx, b))

	require.NoError(t, db.DeleteBooking(ctx, b.ID))

	_, err := db.GetBooking(ctx, b.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, db.DeleteBooking(ctx, b.ID), ErrNotFound)
}

func TestDeleteBookingsForDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	starts := []string{"08:00", "10:00", "12:00"}
	for _, s := range starts {
		end := s[:3] + "30"
		require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate, s, end)))
	}
	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate.AddDate(0, 0, 1), "10:00", "11:00")))
	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate.AddDate(0, 0, 2), "10:00", "11:00")))

	removed, err := db.DeleteBookingsForDate(ctx, testDate)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	remaining, err := db.GetBookingsByDateRange(ctx, testDate, testDate.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestDeleteAllBookings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate, "10:00", "11:00")))
	require.NoError(t, db.CreateBookingTx(ctx, testBooking(testDate.AddDate(0, 0, 1), "10:00", "11:00")))

	removed, err := db.DeleteAllBookings(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = db.DeleteAllBookings(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)
}
