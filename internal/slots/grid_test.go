package slots

import (
	"testing"

	"maale/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 32)
	assert.Equal(t, "06:00", labels[0])
	assert.Equal(t, "21:30", labels[len(labels)-1])

	// Labels ascend in grid order
	for i := 1; i < len(labels); i++ {
		assert.Less(t, labels[i-1], labels[i])
	}

	assert.Equal(t, len(labels), Size())
}

func TestIndexAndContains(t *testing.T) {
	assert.Equal(t, 0, Index("06:00"))
	assert.Equal(t, 31, Index("21:30"))
	assert.Equal(t, -1, Index("22:00"))
	assert.Equal(t, -1, Index("10:15"))

	assert.True(t, Contains("10:30"))
	assert.False(t, Contains("05:30"))
	assert.False(t, Contains(""))
}

func TestFree_EmptyDay(t *testing.T) {
	free := Free(nil)
	assert.Equal(t, Labels(), free)
}

func TestFree_HalfOpenInterval(t *testing.T) {
	bookings := []models.Booking{
		{StartSlot: "10:00", EndSlot: "11:00"},
	}

	free := Free(bookings)

	assert.NotContains(t, free, "10:00")
	assert.NotContains(t, free, "10:30")
	// The end label itself stays free: intervals are [start, end)
	assert.Contains(t, free, "11:00")
	assert.Contains(t, free, "09:30")
	assert.Len(t, free, 30)
}

func TestFree_SkipsOffGridRows(t *testing.T) {
	bookings := []models.Booking{
		{StartSlot: "10:15", EndSlot: "11:00"},
		{StartSlot: "06:00", EndSlot: "06:30"},
	}

	free := Free(bookings)
	assert.NotContains(t, free, "06:00")
	assert.Contains(t, free, "10:00")
	assert.Len(t, free, 31)
}

func TestFree_Idempotent(t *testing.T) {
	bookings := []models.Booking{
		{StartSlot: "08:00", EndSlot: "09:30"},
		{StartSlot: "08:30", EndSlot: "09:00"},
	}

	once := Free(bookings[:1])
	twice := Free(bookings)
	assert.Equal(t, once, twice)
}

func TestRangeFree(t *testing.T) {
	bookings := []models.Booking{
		{StartSlot: "10:00", EndSlot: "11:00"},
	}

	assert.True(t, RangeFree(bookings, "11:00", "12:00"))
	assert.True(t, RangeFree(bookings, "08:00", "09:30"))
	assert.False(t, RangeFree(bookings, "10:30", "11:30"))
	assert.False(t, RangeFree(bookings, "09:30", "10:30"))
	// An interval fully covering the booking is blocked by the middle labels
	assert.False(t, RangeFree(bookings, "09:00", "12:00"))
}

func TestRangeFree_EndLabelMustBeFree(t *testing.T) {
	bookings := []models.Booking{
		{StartSlot: "10:00", EndSlot: "11:00"},
	}

	// 10:00 is occupied, so it cannot serve as an end either
	assert.False(t, RangeFree(bookings, "09:00", "10:00"))

	// The start label of an existing booking is occupied and cannot end
	// a new one
	assert.False(t, RangeFree([]models.Booking{{StartSlot: "11:00", EndSlot: "12:00"}}, "10:00", "11:00"))
}

func TestRangeFree_Invalid(t *testing.T) {
	assert.False(t, RangeFree(nil, "10:00", "10:00"))
	assert.False(t, RangeFree(nil, "11:00", "10:00"))
	assert.False(t, RangeFree(nil, "10:15", "11:00"))
	assert.False(t, RangeFree(nil, "10:00", "22:00"))
}
