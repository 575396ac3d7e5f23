package slots

import (
	"fmt"

	"maale/internal/models"
)

// The bookable day is a fixed grid of 30-minute labels from 06:00 to 21:30.
// All slot values anywhere in the system must be members of this grid and
// are compared by grid position, never by wall-clock arithmetic.
var grid []string

var gridIndex map[string]int

func init() {
	for h := 6; h < 22; h++ {
		for _, m := range []int{0, 30} {
			grid = append(grid, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	gridIndex = make(map[string]int, len(grid))
	for i, l := range grid {
		gridIndex[l] = i
	}
}

// Labels returns the full grid in ascending order. The caller must not
// modify the returned slice.
func Labels() []string {
	return grid
}

// Size returns the number of grid labels.
func Size() int {
	return len(grid)
}

// Index returns the grid position of a label, or -1 when the label is not
// a grid member.
func Index(l string) int {
	i, ok := gridIndex[l]
	if !ok {
		return -1
	}
	return i
}

// Contains reports whether l is a valid grid label.
func Contains(l string) bool {
	_, ok := gridIndex[l]
	return ok
}

// Free computes the free grid labels given the day's bookings. Every label
// covered by a booking's [start, end) interval is occupied. Bookings whose
// stored slots are off-grid are skipped rather than treated as errors;
// such rows can only come from hand-edited storage.
func Free(bookings []models.Booking) []string {
	occupied := make([]bool, len(grid))
	for _, b := range bookings {
		s := Index(b.StartSlot)
		e := Index(b.EndSlot)
		if s < 0 || e < 0 {
			continue
		}
		for i := s; i < e; i++ {
			occupied[i] = true
		}
	}

	free := make([]string, 0, len(grid))
	for i, l := range grid {
		if !occupied[i] {
			free = append(free, l)
		}
	}
	return free
}

// RangeFree reports whether a booking [start, end] may be placed given the
// day's bookings: every label in [start, end) must be free, and the end
// label itself must be free. The end check mirrors the selection form,
// which only offers end times drawn from the free list. It returns false
// when start or end is off-grid or when end does not come strictly after
// start.
func RangeFree(bookings []models.Booking, start, end string) bool {
	s := Index(start)
	e := Index(end)
	if s < 0 || e < 0 || s >= e {
		return false
	}

	free := Free(bookings)
	freeSet := make(map[int]bool, len(free))
	for _, l := range free {
		freeSet[gridIndex[l]] = true
	}

	for i := s; i <= e; i++ {
		if !freeSet[i] {
			return false
		}
	}
	return true
}
