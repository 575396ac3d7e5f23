// Package legacy reads and writes the flat-file collections of the previous
// system: one record per line, UTF-8, header row of named columns. It exists
// for interchange only; the live store is SQLite.
package legacy

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"maale/internal/models"
)

var (
	bookingHeader      = []string{"course_id", "commander_name", "phone", "date", "start_slot", "end_slot"}
	announcementHeader = []string{"timestamp", "text"}
	adminLogHeader     = []string{"timestamp", "actor", "action", "details"}
)

func readRecords(r io.Reader, want []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(want)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range want {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %q, want %q", header[i], col)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

// ReadBookings parses the legacy schedule collection.
func ReadBookings(r io.Reader) ([]models.Booking, error) {
	records, err := readRecords(r, bookingHeader)
	if err != nil {
		return nil, err
	}

	bookings := make([]models.Booking, 0, len(records))
	for i, rec := range records {
		date, err := time.Parse(models.DateLayout, rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q: %w", i+1, rec[3], err)
		}
		bookings = append(bookings, models.Booking{
			CourseID:  rec[0],
			Commander: rec[1],
			Phone:     rec[2],
			Date:      date,
			StartSlot: rec[4],
			EndSlot:   rec[5],
		})
	}
	return bookings, nil
}

// WriteBookings writes the schedule collection with its header row.
func WriteBookings(w io.Writer, bookings []models.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bookingHeader); err != nil {
		return err
	}
	for _, b := range bookings {
		rec := []string{b.CourseID, b.Commander, b.Phone, b.DateKey(), b.StartSlot, b.EndSlot}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAnnouncements parses the legacy messages collection.
func ReadAnnouncements(r io.Reader) ([]models.Announcement, error) {
	records, err := readRecords(r, announcementHeader)
	if err != nil {
		return nil, err
	}

	list := make([]models.Announcement, 0, len(records))
	for i, rec := range records {
		ts, err := time.Parse(models.TimestampLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", i+1, rec[0], err)
		}
		list = append(list, models.Announcement{Timestamp: ts, Text: rec[1]})
	}
	return list, nil
}

// WriteAnnouncements writes the messages collection with its header row.
func WriteAnnouncements(w io.Writer, list []models.Announcement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(announcementHeader); err != nil {
		return err
	}
	for _, a := range list {
		if err := cw.Write([]string{a.Timestamp.Format(models.TimestampLayout), a.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAdminLog parses the legacy admin log collection.
func ReadAdminLog(r io.Reader) ([]models.AdminLogEntry, error) {
	records, err := readRecords(r, adminLogHeader)
	if err != nil {
		return nil, err
	}

	entries := make([]models.AdminLogEntry, 0, len(records))
	for i, rec := range records {
		ts, err := time.Parse(models.TimestampLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", i+1, rec[0], err)
		}
		entries = append(entries, models.AdminLogEntry{
			Timestamp: ts,
			Actor:     rec[1],
			Action:    rec[2],
			Details:   rec[3],
		})
	}
	return entries, nil
}

// WriteAdminLog writes the admin log collection with its header row.
func WriteAdminLog(w io.Writer, entries []models.AdminLogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(adminLogHeader); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{e.Timestamp.Format(models.TimestampLayout), e.Actor, e.Action, e.Details}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
