package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"maale/internal/models"
	"maale/internal/slots"
)

const bookingColumns = `id, course_id, commander_name, phone, date, start_slot, end_slot, created_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	var dateStr string
	err := row.Scan(&b.ID, &b.CourseID, &b.Commander, &b.Phone, &dateStr, &b.StartSlot, &b.EndSlot, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	b.Date, err = time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to parse booking date %s: %w", dateStr, err)
	}
	return b, nil
}

// GetBookingsByDate returns all bookings on the given day ordered by start slot.
func (db *DB) GetBookingsByDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date = ? ORDER BY start_slot ASC`
	rows, err := db.QueryContext(ctx, query, date.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetBookingsByDateRange returns bookings between start and end inclusive,
// ordered by date then start slot.
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date >= ? AND date <= ? ORDER BY date ASC, start_slot ASC`
	rows, err := db.QueryContext(ctx, query, start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetBooking returns a single booking by ID.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// CreateBookingTx inserts a booking after re-validating slot freedom inside
// a transaction. Reading the day's rows and inserting in the same transaction
// is what prevents two near-simultaneous submissions from both passing a
// stale free-slot check.
func (db *DB) CreateBookingTx(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date = ?`
	rows, err := tx.QueryContext(ctx, query, booking.DateKey())
	if err != nil {
		return fmt.Errorf("failed to check slots in tx: %w", err)
	}

	var existing []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan booking in tx: %w", err)
		}
		existing = append(existing, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if !slots.RangeFree(existing, booking.StartSlot, booking.EndSlot) {
		return ErrSlotTaken
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (course_id, commander_name, phone, date, start_slot, end_slot, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		booking.CourseID,
		booking.Commander,
		booking.Phone,
		booking.DateKey(),
		booking.StartSlot,
		booking.EndSlot,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now

	return tx.Commit()
}

// SearchBookings filters by course substring, commander substring and exact
// date. Empty criteria are ignored; a nil date matches every day.
func (db *DB) SearchBookings(ctx context.Context, course, commander string, date *time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	var args []any

	if course != "" {
		query += ` AND course_id LIKE ?`
		args = append(args, "%"+course+"%")
	}
	if commander != "" {
		query += ` AND commander_name LIKE ?`
		args = append(args, "%"+commander+"%")
	}
	if date != nil {
		query += ` AND date = ?`
		args = append(args, date.Format(models.DateLayout))
	}
	query += ` ORDER BY date ASC, start_slot ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// DeleteBooking removes a single booking by ID.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllBookings removes every booking and reports the count removed.
func (db *DB) DeleteAllBookings(ctx context.Context) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all bookings: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// DeleteBookingsForDate removes all bookings on the given day and reports
// the count removed.
func (db *DB) DeleteBookingsForDate(ctx context.Context, date time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE date = ?`, date.Format(models.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings for date: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
