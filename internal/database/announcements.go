package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"maale/internal/models"
)

func scanAnnouncement(row interface{ Scan(...any) error }) (models.Announcement, error) {
	var a models.Announcement
	var tsStr string
	if err := row.Scan(&a.ID, &tsStr, &a.Text); err != nil {
		return models.Announcement{}, err
	}
	ts, err := time.Parse(models.TimestampLayout, tsStr)
	if err != nil {
		return models.Announcement{}, fmt.Errorf("failed to parse announcement timestamp %s: %w", tsStr, err)
	}
	a.Timestamp = ts
	return a, nil
}

// AddAnnouncement appends a new announcement with the given timestamp.
func (db *DB) AddAnnouncement(ctx context.Context, a *models.Announcement) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO announcements (timestamp, text) VALUES (?, ?)`,
		a.Timestamp.Format(models.TimestampLayout), a.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to add announcement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	a.ID = id
	return nil
}

// LatestAnnouncement returns the most recent announcement, or nil when the
// board is empty. Only the latest entry is ever shown to users.
func (db *DB) LatestAnnouncement(ctx context.Context) (*models.Announcement, error) {
	row := db.QueryRowContext(ctx, `SELECT id, timestamp, text FROM announcements ORDER BY id DESC LIMIT 1`)
	a, err := scanAnnouncement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest announcement: %w", err)
	}
	return &a, nil
}

// DeleteLatestAnnouncement removes the tail entry and returns it.
func (db *DB) DeleteLatestAnnouncement(ctx context.Context) (*models.Announcement, error) {
	latest, err := db.LatestAnnouncement(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrNothingToDelete
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, latest.ID); err != nil {
		return nil, fmt.Errorf("failed to delete announcement: %w", err)
	}
	return latest, nil
}

// ListAnnouncements returns all announcements in insertion order.
func (db *DB) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, timestamp, text FROM announcements ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var list []models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
