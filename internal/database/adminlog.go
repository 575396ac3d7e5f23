package database

import (
	"context"
	"fmt"
	"time"

	"maale/internal/models"
)

// AppendAdminLog records an administrative action. Timestamps are stored
// at minute precision.
func (db *DB) AppendAdminLog(ctx context.Context, e *models.AdminLogEntry) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO admin_log (timestamp, actor, action, details) VALUES (?, ?, ?, ?)`,
		e.Timestamp.Format(models.TimestampLayout), e.Actor, e.Action, e.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to append admin log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// RetainAdminLog drops entries with timestamp <= now-24h. Runs once at
// process start; the string comparison is safe because the timestamp
// layout sorts lexicographically.
func (db *DB) RetainAdminLog(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-models.AdminLogRetention)
	result, err := db.ExecContext(ctx,
		`DELETE FROM admin_log WHERE timestamp <= ?`,
		cutoff.Format(models.TimestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to retain admin log: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// ListAdminLog returns entries newest first.
func (db *DB) ListAdminLog(ctx context.Context) ([]models.AdminLogEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, timestamp, actor, action, details FROM admin_log ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin log: %w", err)
	}
	defer rows.Close()

	var entries []models.AdminLogEntry
	for rows.Next() {
		var e models.AdminLogEntry
		var tsStr string
		if err := rows.Scan(&e.ID, &tsStr, &e.Actor, &e.Action, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan admin log entry: %w", err)
		}
		ts, err := time.Parse(models.TimestampLayout, tsStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse admin log timestamp %s: %w", tsStr, err)
		}
		e.Timestamp = ts
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
