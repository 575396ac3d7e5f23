package service

import (
	"context"
	"time"

	"maale/internal/database"
	"maale/internal/domain"
	"maale/internal/models"

	"github.com/rs/zerolog"
)

// AdminLogService keeps the append-only record of administrative actions.
type AdminLogService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewAdminLogService(repo domain.Repository, logger *zerolog.Logger) *AdminLogService {
	return &AdminLogService{repo: repo, logger: logger}
}

// Append records an action with a minute-precision timestamp. A storage
// failure here is surfaced to the caller; the log must not silently lose
// entries.
func (s *AdminLogService) Append(ctx context.Context, actor models.Actor, action, details string) error {
	entry := &models.AdminLogEntry{
		Timestamp: time.Now().Truncate(time.Minute),
		Actor:     actor.Username,
		Action:    action,
		Details:   details,
	}
	return s.repo.AppendAdminLog(ctx, entry)
}

// Retain purges entries older than the retention window. Called once at
// process start, so an entry can outlive the window while the process
// stays up; that staleness is accepted.
func (s *AdminLogService) Retain(ctx context.Context, now time.Time) error {
	removed, err := s.repo.RetainAdminLog(ctx, now)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("purged old admin log entries")
	}
	return nil
}

// Entries returns the log newest first. Administrator only.
func (s *AdminLogService) Entries(ctx context.Context, actor models.Actor) ([]models.AdminLogEntry, error) {
	if !actor.IsAdmin() {
		return nil, database.ErrForbidden
	}
	return s.repo.ListAdminLog(ctx)
}
