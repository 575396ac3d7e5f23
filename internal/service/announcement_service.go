package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maale/internal/database"
	"maale/internal/domain"
	"maale/internal/events"
	"maale/internal/models"

	"github.com/rs/zerolog"
)

// AnnouncementService manages the single announcement board. Only the most
// recent entry is active; deletion works from the tail only.
type AnnouncementService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	adminLog *AdminLogService
	logger   *zerolog.Logger
}

func NewAnnouncementService(repo domain.Repository, eventBus domain.EventPublisher, adminLog *AdminLogService, logger *zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		repo:     repo,
		eventBus: eventBus,
		adminLog: adminLog,
		logger:   logger,
	}
}

// Publish appends a timestamped announcement. Administrator only.
func (s *AnnouncementService) Publish(ctx context.Context, actor models.Actor, text string) (*models.Announcement, error) {
	if !actor.IsAdmin() {
		return nil, database.ErrForbidden
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: announcement text is required", database.ErrValidation)
	}

	a := &models.Announcement{
		Timestamp: time.Now().Truncate(time.Minute),
		Text:      text,
	}
	if err := s.repo.AddAnnouncement(ctx, a); err != nil {
		return nil, err
	}

	if err := s.adminLog.Append(ctx, actor, models.ActionPublishMessage, text); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventAnnouncementPublished, a)
	return a, nil
}

// Active returns the most recent announcement, or nil when the board is
// empty.
func (s *AnnouncementService) Active(ctx context.Context) (*models.Announcement, error) {
	return s.repo.LatestAnnouncement(ctx)
}

// History returns every announcement in publish order, including ones a
// later publish superseded. Administrator only.
func (s *AnnouncementService) History(ctx context.Context, actor models.Actor) ([]models.Announcement, error) {
	if !actor.IsAdmin() {
		return nil, database.ErrForbidden
	}
	return s.repo.ListAnnouncements(ctx)
}

// DeleteLast removes the most recent announcement. Administrator only.
// Returns ErrNothingToDelete when the board is empty.
func (s *AnnouncementService) DeleteLast(ctx context.Context, actor models.Actor) (*models.Announcement, error) {
	if !actor.IsAdmin() {
		return nil, database.ErrForbidden
	}

	deleted, err := s.repo.DeleteLatestAnnouncement(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.adminLog.Append(ctx, actor, models.ActionDeleteMessage, deleted.Text); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventAnnouncementDeleted, deleted)
	return deleted, nil
}

func (s *AnnouncementService) publishEvent(eventType string, a *models.Announcement) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, a); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
