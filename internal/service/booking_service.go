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
	"maale/internal/slots"

	"github.com/rs/zerolog"
)

// BookingService is the slot allocator: it computes free slots for a date
// and validates and persists new bookings against the fixed time grid.
type BookingService struct {
	repo              domain.Repository
	eventBus          domain.EventPublisher
	adminLog          *AdminLogService
	forwardWindowDays int
	logger            *zerolog.Logger
}

// CreateRequest carries a booking submission. Date must already be parsed;
// slots are grid labels.
type CreateRequest struct {
	CourseID  string
	Commander string
	Phone     string
	Date      time.Time
	StartSlot string
	EndSlot   string
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, adminLog *AdminLogService, forwardWindowDays int, logger *zerolog.Logger) *BookingService {
	if forwardWindowDays <= 0 {
		forwardWindowDays = models.ForwardWindowDays
	}
	return &BookingService{
		repo:              repo,
		eventBus:          eventBus,
		adminLog:          adminLog,
		forwardWindowDays: forwardWindowDays,
		logger:            logger,
	}
}

// FreeSlots returns the grid labels not covered by any booking on the date,
// in grid order.
func (s *BookingService) FreeSlots(ctx context.Context, date time.Time) ([]string, error) {
	bookings, err := s.repo.GetBookingsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return slots.Free(bookings), nil
}

// Schedule returns the day's bookings ordered by start slot.
func (s *BookingService) Schedule(ctx context.Context, date time.Time) ([]models.Booking, error) {
	return s.repo.GetBookingsByDate(ctx, date)
}

// ValidateDate enforces the guest forward window. Administrators may book
// any date.
func (s *BookingService) ValidateDate(actor models.Actor, date time.Time) error {
	if actor.IsAdmin() {
		return nil
	}

	today := dateOnly(time.Now())
	day := dateOnly(date)

	if day.Before(today) {
		return database.ErrPastDate
	}
	if day.After(today.AddDate(0, 0, s.forwardWindowDays)) {
		return database.ErrDateTooFar
	}
	return nil
}

// Create validates and persists a booking. The whole [start, end) interval
// must be free; the insert re-checks that inside a transaction, so two
// near-simultaneous submissions cannot both land on the same slots.
func (s *BookingService) Create(ctx context.Context, actor models.Actor, req CreateRequest) (*models.Booking, error) {
	if strings.TrimSpace(req.CourseID) == "" ||
		strings.TrimSpace(req.Commander) == "" ||
		strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("%w: course, commander and phone are required", database.ErrValidation)
	}

	if err := s.ValidateDate(actor, req.Date); err != nil {
		return nil, err
	}

	start, end := req.StartSlot, req.EndSlot
	if !slots.Contains(start) || !slots.Contains(end) {
		return nil, fmt.Errorf("%w: start and end must be grid slots", database.ErrValidation)
	}
	if slots.Index(start) >= slots.Index(end) {
		return nil, fmt.Errorf("%w: end slot must come after start slot", database.ErrValidation)
	}

	booking := &models.Booking{
		CourseID:  strings.TrimSpace(req.CourseID),
		Commander: strings.TrimSpace(req.Commander),
		Phone:     strings.TrimSpace(req.Phone),
		Date:      dateOnly(req.Date),
		StartSlot: start,
		EndSlot:   end,
	}

	if err := s.repo.CreateBookingTx(ctx, booking); err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		details := fmt.Sprintf("%s %s-%s", booking.DateKey(), booking.StartSlot, booking.EndSlot)
		if err := s.adminLog.Append(ctx, actor, models.ActionCreateBooking, details); err != nil {
			return nil, err
		}
	}

	s.publishBookingEvent(events.EventBookingCreated, booking, actor)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("date", booking.DateKey()).
		Str("slots", booking.StartSlot+"-"+booking.EndSlot).
		Msg("booking created")

	return booking, nil
}

// Delete removes one booking. Administrator only.
func (s *BookingService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if !actor.IsAdmin() {
		return database.ErrForbidden
	}

	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	details := fmt.Sprintf("%s %s-%s | %s", booking.DateKey(), booking.StartSlot, booking.EndSlot, booking.CourseID)
	if err := s.adminLog.Append(ctx, actor, models.ActionDeleteBooking, details); err != nil {
		return err
	}

	s.publishBookingEvent(events.EventBookingDeleted, booking, actor)
	return nil
}

// DeleteAll removes every booking and reports the count. Administrator only.
func (s *BookingService) DeleteAll(ctx context.Context, actor models.Actor) (int64, error) {
	if !actor.IsAdmin() {
		return 0, database.ErrForbidden
	}

	removed, err := s.repo.DeleteAllBookings(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.adminLog.Append(ctx, actor, models.ActionDeleteAllBookings, fmt.Sprintf("removed %d bookings", removed)); err != nil {
		return 0, err
	}

	s.publishPurgeEvent("", removed, actor)
	return removed, nil
}

// DeleteForDate removes the day's bookings and reports the count.
// Administrator only.
func (s *BookingService) DeleteForDate(ctx context.Context, actor models.Actor, date time.Time) (int64, error) {
	if !actor.IsAdmin() {
		return 0, database.ErrForbidden
	}

	removed, err := s.repo.DeleteBookingsForDate(ctx, date)
	if err != nil {
		return 0, err
	}

	details := fmt.Sprintf("%s: removed %d bookings", date.Format(models.DisplayDateLayout), removed)
	if err := s.adminLog.Append(ctx, actor, models.ActionDeleteDateBookings, details); err != nil {
		return 0, err
	}

	s.publishPurgeEvent(date.Format(models.DateLayout), removed, actor)
	return removed, nil
}

// Search filters bookings by course substring, commander substring and
// exact date. Administrator only.
func (s *BookingService) Search(ctx context.Context, actor models.Actor, course, commander string, date *time.Time) ([]models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, database.ErrForbidden
	}
	return s.repo.SearchBookings(ctx, course, commander, date)
}

// Export returns all bookings in [from, to] for the xlsx export.
// Administrator only.
func (s *BookingService) Export(ctx context.Context, actor models.Actor, from, to time.Time) ([]models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, database.ErrForbidden
	}
	return s.repo.GetBookingsByDateRange(ctx, from, to)
}

func (s *BookingService) publishBookingEvent(eventType string, b *models.Booking, actor models.Actor) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: b.ID,
		CourseID:  b.CourseID,
		Commander: b.Commander,
		Date:      b.Date,
		StartSlot: b.StartSlot,
		EndSlot:   b.EndSlot,
		Actor:     actor.Username,
		Role:      string(actor.Role),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", b.ID).Msg("publish event error")
	}
}

func (s *BookingService) publishPurgeEvent(date string, removed int64, actor models.Actor) {
	if s.eventBus == nil {
		return
	}

	payload := events.PurgeEventPayload{Date: date, Removed: removed, Actor: actor.Username}
	if err := s.eventBus.PublishJSON(events.EventBookingsPurged, payload); err != nil {
		s.logger.Error().Err(err).Msg("publish event error")
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
