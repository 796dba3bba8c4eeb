package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"
)

type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for date checks and state slicing.
func (s *BookingService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *BookingService) CreateBooking(ctx context.Context, userID, itemID int64, start, end time.Time) (*models.Booking, error) {
	now := s.now()
	var booking *models.Booking

	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		item, err := requireItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if !item.Available {
			return domain.Validation("item not available for booking")
		}
		if item.OwnerID == userID {
			return domain.NotFound("owner cannot book own item")
		}
		if err := validateBookingDates(start, end, now); err != nil {
			return err
		}

		booking = &models.Booking{
			ItemID:   item.ID,
			BookerID: userID,
			Start:    start,
			End:      end,
			Status:   models.StatusWaiting,
		}
		if err := tx.CreateBooking(ctx, booking); err != nil {
			return err
		}
		booking.ItemName = item.Name
		booking.ItemOwnerID = item.OwnerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", booking.ItemID).
		Int64("booker_id", userID).
		Msg("Booking created")
	metrics.IncBookingTransition(string(models.StatusWaiting))
	s.publishEvent(events.EventBookingCreated, booking, userID)
	return booking, nil
}

func validateBookingDates(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.Validation("booking start and end are required")
	}
	if end.Before(start) {
		return domain.Validation("booking end must not be before start")
	}
	if end.Equal(start) {
		return domain.Validation("booking end must be after start")
	}
	if start.Before(now) {
		return domain.Validation("booking start must not be in the past")
	}
	return nil
}

// ApproveBooking moves a WAITING booking to APPROVED or REJECTED. Only the item owner may call it,
// and only one call per booking can succeed.
func (s *BookingService) ApproveBooking(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error) {
	to := models.StatusRejected
	if approved {
		to = models.StatusApproved
	}

	var booking *models.Booking
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		booking, err = requireBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if booking.ItemOwnerID != userID {
			return domain.Validation("only the item owner can approve or reject a booking")
		}
		if booking.Status != models.StatusWaiting {
			return domain.Validation("booking already processed")
		}

		swapped, err := tx.CompareAndSetStatus(ctx, booking.ID, models.StatusWaiting, to)
		if err != nil {
			return err
		}
		if !swapped {
			return domain.Validation("booking already processed")
		}
		booking.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("owner_id", userID).
		Str("status", booking.Status.String()).
		Msg("Booking processed")
	metrics.IncBookingTransition(string(to))

	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.publishEvent(eventType, booking, userID)
	return booking, nil
}

// GetBooking hides bookings from anyone but their booker and the item owner.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	var booking *models.Booking
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		booking, err = requireBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.VisibleTo(userID) {
			return domain.NotFound("booking not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListBookerBookings(ctx context.Context, userID int64, state models.BookingState) ([]*models.Booking, error) {
	return s.list(ctx, userID, domain.BookingFilter{BookerID: userID, State: state})
}

func (s *BookingService) ListOwnerBookings(ctx context.Context, userID int64, state models.BookingState) ([]*models.Booking, error) {
	return s.list(ctx, userID, domain.BookingFilter{OwnerID: userID, State: state})
}

func (s *BookingService) list(ctx context.Context, userID int64, filter domain.BookingFilter) ([]*models.Booking, error) {
	filter.Now = s.now()

	var bookings []*models.Booking
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		bookings, err = tx.ListBookings(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedBy int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		OwnerID:   booking.ItemOwnerID,
		Status:    booking.Status.String(),
		Start:     booking.Start,
		End:       booking.End,
		ChangedBy: changedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
