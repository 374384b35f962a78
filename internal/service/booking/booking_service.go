package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/nvoronina/flightbooking/internal/domain"
	"github.com/nvoronina/flightbooking/internal/kafka"
	"github.com/nvoronina/flightbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Confirm(ctx context.Context, id int64, paymentID string) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	SetBooking(ctx context.Context, booking *domain.Booking) error
	GetBookingList(ctx context.Context) ([]domain.Booking, error)
	SetBookingList(ctx context.Context, bookings []domain.Booking) error
	Invalidate(ctx context.Context, id int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// Lifecycle events are retried a few times before giving up; notifications
// are fire-and-forget.
const eventPublishRetries = 3

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
}

type CreateBookingInput struct {
	CustomerID         int64
	FlightID           int64
	NumberOfPassengers int
	TotalPrice         float64
	DepartureDate      *time.Time
	SeatNumbers        string
	Notes              string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create persists a new booking. The status is always PENDING and the booking
// date and both timestamps are set to the same instant; validation happened at
// the transport layer, so valid input never fails here.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	logrus.WithFields(logrus.Fields{
		"customer_id": input.CustomerID,
		"flight_id":   input.FlightID,
	}).Info("creating booking")

	now := time.Now().UTC()
	booking := &domain.Booking{
		CustomerID:         input.CustomerID,
		FlightID:           input.FlightID,
		NumberOfPassengers: input.NumberOfPassengers,
		TotalPrice:         input.TotalPrice,
		Status:             domain.BookingStatusPending,
		BookingDate:        now,
		DepartureDate:      input.DepartureDate,
		SeatNumbers:        input.SeatNumbers,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidate(ctx, booking.ID)
	s.publish(ctx, "booking_created", booking)
	logrus.WithField("booking_id", booking.ID).Info("booking created")
	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBooking(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetBooking(ctx, booking)
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBookingList(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetBookingList(ctx, bookings)
	}
	return bookings, nil
}

func (s *BookingService) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

func (s *BookingService) ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	return s.bookings.ListByFlight(ctx, flightID)
}

// UpdateStatus overwrites the status unconditionally. Any status may move to
// any other through this entry point.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidate(ctx, booking.ID)
	s.publish(ctx, "booking_status_updated", booking)
	logrus.WithFields(logrus.Fields{"booking_id": id, "status": status}).Info("booking status updated")
	return booking, nil
}

// Confirm records the payment reference and forces the status to CONFIRMED
// without inspecting the current status.
func (s *BookingService) Confirm(ctx context.Context, id int64, paymentID string) (*domain.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.PaymentID = paymentID
	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidate(ctx, booking.ID)
	s.publish(ctx, "booking_confirmed", booking)
	logrus.WithFields(logrus.Fields{"booking_id": id, "payment_id": paymentID}).Info("booking confirmed")
	return booking, nil
}

// Cancel is the only guarded transition: cancelling an already cancelled
// booking is a conflict.
func (s *BookingService) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrBookingAlreadyCancelled
	}

	booking.Status = domain.BookingStatusCancelled
	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidate(ctx, booking.ID)
	s.publish(ctx, "booking_cancelled", booking)
	logrus.WithField("booking_id", id).Info("booking cancelled")
	return booking, nil
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	exists, err := s.bookings.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrBookingNotFound
	}

	if _, err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, "booking_deleted", &domain.Booking{ID: id})
	logrus.WithField("booking_id", id).Info("booking deleted")
	return nil
}

func (s *BookingService) load(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.WithError(err).WithField("booking_id", id).Warn("cache invalidation failed")
	}
}

// publish emits a lifecycle event best-effort; a broker failure never fails
// the operation that triggered it.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		FlightID:   booking.FlightID,
		Status:     string(booking.Status),
		PaymentID:  booking.PaymentID,
		OccurredAt: time.Now().UTC(),
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.PublishWithRetry(ctx, s.eventsTopic, key, event, eventPublishRetries); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).Warnf("failed to publish %s event", eventType)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			logrus.WithError(err).WithField("booking_id", booking.ID).Warnf("failed to publish %s notification", eventType)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
