package email

import (
	"context"

	"github.com/nvoronina/flightbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender delivers booking notifications. Delivery is log-only for now; the
// customer contact lookup lives in another service.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	logrus.WithFields(logrus.Fields{
		"customer_id": event.CustomerID,
		"booking_id":  event.BookingID,
		"flight_id":   event.FlightID,
		"event":       event.Type,
	}).Info("sending booking notification")
	return nil
}
