package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// ParseBookingStatus converts an external status string into a BookingStatus,
// rejecting anything outside the four known values.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch status := BookingStatus(s); status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

type Booking struct {
	ID                 int64
	CustomerID         int64
	FlightID           int64
	NumberOfPassengers int
	TotalPrice         float64
	Status             BookingStatus
	BookingDate        time.Time
	DepartureDate      *time.Time
	SeatNumbers        string
	PaymentID          string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
