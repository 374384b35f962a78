package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvoronina/flightbooking/internal/domain"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DB = (*pgxpool.Pool)(nil)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error)
	ListByCustomerAndStatus(ctx context.Context, customerID int64, status domain.BookingStatus) ([]domain.Booking, error)
	ExistsByFlightAndSeatNumbers(ctx context.Context, flightID int64, seatNumbers string) (bool, error)
	Save(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id int64) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

const bookingColumns = `id, customer_id, flight_id, number_of_passengers, total_price, status, booking_date, departure_date, seat_numbers, payment_id, notes, created_at, updated_at`

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id=$1 ORDER BY id`, customerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 ORDER BY id`, flightID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 ORDER BY id`, status)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE payment_id=$1`, paymentID)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByCustomerAndStatus(ctx context.Context, customerID int64, status domain.BookingStatus) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id=$1 AND status=$2 ORDER BY id`, customerID, status)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ExistsByFlightAndSeatNumbers(ctx context.Context, flightID int64, seatNumbers string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE flight_id=$1 AND seat_numbers=$2)`, flightID, seatNumbers).Scan(&exists)
	return exists, err
}

// Save inserts a booking without an id and overwrites the stored record otherwise.
func (r *PGBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	if booking.ID == 0 {
		return r.db.QueryRow(ctx, `INSERT INTO bookings (customer_id, flight_id, number_of_passengers, total_price, status, booking_date, departure_date, seat_numbers, payment_id, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`,
			booking.CustomerID, booking.FlightID, booking.NumberOfPassengers, booking.TotalPrice, booking.Status, booking.BookingDate, booking.DepartureDate, booking.SeatNumbers, booking.PaymentID, booking.Notes, booking.CreatedAt, booking.UpdatedAt).
			Scan(&booking.ID)
	}

	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET customer_id=$2, flight_id=$3, number_of_passengers=$4, total_price=$5, status=$6, booking_date=$7, departure_date=$8, seat_numbers=$9, payment_id=$10, notes=$11, updated_at=$12 WHERE id=$1`,
		booking.ID, booking.CustomerID, booking.FlightID, booking.NumberOfPassengers, booking.TotalPrice, booking.Status, booking.BookingDate, booking.DepartureDate, booking.SeatNumbers, booking.PaymentID, booking.Notes, booking.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGBookingRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

// scanBooking maps a single row, translating "no rows" into a nil booking so
// the service layer decides what a missing record means.
func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.CustomerID, &b.FlightID, &b.NumberOfPassengers, &b.TotalPrice, &b.Status, &b.BookingDate, &b.DepartureDate, &b.SeatNumbers, &b.PaymentID, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.FlightID, &b.NumberOfPassengers, &b.TotalPrice, &b.Status, &b.BookingDate, &b.DepartureDate, &b.SeatNumbers, &b.PaymentID, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
