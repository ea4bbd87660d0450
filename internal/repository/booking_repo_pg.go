package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListImported(ctx context.Context) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id int64) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Nullable text columns (seat_number, payment_id, external_booking_id) and the
// nullable flight_id round-trip through NULLIF/COALESCE so the Go side works
// with zero values while unique indexes on payment_id and external_booking_id
// see real NULLs.
const bookingColumns = `id, owner_user_id, flight_code, COALESCE(flight_id, 0), passenger_name,
	COALESCE(seat_number, ''), number_of_seats, total_price, status, payment_status,
	COALESCE(payment_id, ''), COALESCE(external_booking_id, ''), created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.OwnerUserID, &b.FlightCode, &b.FlightID, &b.PassengerName,
		&b.SeatNumber, &b.NumberOfSeats, &b.TotalPrice, &b.Status, &b.PaymentStatus,
		&b.PaymentID, &b.ExternalBookingID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	row := r.db.QueryRow(ctx, `INSERT INTO bookings
		(owner_user_id, flight_code, flight_id, passenger_name, seat_number, number_of_seats,
		 total_price, status, payment_status, payment_id, external_booking_id)
		VALUES ($1, $2, NULLIF($3, 0), $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''))
		RETURNING id, created_at, updated_at`,
		booking.OwnerUserID, booking.FlightCode, booking.FlightID, booking.PassengerName,
		booking.SeatNumber, booking.NumberOfSeats, booking.TotalPrice, booking.Status,
		booking.PaymentStatus, booking.PaymentID, booking.ExternalBookingID)
	return row.Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE external_booking_id=$1`, externalID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: external booking %s", domain.ErrNotFound, externalID)
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE owner_user_id=$1 ORDER BY id DESC`, ownerUserID)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id DESC`)
}

func (r *PGBookingRepository) ListImported(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE external_booking_id IS NOT NULL ORDER BY created_at DESC`)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET
		flight_code=$2, flight_id=NULLIF($3, 0), passenger_name=$4, seat_number=NULLIF($5, ''),
		number_of_seats=$6, total_price=$7, status=$8, payment_status=$9,
		payment_id=NULLIF($10, ''), external_booking_id=NULLIF($11, ''), updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		booking.ID, booking.FlightCode, booking.FlightID, booking.PassengerName,
		booking.SeatNumber, booking.NumberOfSeats, booking.TotalPrice, booking.Status,
		booking.PaymentStatus, booking.PaymentID, booking.ExternalBookingID)
	if err := row.Scan(&booking.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: booking %d", domain.ErrNotFound, booking.ID)
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
