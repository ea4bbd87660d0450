package domain

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

const (
	SourceUser      = "USER"
	SourceTravelApp = "TRAVEL_APP"
)

// ParseBookingStatus validates a caller-supplied status string against the
// closed set. Matching is case-insensitive.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	switch BookingStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case BookingStatusPending:
		return BookingStatusPending, nil
	case BookingStatusBooked:
		return BookingStatusBooked, nil
	case BookingStatusConfirmed:
		return BookingStatusConfirmed, nil
	case BookingStatusCancelled:
		return BookingStatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidState, raw)
	}
}

// NormalizePartnerStatus folds a partner system's free-form status into the
// closed set. Partners report PAID as a booking status; locally that means the
// booking is confirmed.
func NormalizePartnerStatus(raw string) BookingStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PAID", "CONFIRMED":
		return BookingStatusConfirmed
	case "CANCELLED":
		return BookingStatusCancelled
	case "PENDING":
		return BookingStatusPending
	default:
		return BookingStatusBooked
	}
}

// Booking is the local record of a seat reservation. A booking either belongs
// to a registered user or mirrors a record from a partner system, in which
// case ExternalBookingID is set and at most one booking exists per external id.
type Booking struct {
	ID                int64
	OwnerUserID       int64
	FlightCode        string
	FlightID          int64
	PassengerName     string
	SeatNumber        string
	NumberOfSeats     int
	TotalPrice        float64
	Status            BookingStatus
	PaymentStatus     PaymentStatus
	PaymentID         string
	ExternalBookingID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (b *Booking) IsImported() bool {
	return b.ExternalBookingID != ""
}

// Source is derived, not stored.
func (b *Booking) Source() string {
	if b.IsImported() {
		return SourceTravelApp
	}
	return SourceUser
}
