package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/clients"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/payment"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput, caller auth.Caller) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string, caller auth.Caller) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID int64, paymentID string, caller auth.Caller) (*domain.Booking, error)
	SyncExternalBooking(ctx context.Context, externalBookingID string, caller auth.Caller) (*domain.Booking, error)
	SyncTravelAppBooking(ctx context.Context, bookingID string, caller auth.Caller) (*domain.Booking, error)
	BookingByID(ctx context.Context, id int64, caller auth.Caller) (*domain.Booking, error)
	MyBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error)
	AllBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error)
	PartnerImportedBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error)
	PartnerBookingByExternalID(ctx context.Context, externalBookingID string, caller auth.Caller) (*domain.Booking, error)
	ResyncImported(ctx context.Context, caller auth.Caller) ([]domain.Booking, error)
}

// ScheduleAPI is the slice of the schedule authority the orchestrator needs.
type ScheduleAPI interface {
	GetFlight(ctx context.Context, flightCode string, cred auth.Credentials) (*domain.Flight, error)
	ReserveSeats(ctx context.Context, flightCode string, seats int, cred auth.Credentials) (int, error)
	ReleaseSeats(ctx context.Context, flightCode string, seats int, cred auth.Credentials) (int, error)
}

type PartnerAPI interface {
	BookingByID(ctx context.Context, id, userID string, cred auth.Credentials) (*clients.ExternalBooking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Config carries the orchestration knobs: the shared partner secret, the
// sentinel owner for imported bookings, and the event topic.
type Config struct {
	PartnerAPIKey string
	ImportOwnerID int64
	EventsTopic   string
}

// BookingService coordinates the distributed write behind a booking: the
// local record and the seat reservation at the schedule authority. There is
// no shared transaction between the two; ordering and compensation rules live
// here and nowhere else.
type BookingService struct {
	bookings  repository.BookingRepository
	schedule  ScheduleAPI
	external  PartnerAPI
	travelApp PartnerAPI
	producer  Producer
	cfg       Config
}

type CreateBookingInput struct {
	FlightCode    string `json:"flight_code"`
	PassengerName string `json:"passenger_name"`
	NumberOfSeats int    `json:"number_of_seats"`
	SeatNumber    string `json:"seat_number"`
	PaymentID     string `json:"payment_id"`
}

func NewBookingService(
	bookings repository.BookingRepository,
	schedule ScheduleAPI,
	external PartnerAPI,
	travelApp PartnerAPI,
	producer Producer,
	cfg Config,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		schedule:  schedule,
		external:  external,
		travelApp: travelApp,
		producer:  producer,
		cfg:       cfg,
	}
}

// CreateBooking persists the local record first, then reserves seats at the
// authority. If the reservation fails the record is deleted again so no
// booking survives without a matching seat decrement. A crash between the two
// steps leaves an orphan row; that window is accepted, there is no durable
// intent log.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput, caller auth.Caller) (*domain.Booking, error) {
	if !caller.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}
	if input.FlightCode == "" {
		return nil, fmt.Errorf("%w: flight code is required", domain.ErrInvalidState)
	}
	if input.PassengerName == "" {
		return nil, fmt.Errorf("%w: passenger name is required", domain.ErrInvalidState)
	}
	if input.NumberOfSeats < 1 {
		return nil, fmt.Errorf("%w: number of seats must be at least 1", domain.ErrInvalidState)
	}

	flight, err := s.schedule.GetFlight(ctx, input.FlightCode, caller.Credentials())
	if err != nil {
		return nil, err
	}
	if !flight.IsActive() {
		return nil, fmt.Errorf("%w: flight %s is not active", domain.ErrInvalidState, input.FlightCode)
	}
	if flight.AvailableSeats < input.NumberOfSeats {
		return nil, fmt.Errorf("%w: flight %s has %d seats available, %d requested",
			domain.ErrInvalidState, input.FlightCode, flight.AvailableSeats, input.NumberOfSeats)
	}

	paymentID := payment.NormalizeID(input.PaymentID)

	b := &domain.Booking{
		OwnerUserID:   caller.UserID,
		FlightCode:    input.FlightCode,
		FlightID:      flight.ID,
		PassengerName: input.PassengerName,
		SeatNumber:    input.SeatNumber,
		NumberOfSeats: input.NumberOfSeats,
		TotalPrice:    flight.Price * float64(input.NumberOfSeats),
		Status:        domain.BookingStatusBooked,
		PaymentStatus: domain.PaymentStatusUnpaid,
		PaymentID:     paymentID,
	}
	if paymentID != "" {
		b.PaymentStatus = domain.PaymentStatusPaid
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	// Pre-paid bookings are confirmed locally before the remote call.
	if paymentID != "" {
		b.Status = domain.BookingStatusConfirmed
		if err := s.bookings.Update(ctx, b); err != nil {
			return nil, err
		}
	}

	if _, err := s.schedule.ReserveSeats(ctx, input.FlightCode, input.NumberOfSeats, caller.Credentials()); err != nil {
		s.compensate(ctx, b)
		return nil, err
	}

	s.publish(ctx, "booking_created", b)
	return b, nil
}

// compensate removes a just-created booking after the seat reservation
// failed. Best-effort: if the delete fails too, the orphan is logged, not
// hidden.
func (s *BookingService) compensate(ctx context.Context, b *domain.Booking) {
	if err := s.bookings.Delete(ctx, b.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"booking_id":  b.ID,
			"flight_code": b.FlightCode,
		}).Warnf("compensating delete failed, orphan booking left behind: %v", err)
	}
}

// UpdateBookingStatus overwrites the status with any member of the closed
// set. Transitions are not validated; CANCELLED back to CONFIRMED is legal.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int64, status string, caller auth.Caller) (*domain.Booking, error) {
	if !caller.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}

	parsed, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}

	b, err := s.accessibleBooking(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	b.Status = parsed
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_status_updated", b)
	return b, nil
}

// ConfirmPayment marks a booking paid and confirmed. Imported bookings (and
// bookings owned by the import owner) get a synthesized payment id when none
// exists; user bookings must supply one.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID int64, paymentID string, caller auth.Caller) (*domain.Booking, error) {
	if !caller.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}

	b, err := s.accessibleBooking(ctx, bookingID, caller)
	if err != nil {
		return nil, err
	}

	finalPaymentID := payment.NormalizeID(paymentID)
	if finalPaymentID == "" {
		finalPaymentID = payment.NormalizeID(b.PaymentID)
	}
	if finalPaymentID == "" {
		if !b.IsImported() && b.OwnerUserID != s.cfg.ImportOwnerID {
			return nil, domain.ErrPaymentIDRequired
		}
		finalPaymentID = payment.GenerateID()
	}

	b.PaymentID = finalPaymentID
	b.PaymentStatus = domain.PaymentStatusPaid
	b.Status = domain.BookingStatusConfirmed
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, "payment_confirmed", b)
	return b, nil
}

// SyncExternalBooking mirrors a booking from the external partner system.
// Idempotent by external id: a repeat call only refreshes the status. The
// fresh path creates a record-only mirror that holds no seats.
func (s *BookingService) SyncExternalBooking(ctx context.Context, externalBookingID string, caller auth.Caller) (*domain.Booking, error) {
	if !caller.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}

	ext, err := s.external.BookingByID(ctx, externalBookingID, strconv.FormatInt(caller.UserID, 10), caller.Credentials())
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.GetByExternalID(ctx, ext.ID)
	if err == nil {
		existing.Status = domain.NormalizePartnerStatus(ext.Status)
		if err := s.bookings.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.publish(ctx, "booking_synced", existing)
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	flightCode := ext.FlightCode
	if flightCode == "" {
		flightCode = "EXTERNAL"
	}

	b := &domain.Booking{
		OwnerUserID:       caller.UserID,
		FlightCode:        flightCode,
		PassengerName:     ext.PassengerName,
		NumberOfSeats:     1,
		TotalPrice:        0,
		Status:            domain.NormalizePartnerStatus(ext.Status),
		PaymentStatus:     domain.PaymentStatusUnpaid,
		ExternalBookingID: ext.ID,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_synced", b)
	return b, nil
}

// SyncTravelAppBooking imports a flight booking created in the travel app.
// Requires the shared partner secret, not end-user auth. Re-syncs reconcile
// status and payment state without touching inventory; a first-time import
// reserves exactly one seat with the same compensation rule as CreateBooking.
func (s *BookingService) SyncTravelAppBooking(ctx context.Context, bookingID string, caller auth.Caller) (*domain.Booking, error) {
	if !caller.IsPartner(s.cfg.PartnerAPIKey) {
		return nil, fmt.Errorf("%w: partner credential required", domain.ErrUnauthorized)
	}

	ext, err := s.travelApp.BookingByID(ctx, bookingID, "", caller.Credentials())
	if err != nil {
		return nil, err
	}

	extType := strings.ToUpper(ext.Type)
	if extType == "" {
		extType = clients.BookingTypeFlight
	}
	if extType != clients.BookingTypeFlight {
		return nil, fmt.Errorf("%w: only FLIGHT bookings can be synced, got %s", domain.ErrInvalidState, extType)
	}
	if ext.FlightCode == "" {
		return nil, fmt.Errorf("%w: travel app booking %s has no flight code", domain.ErrInvalidState, ext.ID)
	}

	existing, err := s.bookings.GetByExternalID(ctx, ext.ID)
	if err == nil {
		s.reconcileImported(existing, ext)
		if err := s.bookings.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.publish(ctx, "booking_synced", existing)
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	flight, err := s.schedule.GetFlight(ctx, ext.FlightCode, caller.Credentials())
	if err != nil {
		return nil, err
	}
	if !flight.IsActive() {
		return nil, fmt.Errorf("%w: flight %s is not active", domain.ErrInvalidState, ext.FlightCode)
	}
	if flight.AvailableSeats < 1 {
		return nil, fmt.Errorf("%w: flight %s has no seats available", domain.ErrInvalidState, ext.FlightCode)
	}

	passenger := ext.PassengerName
	if passenger == "" {
		passenger = "Traveler"
	}
	isPaid := strings.EqualFold(ext.Status, "PAID")

	b := &domain.Booking{
		OwnerUserID:       s.cfg.ImportOwnerID,
		FlightCode:        ext.FlightCode,
		FlightID:          flight.ID,
		PassengerName:     passenger,
		NumberOfSeats:     1,
		TotalPrice:        flight.Price,
		Status:            domain.NormalizePartnerStatus(ext.Status),
		PaymentStatus:     domain.PaymentStatusUnpaid,
		PaymentID:         payment.GenerateID(),
		ExternalBookingID: ext.ID,
	}
	if isPaid {
		b.PaymentStatus = domain.PaymentStatusPaid
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if _, err := s.schedule.ReserveSeats(ctx, ext.FlightCode, 1, caller.Credentials()); err != nil {
		s.compensate(ctx, b)
		return nil, err
	}

	s.publish(ctx, "booking_synced", b)
	return b, nil
}

// reconcileImported applies a partner's reported state onto an existing
// imported booking. PAID on the partner side means confirmed and paid here.
func (s *BookingService) reconcileImported(b *domain.Booking, ext *clients.ExternalBooking) {
	if strings.EqualFold(ext.Status, "PAID") {
		b.Status = domain.BookingStatusConfirmed
		b.PaymentStatus = domain.PaymentStatusPaid
	} else if ext.Status != "" {
		b.Status = domain.NormalizePartnerStatus(ext.Status)
	}
	if payment.NormalizeID(b.PaymentID) == "" {
		b.PaymentID = payment.GenerateID()
	}
}

func (s *BookingService) BookingByID(ctx context.Context, id int64, caller auth.Caller) (*domain.Booking, error) {
	if !caller.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}
	return s.accessibleBooking(ctx, id, caller)
}

func (s *BookingService) MyBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	if !caller.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}
	return s.bookings.ListByOwner(ctx, caller.UserID)
}

func (s *BookingService) AllBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	if !caller.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) PartnerImportedBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	if !caller.IsPartner(s.cfg.PartnerAPIKey) {
		return nil, fmt.Errorf("%w: partner credential required", domain.ErrUnauthorized)
	}
	return s.bookings.ListImported(ctx)
}

func (s *BookingService) PartnerBookingByExternalID(ctx context.Context, externalBookingID string, caller auth.Caller) (*domain.Booking, error) {
	if !caller.IsPartner(s.cfg.PartnerAPIKey) {
		return nil, fmt.Errorf("%w: partner credential required", domain.ErrUnauthorized)
	}
	return s.bookings.GetByExternalID(ctx, externalBookingID)
}

// ResyncImported re-runs the idempotent travel-app reconcile for every
// imported booking. This sweep is the only reconciliation in the system;
// per-booking failures are logged and skipped.
func (s *BookingService) ResyncImported(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	if !caller.IsPartner(s.cfg.PartnerAPIKey) {
		return nil, fmt.Errorf("%w: partner credential required", domain.ErrUnauthorized)
	}

	imported, err := s.bookings.ListImported(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]domain.Booking, 0, len(imported))
	for i := range imported {
		b := &imported[i]
		ext, err := s.travelApp.BookingByID(ctx, b.ExternalBookingID, "", caller.Credentials())
		if err != nil {
			logrus.WithField("external_booking_id", b.ExternalBookingID).Warnf("resync fetch failed: %v", err)
			continue
		}
		s.reconcileImported(b, ext)
		if err := s.bookings.Update(ctx, b); err != nil {
			logrus.WithField("booking_id", b.ID).Warnf("resync update failed: %v", err)
			continue
		}
		updated = append(updated, *b)
	}
	return updated, nil
}

// accessibleBooking loads a booking and applies the access policy. Callers
// that fail the policy see not-found, the same as a missing row.
func (s *BookingService) accessibleBooking(ctx context.Context, id int64, caller auth.Caller) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccess(b, caller, s.cfg.ImportOwnerID) {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return b, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.cfg.EventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:              eventType,
		BookingID:         b.ID,
		OwnerUserID:       b.OwnerUserID,
		FlightCode:        b.FlightCode,
		PassengerName:     b.PassengerName,
		NumberOfSeats:     b.NumberOfSeats,
		TotalPrice:        b.TotalPrice,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		Source:            b.Source(),
		ExternalBookingID: b.ExternalBookingID,
		OccurredAt:        time.Now(),
	}
	if err := s.producer.Publish(ctx, s.cfg.EventsTopic, strconv.FormatInt(b.ID, 10), event); err != nil {
		logrus.Warnf("failed to publish %s event for booking %d: %v", eventType, b.ID, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

var _ BookingUseCase = (*BookingService)(nil)
