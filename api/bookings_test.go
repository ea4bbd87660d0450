package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input booking.CreateBookingInput, caller auth.Caller) (*domain.Booking, error) {
	args := m.Called(ctx, input, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, id int64, status string, caller auth.Caller) (*domain.Booking, error) {
	args := m.Called(ctx, id, status, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) ConfirmPayment(ctx context.Context, bookingID int64, paymentID string, caller auth.Caller) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, paymentID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) SyncExternalBooking(ctx context.Context, externalBookingID string, caller auth.Caller) (*domain.Booking, error) {
	args := m.Called(ctx, externalBookingID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) SyncTravelAppBooking(ctx context.Context, bookingID string, caller auth.Caller) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) BookingByID(ctx context.Context, id int64, caller auth.Caller) (*domain.Booking, error) {
	args := m.Called(ctx, id, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) MyBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingService) AllBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingService) PartnerImportedBookings(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingService) PartnerBookingByExternalID(ctx context.Context, externalBookingID string, caller auth.Caller) (*domain.Booking, error) {
	args := m.Called(ctx, externalBookingID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) ResyncImported(ctx context.Context, caller auth.Caller) ([]domain.Booking, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

var _ booking.BookingUseCase = (*MockBookingService)(nil)

var testCaller = auth.Caller{UserID: 7, Role: "USER", IsAuthenticated: true}

// testRouter wires the handler behind a middleware that injects a fixed
// caller, standing in for the JWT middleware.
func testRouter(service booking.BookingUseCase, caller auth.Caller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		auth.SetCaller(c, caller)
		c.Next()
	})
	NewBookingHandler(service).Register(router.Group("/api/v1"))
	return router
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookingHandler_Create(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	input := booking.CreateBookingInput{FlightCode: "FL100", PassengerName: "Alice", NumberOfSeats: 2}
	created := &domain.Booking{
		ID: 1, OwnerUserID: 7, FlightCode: "FL100", PassengerName: "Alice",
		NumberOfSeats: 2, TotalPrice: 200,
		Status: domain.BookingStatusBooked, PaymentStatus: domain.PaymentStatusUnpaid,
	}
	mockService.On("CreateBooking", mock.Anything, input, testCaller).Return(created, nil).Once()

	w := performJSON(router, http.MethodPost, "/api/v1/bookings", input)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "FL100", resp.FlightCode)
	assert.Equal(t, 200.0, resp.TotalPrice)
	assert.Equal(t, "BOOKED", resp.Status)
	assert.Equal(t, "USER", resp.Source)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_Create_MalformedBody(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_Get_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "unauthorized", err: domain.ErrUnauthorized, expected: http.StatusUnauthorized},
		{name: "not found", err: fmt.Errorf("%w: booking 5", domain.ErrNotFound), expected: http.StatusNotFound},
		{name: "invalid state", err: fmt.Errorf("%w: bad", domain.ErrInvalidState), expected: http.StatusConflict},
		{name: "remote unavailable", err: fmt.Errorf("%w: timeout", domain.ErrRemoteUnavailable), expected: http.StatusBadGateway},
		{name: "remote rejected", err: fmt.Errorf("%w: nope", domain.ErrRemoteRejected), expected: http.StatusBadGateway},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingService{}
			router := testRouter(mockService, testCaller)
			mockService.On("BookingByID", mock.Anything, int64(5), testCaller).Return(nil, tc.err).Once()

			w := performJSON(router, http.MethodGet, "/api/v1/bookings/5", nil)

			assert.Equal(t, tc.expected, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestBookingHandler_Get_InvalidID(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	w := performJSON(router, http.MethodGet, "/api/v1/bookings/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "BookingByID")
}

func TestBookingHandler_UpdateStatus(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	updated := &domain.Booking{ID: 5, OwnerUserID: 7, FlightCode: "FL100", Status: domain.BookingStatusCancelled}
	mockService.On("UpdateBookingStatus", mock.Anything, int64(5), "CANCELLED", testCaller).Return(updated, nil).Once()

	w := performJSON(router, http.MethodPatch, "/api/v1/bookings/5/status", updateStatusRequest{Status: "CANCELLED"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_ConfirmPayment_WithBody(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	confirmed := &domain.Booking{ID: 5, OwnerUserID: 7, PaymentID: "PAY-123", Status: domain.BookingStatusConfirmed, PaymentStatus: domain.PaymentStatusPaid}
	mockService.On("ConfirmPayment", mock.Anything, int64(5), "PAY-123", testCaller).Return(confirmed, nil).Once()

	w := performJSON(router, http.MethodPost, "/api/v1/bookings/5/payment", confirmPaymentRequest{PaymentID: "PAY-123"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAY-123", resp.PaymentID)
	assert.Equal(t, "PAID", resp.PaymentStatus)
}

// The payment body is optional; an empty request means "use what the booking
// already has or synthesize".
func TestBookingHandler_ConfirmPayment_EmptyBody(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	confirmed := &domain.Booking{ID: 5, OwnerUserID: 7, PaymentID: "PAY-GEN", Status: domain.BookingStatusConfirmed, PaymentStatus: domain.PaymentStatusPaid}
	mockService.On("ConfirmPayment", mock.Anything, int64(5), "", testCaller).Return(confirmed, nil).Once()

	w := performJSON(router, http.MethodPost, "/api/v1/bookings/5/payment", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_ConfirmPayment_Required(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	mockService.On("ConfirmPayment", mock.Anything, int64(5), "", testCaller).
		Return(nil, domain.ErrPaymentIDRequired).Once()

	w := performJSON(router, http.MethodPost, "/api/v1/bookings/5/payment", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_SyncExternal(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	mirror := &domain.Booking{ID: 9, OwnerUserID: 7, FlightCode: "EXTERNAL", ExternalBookingID: "ext-1", Status: domain.BookingStatusBooked}
	mockService.On("SyncExternalBooking", mock.Anything, "ext-1", testCaller).Return(mirror, nil).Once()

	w := performJSON(router, http.MethodPost, "/api/v1/bookings/sync/external/ext-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ext-1", resp.ExternalBookingID)
	assert.Equal(t, "TRAVEL_APP", resp.Source)
}

func TestBookingHandler_SyncTravelApp_Unauthorized(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, auth.Caller{})

	mockService.On("SyncTravelAppBooking", mock.Anything, "ta-1", auth.Caller{}).
		Return(nil, fmt.Errorf("%w: partner credential required", domain.ErrUnauthorized)).Once()

	w := performJSON(router, http.MethodPost, "/api/v1/bookings/sync/travel-app/ta-1", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_ListMine(t *testing.T) {
	mockService := &MockBookingService{}
	router := testRouter(mockService, testCaller)

	bookings := []domain.Booking{
		{ID: 2, OwnerUserID: 7, FlightCode: "FL100"},
		{ID: 1, OwnerUserID: 7, FlightCode: "FL200"},
	}
	mockService.On("MyBookings", mock.Anything, testCaller).Return(bookings, nil).Once()

	w := performJSON(router, http.MethodGet, "/api/v1/bookings/my", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(2), resp[0].ID)
}

func TestBookingHandler_PartnerImported(t *testing.T) {
	mockService := &MockBookingService{}
	partner := auth.Caller{APIKey: "partner-secret"}
	router := testRouter(mockService, partner)

	bookings := []domain.Booking{{ID: 3, ExternalBookingID: "ta-1"}}
	mockService.On("PartnerImportedBookings", mock.Anything, partner).Return(bookings, nil).Once()

	w := performJSON(router, http.MethodGet, "/api/v1/partner/bookings", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "ta-1", resp[0].ExternalBookingID)
}
