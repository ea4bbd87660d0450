package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type confirmPaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type bookingResponse struct {
	ID                int64   `json:"id"`
	OwnerUserID       int64   `json:"owner_user_id"`
	FlightCode        string  `json:"flight_code"`
	FlightID          int64   `json:"flight_id,omitempty"`
	PassengerName     string  `json:"passenger_name"`
	SeatNumber        string  `json:"seat_number,omitempty"`
	NumberOfSeats     int     `json:"number_of_seats"`
	TotalPrice        float64 `json:"total_price"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"payment_status"`
	PaymentID         string  `json:"payment_id,omitempty"`
	ExternalBookingID string  `json:"external_booking_id,omitempty"`
	Source            string  `json:"source"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                b.ID,
		OwnerUserID:       b.OwnerUserID,
		FlightCode:        b.FlightCode,
		FlightID:          b.FlightID,
		PassengerName:     b.PassengerName,
		SeatNumber:        b.SeatNumber,
		NumberOfSeats:     b.NumberOfSeats,
		TotalPrice:        b.TotalPrice,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		PaymentID:         b.PaymentID,
		ExternalBookingID: b.ExternalBookingID,
		Source:            b.Source(),
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings", h.listAll)
	router.GET("/bookings/my", h.listMine)
	router.GET("/bookings/:id", h.get)
	router.PATCH("/bookings/:id/status", h.updateStatus)
	router.POST("/bookings/:id/payment", h.confirmPayment)
	router.POST("/bookings/sync/external/:externalBookingId", h.syncExternal)
	router.POST("/bookings/sync/travel-app/:bookingId", h.syncTravelApp)
	router.GET("/partner/bookings", h.partnerImported)
	router.GET("/partner/bookings/:externalBookingId", h.partnerByExternalID)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req, auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) listAll(c *gin.Context) {
	bookings, err := h.service.AllBookings(c.Request.Context(), auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.MyBookings(c.Request.Context(), auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	b, err := h.service.BookingByID(c.Request.Context(), id, auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.UpdateBookingStatus(c.Request.Context(), id, req.Status, auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) confirmPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req confirmPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	b, err := h.service.ConfirmPayment(c.Request.Context(), id, req.PaymentID, auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) syncExternal(c *gin.Context) {
	b, err := h.service.SyncExternalBooking(c.Request.Context(), c.Param("externalBookingId"), auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) syncTravelApp(c *gin.Context) {
	b, err := h.service.SyncTravelAppBooking(c.Request.Context(), c.Param("bookingId"), auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) partnerImported(c *gin.Context) {
	bookings, err := h.service.PartnerImportedBookings(c.Request.Context(), auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) partnerByExternalID(c *gin.Context) {
	b, err := h.service.PartnerBookingByExternalID(c.Request.Context(), c.Param("externalBookingId"), auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}
