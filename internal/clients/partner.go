package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
)

const BookingTypeFlight = "FLIGHT"

// ExternalBooking is a partner system's booking normalized to a common shape.
// Partner schemas are heterogeneous (flight and hotel bookings share one
// type); fields absent on the remote side stay empty.
type ExternalBooking struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Type          string `json:"type"`
	HotelName     string `json:"hotelName"`
	FlightCode    string `json:"flightCode"`
	PassengerName string `json:"passengerName"`
	Status        string `json:"status"`
}

// PartnerClient fetches bookings from one external booking system. The same
// client serves both partner integrations, configured with different base
// URLs.
type PartnerClient struct {
	baseURL string
	client  *http.Client
}

func NewPartnerClient(baseURL string, timeout time.Duration) *PartnerClient {
	return &PartnerClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// BookingByID fetches one booking. userID, when non-empty, is passed through
// the user-id header some partners use for scoping.
func (c *PartnerClient) BookingByID(ctx context.Context, id, userID string, cred auth.Credentials) (*ExternalBooking, error) {
	query := fmt.Sprintf(`query { bookingById(id: %q) { id userId type hotelName flightCode passengerName status } }`, id)

	var headers map[string]string
	if userID != "" {
		headers = map[string]string{"user-id": userID}
	}

	data, err := postQuery(ctx, c.client, c.baseURL, query, cred, headers)
	if err != nil {
		return nil, err
	}

	var out struct {
		BookingByID *ExternalBooking `json:"bookingById"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode booking: %v", domain.ErrRemoteUnavailable, err)
	}
	if out.BookingByID == nil {
		return nil, fmt.Errorf("%w: external booking %s", domain.ErrNotFound, id)
	}
	return out.BookingByID, nil
}
