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

// ScheduleClient talks to the flight schedule authority, the single source of
// truth for seat capacity. Reservation calls are never retried here: a failure
// is terminal for the booking attempt and the caller compensates.
type ScheduleClient struct {
	baseURL string
	client  *http.Client
}

func NewScheduleClient(baseURL string, timeout time.Duration) *ScheduleClient {
	return &ScheduleClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type flightPayload struct {
	ID             json.Number `json:"id"`
	FlightCode     string      `json:"flightCode"`
	Price          float64     `json:"price"`
	TotalSeats     int         `json:"totalSeats"`
	AvailableSeats int         `json:"availableSeats"`
	Status         string      `json:"status"`
}

func (p *flightPayload) toDomain() *domain.Flight {
	id, _ := p.ID.Int64()
	return &domain.Flight{
		ID:             id,
		FlightCode:     p.FlightCode,
		Price:          p.Price,
		TotalSeats:     p.TotalSeats,
		AvailableSeats: p.AvailableSeats,
		Status:         p.Status,
	}
}

func (c *ScheduleClient) GetFlight(ctx context.Context, flightCode string, cred auth.Credentials) (*domain.Flight, error) {
	query := fmt.Sprintf(`query { flightByCode(flightCode: %q) { id flightCode price totalSeats availableSeats status } }`, flightCode)

	data, err := postQuery(ctx, c.client, c.baseURL, query, cred, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		FlightByCode *flightPayload `json:"flightByCode"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode flight: %v", domain.ErrRemoteUnavailable, err)
	}
	if out.FlightByCode == nil {
		return nil, fmt.Errorf("%w: flight %s", domain.ErrNotFound, flightCode)
	}
	return out.FlightByCode.toDomain(), nil
}

// ReserveSeats decrements available seats at the authority and returns the
// remaining count. The authority rejects the call when capacity is exhausted.
func (c *ScheduleClient) ReserveSeats(ctx context.Context, flightCode string, seats int, cred auth.Credentials) (int, error) {
	query := fmt.Sprintf(`mutation { decreaseAvailableSeats(flightCode: %q, seats: %d) { id availableSeats } }`, flightCode, seats)
	return c.adjustSeats(ctx, query, "decreaseAvailableSeats", cred)
}

// ReleaseSeats increments available seats; the authority caps the count at
// the flight's total seats.
func (c *ScheduleClient) ReleaseSeats(ctx context.Context, flightCode string, seats int, cred auth.Credentials) (int, error) {
	query := fmt.Sprintf(`mutation { increaseAvailableSeats(flightCode: %q, seats: %d) { id availableSeats } }`, flightCode, seats)
	return c.adjustSeats(ctx, query, "increaseAvailableSeats", cred)
}

func (c *ScheduleClient) adjustSeats(ctx context.Context, query, field string, cred auth.Credentials) (int, error) {
	data, err := postQuery(ctx, c.client, c.baseURL, query, cred, nil)
	if err != nil {
		return 0, err
	}

	var out map[string]*struct {
		AvailableSeats int `json:"availableSeats"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("%w: decode seats: %v", domain.ErrRemoteUnavailable, err)
	}
	payload := out[field]
	if payload == nil {
		return 0, fmt.Errorf("%w: empty %s response", domain.ErrRemoteRejected, field)
	}
	return payload.AvailableSeats, nil
}
