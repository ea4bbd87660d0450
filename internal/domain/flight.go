package domain

const FlightStatusActive = "ACTIVE"

// Flight is a snapshot of a schedule entry as reported by the flight schedule
// authority. The authority owns seat-capacity truth; a snapshot may be stale
// by the time a reservation is attempted.
type Flight struct {
	ID             int64   `json:"id"`
	FlightCode     string  `json:"flightCode"`
	Price          float64 `json:"price"`
	TotalSeats     int     `json:"totalSeats"`
	AvailableSeats int     `json:"availableSeats"`
	Status         string  `json:"status"`
}

func (f *Flight) IsActive() bool {
	return f.Status == FlightStatusActive
}
