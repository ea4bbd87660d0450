package flights

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
)

type FlightUseCase interface {
	FlightByCode(ctx context.Context, flightCode string, caller auth.Caller) (*domain.Flight, error)
}

type ScheduleAPI interface {
	GetFlight(ctx context.Context, flightCode string, cred auth.Credentials) (*domain.Flight, error)
}

type Cache interface {
	GetFlight(ctx context.Context, flightCode string) (*domain.Flight, error)
	SetFlight(ctx context.Context, flight *domain.Flight) error
}

// FlightService serves flight lookups on the read path, with a short-lived
// cache in front of the schedule authority. Booking flows bypass this service
// entirely so reservations always see the authority's current state.
type FlightService struct {
	schedule ScheduleAPI
	cache    Cache
}

func NewFlightService(schedule ScheduleAPI, cache Cache) *FlightService {
	return &FlightService{schedule: schedule, cache: cache}
}

func (s *FlightService) FlightByCode(ctx context.Context, flightCode string, caller auth.Caller) (*domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlight(ctx, flightCode); err == nil && cached != nil {
			return cached, nil
		}
	}

	flight, err := s.schedule.GetFlight(ctx, flightCode, caller.Credentials())
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlight(ctx, flight)
	}
	return flight, nil
}

var _ FlightUseCase = (*FlightService)(nil)
