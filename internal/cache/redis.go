package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps short-lived flight snapshots for the read path. Booking
// flows never read from here; the schedule authority stays authoritative.
type RedisCache struct {
	client    *redis.Client
	flightTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightTTL: flightTTL,
	}
}

func (c *RedisCache) GetFlight(ctx context.Context, flightCode string) (*domain.Flight, error) {
	data, err := c.client.Get(ctx, flightKey(flightCode)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flight domain.Flight
	if err := json.Unmarshal(data, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *RedisCache) SetFlight(ctx context.Context, flight *domain.Flight) error {
	payload, err := json.Marshal(flight)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightKey(flight.FlightCode), payload, c.flightTTL).Err()
}

func flightKey(flightCode string) string {
	return fmt.Sprintf("cache:flight:%s", flightCode)
}
