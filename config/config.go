package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Services ServicesConfig `yaml:"services"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	PartnerAPIKey string `yaml:"partner_api_key"`
}

// ServicesConfig holds the base URLs of the remote collaborators: the flight
// schedule authority that owns seat inventory and the two partner booking systems.
type ServicesConfig struct {
	ScheduleURL        string `yaml:"schedule_url"`
	ExternalBookingURL string `yaml:"external_booking_url"`
	TravelAppURL       string `yaml:"travel_app_url"`
	RequestTimeoutSec  int    `yaml:"request_timeout_seconds"`
}

func (s ServicesConfig) RequestTimeout() time.Duration {
	if s.RequestTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

type BookingConfig struct {
	// ImportOwnerID owns bookings materialized from partner imports
	// rather than created by a registered user.
	ImportOwnerID   int64 `yaml:"import_owner_id"`
	FlightsCacheTTL int   `yaml:"flights_cache_ttl_seconds"`
}

type WorkerConfig struct {
	SyncSweepMinutes int `yaml:"sync_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
