package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/clients"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	timeout := cfg.Services.RequestTimeout()
	scheduleClient := clients.NewScheduleClient(cfg.Services.ScheduleURL, timeout)
	externalClient := clients.NewPartnerClient(cfg.Services.ExternalBookingURL, timeout)
	travelAppClient := clients.NewPartnerClient(cfg.Services.TravelAppURL, timeout)

	bookingRepo := repository.NewBookingRepository(pool)
	flightService := flights.NewFlightService(scheduleClient, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		scheduleClient,
		externalClient,
		travelAppClient,
		producer,
		booking.Config{
			PartnerAPIKey: cfg.Auth.PartnerAPIKey,
			ImportOwnerID: cfg.Booking.ImportOwnerID,
			EventsTopic:   cfg.Kafka.BookingEventsTopic,
		},
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
