package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/clients"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// The worker consumes booking events for notifications and periodically
// re-syncs partner-imported bookings against the travel app.
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

	timeout := cfg.Services.RequestTimeout()
	scheduleClient := clients.NewScheduleClient(cfg.Services.ScheduleURL, timeout)
	externalClient := clients.NewPartnerClient(cfg.Services.ExternalBookingURL, timeout)
	travelAppClient := clients.NewPartnerClient(cfg.Services.TravelAppURL, timeout)

	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		scheduleClient,
		externalClient,
		travelAppClient,
		nil,
		booking.Config{
			PartnerAPIKey: cfg.Auth.PartnerAPIKey,
			ImportOwnerID: cfg.Booking.ImportOwnerID,
		},
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logrus.Warnf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logrus.Warnf("consumer stopped: %v", err)
		}
	}()

	sweepMinutes := cfg.Worker.SyncSweepMinutes
	if sweepMinutes <= 0 {
		sweepMinutes = 15
	}
	syncTicker := time.NewTicker(time.Duration(sweepMinutes) * time.Minute)
	defer syncTicker.Stop()

	// The sweep acts as the partner system itself, so it carries the shared
	// partner secret.
	partnerCaller := auth.Caller{APIKey: cfg.Auth.PartnerAPIKey}

	for {
		select {
		case <-syncTicker.C:
			updated, err := bookingService.ResyncImported(ctx, partnerCaller)
			if err != nil {
				logrus.Warnf("resync imported bookings: %v", err)
				continue
			}
			if len(updated) > 0 {
				logrus.Infof("resynced %d imported bookings", len(updated))
			}
		case <-ctx.Done():
			logrus.Info("shutting down")
			return
		}
	}
}
