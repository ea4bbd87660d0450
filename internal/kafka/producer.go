package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the notification payload published after booking mutations.
// Events are informational only; no write depends on their delivery.
type BookingEvent struct {
	Type              string    `json:"type"`
	BookingID         int64     `json:"booking_id"`
	OwnerUserID       int64     `json:"owner_user_id"`
	FlightCode        string    `json:"flight_code"`
	PassengerName     string    `json:"passenger_name"`
	NumberOfSeats     int       `json:"number_of_seats"`
	TotalPrice        float64   `json:"total_price"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	Source            string    `json:"source"`
	ExternalBookingID string    `json:"external_booking_id,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
