package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/kafka"
)

// Sender is a notification stub; the real mail integration lives outside this
// service.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify %s: booking %d on flight %s (%d seats) is %s/%s\n",
		event.PassengerName, event.BookingID, event.FlightCode, event.NumberOfSeats, event.Status, event.PaymentStatus)
	return nil
}
