package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingStatus(t *testing.T) {
	testCases := []struct {
		raw      string
		expected BookingStatus
	}{
		{raw: "PENDING", expected: BookingStatusPending},
		{raw: "booked", expected: BookingStatusBooked},
		{raw: " Confirmed ", expected: BookingStatusConfirmed},
		{raw: "cancelled", expected: BookingStatusCancelled},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseBookingStatus(tc.raw)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseBookingStatus_Unknown(t *testing.T) {
	_, err := ParseBookingStatus("TELEPORTED")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = ParseBookingStatus("")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestNormalizePartnerStatus(t *testing.T) {
	assert.Equal(t, BookingStatusConfirmed, NormalizePartnerStatus("PAID"))
	assert.Equal(t, BookingStatusConfirmed, NormalizePartnerStatus("confirmed"))
	assert.Equal(t, BookingStatusCancelled, NormalizePartnerStatus("CANCELLED"))
	assert.Equal(t, BookingStatusPending, NormalizePartnerStatus("pending"))
	assert.Equal(t, BookingStatusBooked, NormalizePartnerStatus(""))
	assert.Equal(t, BookingStatusBooked, NormalizePartnerStatus("SOMETHING_ELSE"))
}

func TestBooking_Source(t *testing.T) {
	user := Booking{OwnerUserID: 7}
	assert.False(t, user.IsImported())
	assert.Equal(t, SourceUser, user.Source())

	imported := Booking{OwnerUserID: 7, ExternalBookingID: "ext-1"}
	assert.True(t, imported.IsImported())
	assert.Equal(t, SourceTravelApp, imported.Source())
}
