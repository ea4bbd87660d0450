package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy onto HTTP statuses, preserving
// the message (including forwarded remote diagnostics) in the body.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPaymentIDRequired):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRemoteUnavailable), errors.Is(err, domain.ErrRemoteRejected):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
