package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/:code", h.get)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.FlightByCode(c.Request.Context(), c.Param("code"), auth.CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
