package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) error {
	router := NewRouter(cfg, flightSvc, bookingSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine: recovery, CORS, identity resolution,
// then the booking and flight routes under /api/v1.
func NewRouter(cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(auth.Middleware(cfg.Auth.JWTSecret))

	v1 := router.Group("/api/v1")
	api.NewBookingHandler(bookingSvc).Register(v1)
	api.NewFlightHandler(flightSvc).Register(v1)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
