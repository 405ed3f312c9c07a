package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tripwripp/booking-backend/internal/auth"
	"github.com/tripwripp/booking-backend/internal/gallery"
	galleryHttp "github.com/tripwripp/booking-backend/internal/gallery/http"
	"github.com/tripwripp/booking-backend/internal/reservation"
	reservationHttp "github.com/tripwripp/booking-backend/internal/reservation/http"
	"github.com/tripwripp/booking-backend/internal/trip"
	tripHttp "github.com/tripwripp/booking-backend/internal/trip/http"
)

// Config holds the dependencies and settings required to build the router.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	TripService        trip.Service
	ReservationService reservation.Service
	GalleryService     gallery.Service
	ReservationHandler *reservationHttp.Handler
	JWTManager         *auth.JWTManager
	RateLimitRPS       float64
	RateLimitBurst     int
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, ops auth, rate limiting) and
// registers routes for the catalog, booking, and gallery modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsCfg := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsCfg.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsCfg.AllowOrigins = []string{
			"http://localhost:3000", // Next.js dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	// opsMiddleware: Validates if the request carries a valid ops JWT.
	opsMiddleware := auth.OpsRequired(cfg.JWTManager)
	// writeLimiter: Throttles reservation writes per client address.
	writeLimiter := RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Initialize HTTP handlers for each module (injecting service dependencies).
	tripHandler := tripHttp.NewHandler(cfg.TripService)
	galleryHandler := galleryHttp.NewHandler(cfg.GalleryService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		tripHttp.RegisterRoutes(v1, tripHandler, opsMiddleware)
		reservationHttp.RegisterRoutes(v1, cfg.ReservationHandler, opsMiddleware, writeLimiter)
		galleryHttp.RegisterRoutes(v1, galleryHandler, opsMiddleware)
	}

	return r
}
