package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripwripp/booking-backend/internal/api"
	"github.com/tripwripp/booking-backend/internal/auth"
	"github.com/tripwripp/booking-backend/internal/gallery"
	"github.com/tripwripp/booking-backend/internal/ledger"
	"github.com/tripwripp/booking-backend/internal/pkg/storage"
	"github.com/tripwripp/booking-backend/internal/reservation"
	reservationHttp "github.com/tripwripp/booking-backend/internal/reservation/http"
	"github.com/tripwripp/booking-backend/internal/trip"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	// DBPool selects the storage backend: nil wires the in-memory stores
	// (dev mode and tests), non-nil wires Postgres.
	DBPool *pgxpool.Pool

	OpsJWTSecret   string
	OpsTokenTTL    time.Duration
	HoldTTLDefault time.Duration
	HoldTTLMax     time.Duration
	StoragePath    string
	RateLimitRPS   float64
	RateLimitBurst int

	// Clock overrides the reservation service's time source; nil keeps
	// the real clock.
	Clock func() time.Time
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router             *gin.Engine
	JWTManager         *auth.JWTManager
	TripService        trip.Service
	ReservationService reservation.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	jwtManager := auth.NewJWTManager(cfg.OpsJWTSecret, cfg.OpsTokenTTL)

	// Storage backends
	var (
		slotLedger      ledger.Ledger
		tripRepo        trip.Repository
		reservationRepo reservation.Repository
		galleryRepo     gallery.Repository
	)
	if cfg.DBPool != nil {
		slotLedger = ledger.NewPgxLedger(cfg.DBPool)
		tripRepo = trip.NewPgxRepository(cfg.DBPool)
		reservationRepo = reservation.NewPgxRepository(cfg.DBPool)
		galleryRepo = gallery.NewPgxRepository(cfg.DBPool)
	} else {
		slotLedger = ledger.NewMemoryLedger()
		tripRepo = trip.NewMemoryRepository()
		reservationRepo = reservation.NewMemoryRepository()
		galleryRepo = gallery.NewMemoryRepository()
	}

	// Trip Catalog Module
	tripService := trip.NewService(tripRepo, slotLedger)

	// Reservation Module
	var opts []reservation.Option
	if cfg.Clock != nil {
		opts = append(opts, reservation.WithClock(cfg.Clock))
	}
	reservationService := reservation.NewService(reservationRepo, slotLedger, tripService, opts...)
	reservationHandler := reservationHttp.NewHandler(reservationService, cfg.HoldTTLDefault, cfg.HoldTTLMax)

	// Gallery Module
	fileStore, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	galleryService := gallery.NewService(galleryRepo, tripService, fileStore)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		TripService:        tripService,
		ReservationService: reservationService,
		GalleryService:     galleryService,
		ReservationHandler: reservationHandler,
		JWTManager:         jwtManager,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	return &Container{
		Router:             router,
		JWTManager:         jwtManager,
		TripService:        tripService,
		ReservationService: reservationService,
	}, nil
}
