package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/padelpoint/booking-backend/internal/api"
	"github.com/padelpoint/booking-backend/internal/auth"
	"github.com/padelpoint/booking-backend/internal/booking"
	"github.com/padelpoint/booking-backend/internal/contact"
	"github.com/padelpoint/booking-backend/internal/court"
	"github.com/padelpoint/booking-backend/internal/notify"
	"github.com/padelpoint/booking-backend/internal/pkg/cache"
	"github.com/padelpoint/booking-backend/internal/slot"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	DBPool *pgxpool.Pool
	Cache  cache.Cache   // optional
	Mailer notify.Mailer // optional, defaults to NoopMailer

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	AdminEmail        string
	AdminPasswordHash string

	Window slot.Window

	Logger zerolog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	mailer := cfg.Mailer
	if mailer == nil {
		mailer = notify.NoopMailer{}
	}

	window := cfg.Window
	if window == (slot.Window{}) {
		window = slot.DefaultWindow
	}

	// Court module: static catalog, no persistence.
	catalog := court.NewCatalog(court.DefaultCourts)

	// Booking module.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, catalog, window, mailer, cfg.Cache, cfg.Logger)

	// Contact module.
	contactService := contact.NewService(mailer)

	router := api.NewRouter(api.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		CourtCatalog:      catalog,
		BookingService:    bookingService,
		ContactService:    contactService,
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
		PasswordHasher:    passwordHasher,
		JWTManager:        jwtManager,
		Logger:            cfg.Logger,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
