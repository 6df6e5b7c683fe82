package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/padelpoint/booking-backend/internal/auth"
	"github.com/padelpoint/booking-backend/internal/booking"
	bookingHttp "github.com/padelpoint/booking-backend/internal/booking/http"
	"github.com/padelpoint/booking-backend/internal/contact"
	contactHttp "github.com/padelpoint/booking-backend/internal/contact/http"
	"github.com/padelpoint/booking-backend/internal/court"
	courtHttp "github.com/padelpoint/booking-backend/internal/court/http"
)

// Config carries everything the router needs to assemble middleware and
// register module routes.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	CourtCatalog   *court.Catalog
	BookingService booking.Service
	ContactService contact.Service

	AdminEmail        string
	AdminPasswordHash string
	PasswordHasher    auth.PasswordHasher
	JWTManager        *auth.JWTManager

	Logger zerolog.Logger
}

// NewRouter initializes the HTTP router engine: global middleware (logger,
// recovery, CORS), the admin auth middleware, and per-module routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	adminMiddleware := auth.AdminRequired(cfg.JWTManager)

	courtHandler := courtHttp.NewHandler(cfg.CourtCatalog)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Logger)
	contactHandler := contactHttp.NewHandler(cfg.ContactService)
	adminHandler := NewAdminHandler(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.PasswordHasher, cfg.JWTManager)

	v1 := r.Group("/v1")
	{
		courtHttp.RegisterRoutes(v1, courtHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler)
		contactHttp.RegisterRoutes(v1, contactHandler)

		v1.POST("/admin/login", adminHandler.Login)
		bookingHttp.RegisterAdminRoutes(v1, bookingHandler, adminMiddleware)
	}

	return r
}
