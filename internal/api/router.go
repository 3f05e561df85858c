package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eventsfp/booking-backend/internal/auth"
	"github.com/eventsfp/booking-backend/internal/availability"
	availabilityHttp "github.com/eventsfp/booking-backend/internal/availability/http"
	"github.com/eventsfp/booking-backend/internal/booking"
	bookingHttp "github.com/eventsfp/booking-backend/internal/booking/http"
	"github.com/eventsfp/booking-backend/internal/calendarfeed"
	calendarfeedHttp "github.com/eventsfp/booking-backend/internal/calendarfeed/http"
	"github.com/eventsfp/booking-backend/internal/cart"
	cartHttp "github.com/eventsfp/booking-backend/internal/cart/http"
	"github.com/eventsfp/booking-backend/internal/checkin"
	checkinHttp "github.com/eventsfp/booking-backend/internal/checkin/http"
	"github.com/eventsfp/booking-backend/internal/event"
	eventHttp "github.com/eventsfp/booking-backend/internal/event/http"
	exportHttp "github.com/eventsfp/booking-backend/internal/export/http"
	"github.com/eventsfp/booking-backend/internal/media"
	mediaHttp "github.com/eventsfp/booking-backend/internal/media/http"
	"github.com/eventsfp/booking-backend/internal/pricing"
	pricingHttp "github.com/eventsfp/booking-backend/internal/pricing/http"
	"github.com/eventsfp/booking-backend/internal/resource"
	resourceHttp "github.com/eventsfp/booking-backend/internal/resource/http"
	"github.com/eventsfp/booking-backend/internal/user"
	userHttp "github.com/eventsfp/booking-backend/internal/user/http"
)

// Config carries everything the router needs to assemble middleware and
// register module routes.
type Config struct {
	IsProduction bool
	// ProdOrigins is a comma-separated list of allowed CORS origins in
	// production.
	ProdOrigins string

	UserService     user.Service
	EventService    event.Service
	ResourceService resource.Service
	BookingService  booking.Service
	PricingService  pricing.Service
	CartService     cart.Service
	CheckinService  checkin.Service
	FeedService     calendarfeed.Service
	MediaService    media.Service
	Checker         *availability.Checker
	QRProvider      *checkin.QRProvider

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware (CORS, logging, recovery, auth) and
// registers every module's routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := RequireAdmin(cfg.UserService)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	eventHandler := eventHttp.NewHandler(cfg.EventService)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.Checker)
	pricingHandler := pricingHttp.NewHandler(cfg.PricingService, cfg.EventService)
	cartHandler := cartHttp.NewHandler(cfg.CartService)
	checkinHandler := checkinHttp.NewHandler(cfg.CheckinService, cfg.QRProvider)
	feedHandler := calendarfeedHttp.NewHandler(cfg.FeedService)
	exportHandler := exportHttp.NewHandler(cfg.BookingService)
	mediaHandler := mediaHttp.NewHandler(cfg.MediaService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		eventHttp.RegisterRoutes(v1, eventHandler, authMiddleware, adminMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler)
		pricingHttp.RegisterRoutes(v1, pricingHandler, authMiddleware, adminMiddleware)
		cartHttp.RegisterRoutes(v1, cartHandler)
		checkinHttp.RegisterRoutes(v1, checkinHandler, authMiddleware, adminMiddleware)
		calendarfeedHttp.RegisterRoutes(v1, feedHandler, authMiddleware, adminMiddleware)
		exportHttp.RegisterRoutes(v1, exportHandler, authMiddleware, adminMiddleware)
		mediaHttp.RegisterRoutes(v1, mediaHandler, authMiddleware, adminMiddleware)
	}

	return r
}
