package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/api"
	"github.com/eventsfp/booking-backend/internal/auth"
	"github.com/eventsfp/booking-backend/internal/availability"
	"github.com/eventsfp/booking-backend/internal/booking"
	"github.com/eventsfp/booking-backend/internal/calendarfeed"
	"github.com/eventsfp/booking-backend/internal/cart"
	"github.com/eventsfp/booking-backend/internal/checkin"
	"github.com/eventsfp/booking-backend/internal/cron"
	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/media"
	"github.com/eventsfp/booking-backend/internal/notify"
	"github.com/eventsfp/booking-backend/internal/pkg/storage"
	"github.com/eventsfp/booking-backend/internal/pricing"
	"github.com/eventsfp/booking-backend/internal/reservation"
	"github.com/eventsfp/booking-backend/internal/resource"
	"github.com/eventsfp/booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the
// application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	DBPool      *pgxpool.Pool
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	Logger      *zap.Logger

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	StorageBasePath   string
	PendingHoldWindow time.Duration
	CheckinTokenTTL   time.Duration
	QRServiceURL      string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	Worker     *notify.Worker
	Scheduler  *cron.Scheduler
	JWTManager *auth.JWTManager
}

// bookingStats joins the booking repository and the Redis view counter into
// the signal source consumed by the pricing evaluator.
type bookingStats struct {
	bookings booking.Repository
	views    *event.ViewCounter
}

func (s *bookingStats) BookingsCreatedSince(ctx context.Context, eventID string, since time.Time) (int, error) {
	return s.bookings.BookingsCreatedSince(ctx, eventID, since)
}

func (s *bookingStats) ParticipantsForDay(ctx context.Context, eventID string, day time.Time) (int, error) {
	return s.bookings.ParticipantsForDay(ctx, eventID, day)
}

func (s *bookingStats) CustomerBookingCount(ctx context.Context, userID string) (int, error) {
	return s.bookings.CustomerBookingCount(ctx, userID)
}

func (s *bookingStats) ViewsLastDays(ctx context.Context, eventID string, days int) (int, error) {
	return s.views.CountLastDays(ctx, eventID, days)
}

// checkinBookings narrows the booking module to what token redemption needs.
type checkinBookings struct {
	repo    booking.Repository
	service booking.Service
}

func (c *checkinBookings) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	return c.repo.GetByID(ctx, id)
}

func (c *checkinBookings) MarkCheckedIn(ctx context.Context, id string) error {
	return c.service.MarkCheckedIn(ctx, id)
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	localStorage, err := storage.NewLocalStorage(cfg.StorageBasePath)
	if err != nil {
		return nil, err
	}

	notifyClient := notify.NewClient(cfg.AsynqClient, cfg.Logger)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Event module
	eventRepo := event.NewPgxRepository(cfg.DBPool)
	viewCounter := event.NewViewCounter(cfg.RedisClient)
	eventService := event.NewService(eventRepo, viewCounter, cfg.Logger)

	// Resource module
	resourceRepo := resource.NewPgxRepository(cfg.DBPool)
	resourceService := resource.NewService(resourceRepo)

	// Reservation and booking modules
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool, reservationRepo, cfg.PendingHoldWindow)

	// Pricing module
	pricingRepo := pricing.NewPgxRepository(cfg.DBPool)
	stats := &bookingStats{bookings: bookingRepo, views: viewCounter}
	pricingService := pricing.NewService(pricingRepo, stats, cfg.Logger)

	bookingService := booking.NewService(
		bookingRepo, eventService, resourceService, pricingService,
		userService, notifyClient, cfg.Logger,
	)

	// Availability checker
	checker := availability.NewChecker(eventService, resourceService, reservationRepo, bookingRepo)

	// Cart quotes
	cartService := cart.NewService(eventService, pricingService)

	// Check-in module
	checkinRepo := checkin.NewPgxRepository(cfg.DBPool)
	checkinService := checkin.NewService(
		checkinRepo,
		&checkinBookings{repo: bookingRepo, service: bookingService},
		userService, notifyClient, cfg.CheckinTokenTTL, cfg.Logger,
	)
	qrProvider := checkin.NewQRProvider(cfg.QRServiceURL, cfg.Logger)

	// Calendar feeds
	feedRepo := calendarfeed.NewPgxRepository(cfg.DBPool)
	feedService := calendarfeed.NewService(feedRepo, bookingService, cfg.Logger)

	// Media module
	mediaRepo := media.NewPgxRepository(cfg.DBPool)
	mediaService := media.NewService(mediaRepo, localStorage, cfg.Logger)

	// Background components
	worker := notify.NewWorker(bookingRepo, cfg.Logger)
	scheduler, err := cron.NewScheduler(checkinService, feedService, cfg.Logger)
	if err != nil {
		return nil, err
	}

	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		UserService:     userService,
		EventService:    eventService,
		ResourceService: resourceService,
		BookingService:  bookingService,
		PricingService:  pricingService,
		CartService:     cartService,
		CheckinService:  checkinService,
		FeedService:     feedService,
		MediaService:    mediaService,
		Checker:         checker,
		QRProvider:      qrProvider,
		JWTManager:      jwtManager,
	})

	return &Container{
		Router:     router,
		Worker:     worker,
		Scheduler:  scheduler,
		JWTManager: jwtManager,
	}, nil
}
