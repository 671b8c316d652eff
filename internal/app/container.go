package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// BookingPolicy maps the configured rule variants onto the booking engine.
func BookingPolicy(cfg config.BookingConfig) booking.Policy {
	return booking.Policy{
		ForbidSelfBooking:  cfg.ForbidSelfBooking,
		ForbidPastStart:    cfg.ForbidPastStart,
		PastStartTolerance: cfg.PastStartTolerance,
		AllowReapproval:    cfg.AllowReapproval,
		WaitingOccupies:    cfg.WaitingOccupies,
	}
}

// NewContainer initializes all modules and returns the container.
// redisClient may be nil, in which case booking summaries are not cached.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, logger zerolog.Logger) (*Container, error) {
	// Init Components
	clk := clock.NewRealClock()
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init photo storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher, clk)

	// Item Module
	itemRepo := item.NewPgxRepository(pool)
	itemService := item.NewService(itemRepo, userService)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(pool)
	summaryCache := booking.NewRedisSummaryCache(redisClient, cfg.Redis.TTL)
	bookingService := booking.NewService(
		bookingRepo, itemService, userService, summaryCache, clk, BookingPolicy(cfg.Booking), logger,
	)

	// Comment Module
	commentRepo := comment.NewPgxRepository(pool)
	commentService := comment.NewService(commentRepo, itemService, userService, bookingService)

	// Item Request Module
	requestRepo := itemrequest.NewPgxRepository(pool)
	requestService := itemrequest.NewService(requestRepo, itemService, userService)

	// Photo Module
	photoRepo := photo.NewPgxRepository(pool)
	photoService := photo.NewService(photoRepo, itemService, store)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		RateLimit:          cfg.RateLimit,
		Logger:             logger,
		UserService:        userService,
		ItemService:        itemService,
		BookingService:     bookingService,
		CommentService:     commentService,
		ItemRequestService: requestService,
		PhotoService:       photoService,
		JWTManager:         jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
