package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	itemrequestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	photoHttp "github.com/nekogravitycat/shareit-backend/internal/photo/http"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	RateLimit    config.RateLimitConfig
	Logger       zerolog.Logger

	UserService        user.Service
	ItemService        item.Service
	BookingService     booking.Service
	CommentService     comment.Service
	ItemRequestService itemrequest.Service
	PhotoService       photo.Service
	JWTManager         *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, logging, rate limiting, auth) and registering routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: one structured line per request, request-scoped logger in context.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - Metrics: request counters for /metrics.
	r.Use(RequestLogger(cfg.Logger), gin.Recovery(), Metrics())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, cfg.BookingService, cfg.CommentService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	commentHandler := commentHttp.NewHandler(cfg.CommentService)
	requestHandler := itemrequestHttp.NewHandler(cfg.ItemRequestService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	v1.Use(newRateLimiter(cfg.RateLimit, clock.NewRealClock()).Middleware())
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		itemHttp.RegisterRoutes(v1, itemHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		commentHttp.RegisterRoutes(v1, commentHandler, authMiddleware)
		itemrequestHttp.RegisterRoutes(v1, requestHandler, authMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware)
	}

	return r
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
