package v1

import (
	"time"

	"go-interview-scheduler/config"
	"go-interview-scheduler/internal/delivery/http/middleware"
	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/auth"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	WorkingHoursUC domain.WorkingHoursUsecase
	SlotFinder     domain.SlotFinder
	Detector       domain.ConflictDetector
	CalendarUC     domain.CalendarUsecase
	InterviewUC    domain.InterviewUsecase
	StatsUC        domain.StatsUsecase
	HealthUC       domain.HealthUsecase
	JWKSProvider   *auth.Provider
	Redis          *goredis.Client // nil: rate limiting falls back to memory
	Config         *config.Config
	Logger         *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loc := deps.Config.Location
	if loc == nil {
		loc = time.Local
	}
	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, deps.Config.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler(log))

	v1 := r.Group("/v1")

	// Public routes
	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config, deps.AuthUC, log))
	protected.Use(middleware.RateLimitMiddleware(
		middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window), deps.Redis, log))
	{
		NewAuthHandler(protected, deps.AuthUC)
		NewWorkingHoursHandler(protected, deps.WorkingHoursUC)
		NewAvailabilityHandler(protected, deps.SlotFinder, deps.Detector, loc)
		NewCalendarHandler(protected, deps.CalendarUC, loc,
			middleware.RateLimitMiddleware(middleware.ExportRateLimitConfig(), deps.Redis, log))
		NewInterviewHandler(protected, deps.InterviewUC)
		NewStatsHandler(protected, deps.StatsUC, loc)
	}

	return r
}
