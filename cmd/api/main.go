package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-interview-scheduler/config"
	v1 "go-interview-scheduler/internal/delivery/http/v1"
	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/jobs"
	"go-interview-scheduler/internal/notification"
	"go-interview-scheduler/internal/repository/postgres"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/auth"
	"go-interview-scheduler/pkg/database"
	"go-interview-scheduler/pkg/email"
	"go-interview-scheduler/pkg/logger"
	"go-interview-scheduler/pkg/redis"
	"go-interview-scheduler/pkg/validation"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title           Interview Scheduling API
// @version         1.0
// @description     Recruiter availability, interview booking and calendar views.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	if err := logger.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Log
	zlog.Info("Starting interview scheduler",
		zap.String("port", cfg.Port),
		zap.String("timezone", cfg.Location.String()),
	)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(context.Background(), cfg.DBUrl)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	redisCfg := redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}
	var rdb *goredis.Client
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redisCfg); err != nil {
			zlog.Warn("Redis unavailable, continuing without it", zap.Error(err))
		} else {
			rdb = redis.Client()
			defer redis.Close()
		}
	}

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	workingHoursRepo := postgres.NewWorkingHoursRepository(dbPool)
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	transactor := postgres.NewTransactor(dbPool)

	// 6. Setup Notifications
	var notifier domain.Notifier
	var worker *asynq.Server
	if rdb != nil {
		opts, err := redis.Options(redisCfg)
		if err != nil {
			zlog.Fatal("Invalid redis configuration", zap.Error(err))
		}
		redisOpt := asynq.RedisClientOpt{
			Addr:      opts.Addr,
			Username:  opts.Username,
			Password:  opts.Password,
			DB:        opts.DB,
			TLSConfig: opts.TLSConfig,
		}
		queueClient := asynq.NewClient(redisOpt)
		defer queueClient.Close()
		notifier = notification.NewQueueNotifier(queueClient, zlog)

		emailService := email.NewEmailService(cfg)
		if !emailService.IsConfigured() {
			zlog.Warn("Email service not fully configured - email notifications will be dropped")
		}
		worker = notification.NewServer(redisOpt, cfg.NotificationWorkerConcurrency, zlog)
		mux := asynq.NewServeMux()
		notification.NewWorker(emailService, zlog).Register(mux)
		if err := worker.Start(mux); err != nil {
			zlog.Fatal("Failed to start notification worker", zap.Error(err))
		}
	} else {
		notifier = notification.NewLogNotifier(zlog)
	}

	// 7. Setup UseCases
	validate := validation.New()
	opts := []usecase.Option{usecase.WithLocation(cfg.Location), usecase.WithLogger(zlog)}

	authUC := usecase.NewAuthUsecase(userRepo)
	workingHoursUC := usecase.NewWorkingHoursUsecase(workingHoursRepo, validate, opts...)
	detector := usecase.NewConflictDetector(workingHoursRepo, interviewRepo, opts...)
	slotFinder := usecase.NewSlotFinder(workingHoursRepo, interviewRepo, userRepo, opts...)
	calendarUC := usecase.NewCalendarUsecase(workingHoursRepo, interviewRepo, opts...)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, applicationRepo, userRepo, detector, transactor, notifier, validate, opts...)
	statsUC := usecase.NewStatsUsecase(workingHoursRepo, interviewRepo, opts...)

	checks := map[string]usecase.Pinger{"postgres": dbPool.Ping}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 8. Setup Reminder Jobs
	var scheduler *jobs.ReminderScheduler
	if cfg.RemindersEnabled {
		if rdb != nil {
			scheduler = jobs.NewReminderScheduler(interviewUC, rdb, zlog)
		} else {
			scheduler = jobs.NewReminderScheduler(interviewUC, nil, zlog)
		}
		if err := scheduler.Schedule(cfg.Reminder24hCron, cfg.Reminder2hCron); err != nil {
			zlog.Fatal("Invalid reminder schedule", zap.Error(err))
		}
		scheduler.Start()
	}

	// 9. Setup Auth Provider (JWKS)
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		WorkingHoursUC: workingHoursUC,
		SlotFinder:     slotFinder,
		Detector:       detector,
		CalendarUC:     calendarUC,
		InterviewUC:    interviewUC,
		StatsUC:        statsUC,
		HealthUC:       healthUC,
		JWKSProvider:   jwksProvider,
		Redis:          rdb,
		Config:         cfg,
		Logger:         zlog,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	if worker != nil {
		worker.Shutdown()
	}

	zlog.Info("Server exiting")
}
