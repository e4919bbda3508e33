package main

import (
	"alcyxob/trainer-analytics/internal/api"
	"alcyxob/trainer-analytics/internal/config"
	"alcyxob/trainer-analytics/internal/logging"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"alcyxob/trainer-analytics/internal/repository/memory"
	"alcyxob/trainer-analytics/internal/repository/mongo"
	"alcyxob/trainer-analytics/internal/service"
	"alcyxob/trainer-analytics/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

type repositories struct {
	clients      repository.ClientRepository
	exercises    repository.ExerciseRepository
	workouts     repository.WorkoutRepository
	measurements repository.MeasurementRepository
}

// openRepositories connects the configured backend. The returned func releases it.
func openRepositories(cfg config.DatabaseConfig) (repositories, func(), error) {
	if cfg.Driver == "memory" {
		log.Warn("Using the in-memory store, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			clients:      store.Clients(),
			exercises:    store.Exercises(),
			workouts:     store.Workouts(),
			measurements: store.Measurements(),
		}, func() {}, nil
	}

	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return repositories{}, nil, err
	}
	closeFn := func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}
	appDB := dbClient.Database(cfg.Name)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
		closeFn()
		return repositories{}, nil, err
	}

	return repositories{
		clients:      mongo.NewMongoClientRepository(appDB),
		exercises:    mongo.NewMongoExerciseRepository(appDB),
		workouts:     mongo.NewMongoWorkoutRepository(appDB),
		measurements: mongo.NewMongoMeasurementRepository(appDB),
	}, closeFn, nil
}

// @title Trainer Analytics API
// @version 1.0
// @description Client records, workout logging with volume tracking, body measurements and training analytics for a personal trainer.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("Starting Trainer Analytics Server...")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set (JWT_SECRET)")
	}

	loc, err := cfg.Analytics.Location()
	if err != nil {
		log.Fatalf("Invalid analytics timezone: %v", err)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("trainer", "analytics", registry)

	// --- Database ---
	repos, closeRepos, err := openRepositories(cfg.Database)
	if err != nil {
		log.Fatalf("Could not open %s repositories: %v", cfg.Database.Driver, err)
	}
	defer closeRepos()
	log.WithField("driver", cfg.Database.Driver).Info("Repositories ready")

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Info("S3 disabled, report export is unavailable")
	}

	// --- Services ---
	exerciseService := service.NewExerciseService(repos.exercises, metricsManager)
	services := api.Services{
		Clients:      service.NewClientService(repos.clients, repos.workouts, repos.measurements, metricsManager),
		Exercises:    exerciseService,
		Workouts:     service.NewWorkoutService(repos.workouts, repos.clients, repos.exercises, metricsManager),
		Measurements: service.NewMeasurementService(repos.measurements, repos.clients, metricsManager),
		Analytics: service.NewAnalyticsService(
			repos.workouts, repos.clients, repos.exercises, fileStorage,
			service.AnalyticsOptions{Location: loc, URLExpiry: cfg.S3.URLExpiry},
			metricsManager,
		),
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := exerciseService.SeedCatalog(seedCtx); err != nil {
		// ListExercises resumes an incomplete seed, so the server can still start.
		log.WithError(err).Warn("Could not seed the exercise catalog")
	}
	seedCancel()

	// --- Router ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(api.Recovery(metricsManager), api.RequestLogger(), api.MetricsMiddleware(metricsManager))

	routerOpts := api.RouterOptions{JWTSecret: cfg.JWT.Secret, Location: loc}
	if cfg.Metrics.Enabled {
		routerOpts.Gatherer = registry
	}
	api.SetupRoutes(router, services, routerOpts)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exiting.")
}
