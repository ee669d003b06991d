package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/config"
	"github.com/Dosada05/championship-manager/db"
	"github.com/Dosada05/championship-manager/handlers"
	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/repositories"
	api "github.com/Dosada05/championship-manager/routes"
	"github.com/Dosada05/championship-manager/services"
	"github.com/Dosada05/championship-manager/storage"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
)

func main() {
	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		bootLogger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Загрузчик эмблем (Cloudflare R2), опционален
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, emblem uploads are disabled")
	}

	// WebSocket Hub
	hub := brackets.NewHub(logger)
	go hub.Run(ctx)

	// Очередь отложенных задач
	var store jobs.Store
	if cfg.RedisURL != "" {
		redisClient, err := jobs.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		store = jobs.NewRedisStore(redisClient, jobs.DefaultRedisKey, logger)
		logger.Info("redis job store initialized")
	} else {
		store = jobs.NewMemoryStore()
		logger.Warn("REDIS_URL is not set, scheduled jobs are kept in memory")
	}
	clock := clockwork.NewRealClock()
	queue := jobs.NewQueue(store, clock, logger)

	// Репозитории
	txRunner := repositories.NewPostgresTxRunner(dbConn)
	championshipRepo := repositories.NewPostgresChampionshipRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	goalRepo := repositories.NewPostgresGoalRepository(dbConn)
	penaltyRepo := repositories.NewPostgresPenaltyRepository(dbConn)
	foulRepo := repositories.NewPostgresFoulRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	classificationRepo := repositories.NewPostgresClassificationRepository(dbConn)

	seed := time.Now().UnixNano()
	if cfg.BracketSeed != nil {
		seed = *cfg.BracketSeed
	}

	// Сервисы
	championshipService := services.NewChampionshipService(txRunner, championshipRepo, teamRepo, matchRepo, queue, uploader, clock, logger)
	bracketService := services.NewBracketService(txRunner, championshipRepo, matchRepo, classificationRepo, hub, rand.New(rand.NewSource(seed)), logger)
	matchService := services.NewMatchService(txRunner, championshipRepo, matchRepo, goalRepo, teamRepo, penaltyRepo, foulRepo, lineupRepo, queue, hub, logger)
	goalService := services.NewGoalService(txRunner, championshipRepo, matchRepo, goalRepo, rosterRepo, lineupRepo, queue, hub, logger)
	penaltyService := services.NewPenaltyService(txRunner, championshipRepo, matchRepo, goalRepo, penaltyRepo, rosterRepo, lineupRepo, queue, hub, logger)
	foulService := services.NewFoulService(txRunner, championshipRepo, matchRepo, foulRepo, rosterRepo, lineupRepo)
	lineupService := services.NewLineupService(txRunner, championshipRepo, matchRepo, rosterRepo, lineupRepo)
	teamService := services.NewTeamService(teamRepo, championshipRepo, matchRepo, rosterRepo, lineupRepo, uploader, clock, logger)
	statisticsService := services.NewStatisticsService(txRunner, championshipRepo, matchRepo, goalRepo, classificationRepo, rosterRepo, hub, logger)

	runner := jobs.NewRunner(store, &jobs.Dispatcher{
		Status:         championshipService,
		Classification: statisticsService,
	}, clock, jobs.RunnerConfig{PollInterval: cfg.JobPollInterval}, logger)
	go runner.Run(ctx)

	// HTTP
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: []byte(cfg.JWTSecretKey), AllowedOrigins: cfg.CORSAllowedOrigins},
		handlers.NewChampionshipHandler(championshipService, bracketService, matchService, teamService, statisticsService),
		handlers.NewMatchHandler(matchService, goalService, penaltyService, foulService, lineupService),
		handlers.NewTeamHandler(teamService),
		handlers.NewWebSocketHandler(hub, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			_ = server.Close()
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
