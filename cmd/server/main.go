package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exampool/exam-service/internal/cache"
	"github.com/exampool/exam-service/internal/charts"
	"github.com/exampool/exam-service/internal/config"
	"github.com/exampool/exam-service/internal/events"
	"github.com/exampool/exam-service/internal/handlers"
	"github.com/exampool/exam-service/internal/middleware"
	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories/postgres"
	"github.com/exampool/exam-service/internal/services"
	"github.com/exampool/exam-service/internal/utils"
	"github.com/exampool/exam-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Environment != "production" {
		if err := db.AutoMigrate(
			&models.Pool{},
			&models.Category{},
			&models.Contributor{},
			&models.ExamGroup{},
			&models.Exam{},
			&models.Question{},
			&models.QuestionAnswer{},
			&models.TestTaker{},
			&models.TestSession{},
			&models.TestTakerResponse{},
		); err != nil {
			logger.Error("auto migration failed", "error", err)
			os.Exit(1)
		}
	}

	// Analytics caching degrades to direct queries when Redis is down.
	var cacheService cache.CacheService
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, analytics caching disabled", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogger)
		defer redisClient.Close()
	}

	var publisher events.EventPublisher = events.NopEventPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.KafkaTopic,
			Logger:       slogger,
		})
		if err != nil {
			logger.Error("failed to create kafka publisher", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	middleware.InitAuth(cfg)

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	selector := services.NewQuestionSelector(repo, slogger)
	examService := services.NewExamService(repo, selector, publisher, slogger, validator)
	exportService := services.NewExportService(repo, slogger)
	analyticsService := services.NewAnalyticsService(repo, cacheService, charts.NewRandomColorSource(), slogger)
	categoryService := services.NewCategoryService(repo, slogger, validator)
	poolService := services.NewPoolService(repo)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(middleware.Authenticate())

	handlerManager := handlers.NewHandlerManager(
		examService,
		exportService,
		analyticsService,
		categoryService,
		poolService,
		logger,
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
