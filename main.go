package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/config"
	"frontdesk/cron"
	"frontdesk/database"
	"frontdesk/database/repository"
	"frontdesk/handlers"
	"frontdesk/middleware"
	"frontdesk/routes"
	"frontdesk/services/capture"
	"frontdesk/services/intelligence"
	"frontdesk/services/scheduling"
	"frontdesk/services/speech"
	"frontdesk/services/tasks"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()
	loc := config.Location()

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// repositories.
	apptRepo := repository.NewMemoryAppointmentRepo()
	if cfg.SeedDemoAppointments {
		if err := database.SeedDemoAppointments(apptRepo, time.Now().In(loc)); err != nil {
			logger.Warn("main: failed to seed demo appointments", zap.Error(err))
		}
	}

	// reminders.
	reminderClient := asynq.NewClient(cron.RedisOpt())
	defer reminderClient.Close()
	reminderWorker := cron.InitReminderWorker(logger)
	reminders := tasks.NewAsynqReminderScheduler(reminderClient, cfg.ReminderLead, logger)

	// scheduling.
	slotCache, err := scheduling.NewSlotCache(cfg.SlotCacheSize)
	if err != nil {
		logger.Fatal("main: failed to create slot cache", zap.Error(err))
	}
	schedulingService := &scheduling.DefaultSchedulingService{
		Repo:      apptRepo,
		Reminders: reminders,
		Cache:     slotCache,
		Options: scheduling.SlotOptions{
			WorkStartHour:  cfg.WorkStartHour,
			WorkEndHour:    cfg.WorkEndHour,
			MaxSuggestions: cfg.MaxSlotSuggestions,
		},
		Loc:    loc,
		Logger: logger.Named("scheduling"),
		NewID:  uuid.NewString,
		Now:    time.Now,
	}

	// intelligence.
	var extractor intelligence.Extractor
	var extractionState func() string
	if cfg.GeminiAPIKey == "" {
		logger.Warn("main: GEMINI_API_KEY is not set, every draft will be the fallback draft")
	} else {
		gemini, err := intelligence.NewGeminiClient(rootCtx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("main: failed to initialize Gemini, every draft will be the fallback draft", zap.Error(err))
		} else {
			defer gemini.Close()
			breaker := intelligence.NewBreakerExtractor(gemini, logger)
			extractor = breaker
			extractionState = breaker.State
		}
	}
	pipeline := &intelligence.DraftPipeline{
		Extractor: extractor,
		Roster:    database.DefaultRoster,
		Loc:       loc,
		Now:       time.Now,
		Logger:    logger.Named("drafts"),
	}
	draftStore := intelligence.NewRedisDraftStore(utils.GetDraftCacheClient(), cfg.DraftTTL)

	// speech.
	var streamer handlers.AudioStreamer
	var recognizer handlers.Recognizer
	transcriber, err := speech.NewTranscriber(rootCtx, cfg.GoogleServiceAccountFile, cfg.SpeechLanguage, logger.Named("speech"))
	if err != nil {
		logger.Warn("main: speech recognition disabled", zap.Error(err))
	} else {
		defer transcriber.Close()
		streamer = transcriber
		recognizer = transcriber
	}

	// handlers.
	appointmentHandler := handlers.NewAppointmentHandler(schedulingService, database.DefaultRoster)
	draftHandler := handlers.NewDraftHandler(pipeline, draftStore, loc)
	captureManager := capture.NewManager(capture.Config{
		MinTranscriptLen:   cfg.CaptureMinTranscriptLen,
		ErrorDelay:         cfg.CaptureErrorDelay,
		ProviderErrorDelay: cfg.CaptureProviderErrorDelay,
	}, draftHandler, logger.Named("capture"))
	captureHandler := handlers.NewCaptureHandler(captureManager, streamer)
	speechHandler := handlers.NewSpeechHandler(recognizer)

	// health.
	queueRedis := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReminderQueueDB,
	})
	defer queueRedis.Close()
	utils.StartHealthMonitor(rootCtx, map[string]*redis.Client{
		"drafts":    utils.GetDraftCacheClient(),
		"reminders": queueRedis,
	}, 60*time.Second)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetConsultants:   appointmentHandler.GetConsultantsHandler,
		ListAppointments: appointmentHandler.ListAppointmentsHandler,
		GetAppointment:   appointmentHandler.GetAppointmentHandler,
		NewForm:          appointmentHandler.NewFormHandler,
		SaveAppointment:  appointmentHandler.SaveAppointmentHandler,
		CheckAppointment: appointmentHandler.CheckAppointmentHandler,
		ResolveConflict:  appointmentHandler.ResolveConflictHandler,
		GetConflicts:     appointmentHandler.GetConflictsHandler,
		GetSlots:         appointmentHandler.GetSlotsHandler,

		ExtractDraft: draftHandler.ExtractDraftHandler,
		DraftForm:    draftHandler.DraftFormHandler,

		StartCapture:   captureHandler.StartCaptureHandler,
		GetCapture:     captureHandler.GetCaptureHandler,
		CaptureInterim: captureHandler.InterimHandler,
		StopCapture:    captureHandler.StopCaptureHandler,
		CaptureError:   captureHandler.CaptureErrorHandler,
		ConfirmCapture: captureHandler.ConfirmCaptureHandler,
		CancelCapture:  captureHandler.CancelCaptureHandler,
		CaptureAudio:   captureHandler.CaptureAudioHandler,

		Transcribe: speechHandler.TranscribeHandler,

		Health: handlers.HealthHandler(extractionState),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	if s := captureManager.Active(); s != nil {
		s.Cancel(context.Background())
	}
	stopBackground()
	reminderWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
