package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tennis-league/broker"
	"github.com/Dosada05/tennis-league/config"
	"github.com/Dosada05/tennis-league/db"
	"github.com/Dosada05/tennis-league/handlers"
	"github.com/Dosada05/tennis-league/realtime"
	"github.com/Dosada05/tennis-league/repositories"
	api "github.com/Dosada05/tennis-league/routes"
	"github.com/Dosada05/tennis-league/services"
	"github.com/Dosada05/tennis-league/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// @title Tennis League API
// @version 1.0
// @description Вызовы между игроками, расписание матчей, результаты и рейтинг лиги.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	handlers.SetLogger(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("timezone", cfg.Location.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище: PostgreSQL или память
	store, dbConn, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", slog.Any("error", err))
		os.Exit(1)
	}
	if dbConn != nil {
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
	}

	// Загрузчик аватаров (Cloudflare R2)
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, storage.R2Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, avatar upload disabled")
	}

	// Почта: без SMTP письма только пишутся в outbox
	var sender services.EmailSender
	if cfg.SMTP.Enabled() {
		sender = services.NewEmailService(cfg.SMTP)
		logger.Info("SMTP sender configured", slog.String("host", cfg.SMTP.Host), slog.Int("port", cfg.SMTP.Port))
	} else {
		logger.Warn("SMTP is not configured, notices are recorded to outbox only")
	}

	// WebSocket Hub
	hub := realtime.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()
	logger.Info("WebSocket Hub started")

	events := services.EventPublishers{hub}
	var natsPublisher *broker.Publisher
	if cfg.NATSURL != "" {
		natsPublisher, err = broker.Connect(cfg.NATSURL, cfg.NATSToken, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", slog.Any("error", err))
			os.Exit(1)
		}
		events = append(events, natsPublisher)
		logger.Info("NATS publisher connected")
	}

	notices := services.NoticeConfig{
		CalendarDomain: cfg.CalendarDomain,
		PublicURL:      cfg.PublicURL,
		Organizer:      cfg.SMTP.From,
		Location:       cfg.Location,
	}

	// Инициализация сервисов
	notificationService := services.NewNotificationService(sender, store.Outbox, logger)
	memberService := services.NewMemberService(store.Members, uploader, logger)
	authService := services.NewAuthService(store.Tx, store.Users, memberService, cfg.JWTSecretKey, cfg.JWTTTL, logger)
	challengeService := services.NewChallengeService(services.ChallengeServiceDeps{
		Tx:               store.Tx,
		Challenges:       store.Challenges,
		Members:          store.Members,
		Seasons:          store.Seasons,
		Notifier:         notificationService,
		Events:           events,
		Logger:           logger,
		Notices:          notices,
		AsyncSideEffects: true,
	})
	seasonService := services.NewSeasonService(store.Seasons, store.Members, store.Challenges, notificationService, logger)
	chatService := services.NewChatService(store.Chats, store.Challenges, events, logger)
	courtService := services.NewCourtService(store.Courts)
	reminderService := services.NewReminderService(
		store.Tx,
		store.Challenges,
		store.Members,
		notificationService,
		events,
		notices,
		cfg.ReminderTolerance,
		logger,
	)
	logger.Info("Services initialized")

	// Планировщик напоминаний
	reminderDone := make(chan struct{})
	go func() {
		defer close(reminderDone)
		reminderService.Run(ctx, cfg.ReminderInterval)
	}()

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Challenge: handlers.NewChallengeHandler(challengeService),
		Member:    handlers.NewMemberHandler(memberService, cfg.Location),
		Season:    handlers.NewSeasonHandler(seasonService),
		Chat:      handlers.NewChatHandler(chatService),
		Court:     handlers.NewCourtHandler(courtService),
		Admin:     handlers.NewAdminHandler(notificationService),
		WebSocket: handlers.NewWebSocketHandler(hub, challengeService, cfg.CORSAllowedOrigins),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RequestTimeout: 30 * time.Second,
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
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
		}
		stop()
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
	}

	<-reminderDone
	// фоновые уведомления после коммита должны успеть уйти
	challengeService.Wait()
	<-hubDone
	if natsPublisher != nil {
		natsPublisher.Close()
	}
	logger.Info("application exited")
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Store, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, using in-memory storage")
		return repositories.NewMemoryStore(), nil, nil
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, dbConn); err != nil {
		_ = dbConn.Close()
		return nil, nil, err
	}
	logger.Info("database connection established")
	return repositories.NewPostgresStore(dbConn), dbConn, nil
}
