package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	createBookingHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/delete_booking"
	deletePolicyHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/delete_policy"
	getAvailableVenuesHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/get_available_venues"
	getBookingHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/get_booking"
	getEventsHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/get_events"
	getPolicyHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/get_policy"
	getSlotConflictsHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/get_slot_conflicts"
	getUserBookingsHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/get_user_bookings"
	getVenueBookingsHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/get_venue_bookings"
	importBookingsHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/import_bookings"
	rescheduleBookingHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/reschedule_booking"
	updateApprovalHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/update_approval"
	updatePolicyHandler "github.com/m04kA/SMC-HallBookingService/internal/api/handlers/update_policy"
	"github.com/m04kA/SMC-HallBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HallBookingService/internal/config"
	"github.com/m04kA/SMC-HallBookingService/internal/infra/notify"
	bookingRepo "github.com/m04kA/SMC-HallBookingService/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-HallBookingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-HallBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
	"github.com/m04kA/SMC-HallBookingService/internal/scheduler"
	bookingsService "github.com/m04kA/SMC-HallBookingService/internal/service/bookings"
	policyService "github.com/m04kA/SMC-HallBookingService/internal/service/policy"
	createBookingUC "github.com/m04kA/SMC-HallBookingService/internal/usecase/create_booking"
	getAvailableVenuesUC "github.com/m04kA/SMC-HallBookingService/internal/usecase/get_available_venues"
	importBookingsUC "github.com/m04kA/SMC-HallBookingService/internal/usecase/import_bookings"
	"github.com/m04kA/SMC-HallBookingService/pkg/logger"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the claim sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply database migrations before serving")
	return cmd
}

func serve(configPath string, migrateUp bool) error {
	in, err := openInfra(configPath, true)
	if err != nil {
		return err
	}
	defer in.Close()

	cfg, log := in.cfg, in.log
	log.Info("Starting SMC-HallBookingService...")

	if migrateUp {
		if err := runMigrations(context.Background(), in); err != nil {
			return err
		}
	}

	// Интеграция со справочником площадок
	venueClient := venuedirectory.NewClient(
		cfg.VenueDirectory.URL,
		time.Duration(cfg.VenueDirectory.Timeout)*time.Second,
		log,
	)
	log.Info("Venue directory client initialized (url=%s timeout=%ds)", cfg.VenueDirectory.URL, cfg.VenueDirectory.Timeout)

	// Репозитории. Метрики реестра пишутся только при включенных метриках
	var ledgerRecorder reservation.Recorder
	var notifyRecorder notify.Recorder
	if in.metrics != nil {
		ledgerRecorder = in.metrics
		notifyRecorder = in.metrics
	}

	ledger := reservation.NewRepository(in.db, in.txManager, cfg.Reservation.ClaimTTL(), ledgerRecorder)
	bookingRepository := bookingRepo.NewRepository(in.db)
	policyRepository := policyRepo.NewRepository(in.db)

	// Уведомления
	sender, closeSender, err := newSender(cfg.Notifications, log)
	if err != nil {
		return err
	}
	defer closeSender()

	dispatcher := notify.NewDispatcher(
		sender,
		cfg.Notifications.QueueSize,
		cfg.Notifications.Workers,
		time.Duration(cfg.Notifications.SendTimeout)*time.Second,
		log,
		notifyRecorder,
	)
	notifier := notify.NewBookingNotifier(dispatcher, log)
	log.Info("Notifications enabled (driver=%s, workers=%d)", sender.Name(), cfg.Notifications.Workers)

	granularity := cfg.Reservation.SlotGranularityMinutes

	// Сервисы и use cases
	policySvc := policyService.NewService(policyRepository, venueClient, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		ledger,
		policySvc,
		venueClient,
		notifier,
		in.txManager,
		granularity,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ledger,
		policySvc,
		venueClient,
		notifier,
		in.txManager,
		granularity,
		log,
	)
	getAvailableVenuesUseCase := getAvailableVenuesUC.NewUseCase(ledger, venueClient, granularity, log)
	importBookingsUseCase := importBookingsUC.NewUseCase(createBookingUseCase, venueClient, log)

	// Очистка просроченных захватов
	sweeper, err := scheduler.NewClaimSweeper(ledger, cfg.Reservation.SweepInterval(), log)
	if err != nil {
		return err
	}
	sweeper.Start()

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	importBookings := importBookingsHandler.NewHandler(importBookingsUseCase, log)
	getAvailableVenues := getAvailableVenuesHandler.NewHandler(getAvailableVenuesUseCase, log)
	getSlotConflicts := getSlotConflictsHandler.NewHandler(getAvailableVenuesUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getVenueBookings := getVenueBookingsHandler.NewHandler(bookingSvc, log)
	getEvents := getEventsHandler.NewHandler(bookingSvc, log)
	updateApproval := updateApprovalHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getPolicy := getPolicyHandler.NewHandler(policySvc, log)
	updatePolicy := updatePolicyHandler.NewHandler(policySvc, log)
	deletePolicy := deletePolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if in.metrics != nil {
		r.Use(middleware.MetricsMiddleware(in.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/venues/available", getAvailableVenues.Handle).Methods(http.MethodGet)
	api.HandleFunc("/venues/{venueId:[0-9]+}/conflicts", getSlotConflicts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/events", getEvents.Handle).Methods(http.MethodGet)
	api.HandleFunc("/policy", getPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)

	// --- Бронирования ---
	// Лимит ставится на сам handler: middleware роутера уже положил Identity в контекст
	var createBookingRoute http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.RateLimit.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.Redis.Addr,
			Password: cfg.RateLimit.Redis.Password,
			DB:       cfg.RateLimit.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unavailable at %s, rate limiting will fail open: %v", cfg.RateLimit.Redis.Addr, err)
		}

		limiter := middleware.NewRateLimiter(
			middleware.NewRedisCounterStore(redisClient, "rl"),
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window(),
			log,
		)
		createBookingRoute = limiter.Middleware(createBookingRoute)
		log.Info("Rate limiting enabled: %d requests per %s", cfg.RateLimit.Requests, cfg.RateLimit.Window())
	}
	protected.Handle("/bookings", createBookingRoute).Methods(http.MethodPost)

	protected.HandleFunc("/bookings/import", importBookings.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/schedule", rescheduleBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/approval", updateApproval.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление площадкой (персонал) ---
	protected.HandleFunc("/venues/{venueId:[0-9]+}/bookings", getVenueBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/policy", updatePolicy.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/policy", deletePolicy.Handle).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := sweeper.Stop(); err != nil {
		log.Error("Failed to stop claim sweeper: %v", err)
	}

	// Доставляем уже поставленные в очередь уведомления
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("Notification queue not drained: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// newSender выбирает канал доставки уведомлений
func newSender(cfg config.NotificationsConfig, log *logger.Logger) (notify.Sender, func(), error) {
	switch cfg.Driver {
	case config.NotificationDriverSMTP:
		sender, err := notify.NewSMTPSender(notify.SMTPSettings{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			TLS:      cfg.SMTP.TLS,
		})
		if err != nil {
			return nil, nil, err
		}
		return sender, func() {}, nil

	case config.NotificationDriverAMQP:
		sender, err := notify.NewAMQPSender(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, nil, err
		}
		return sender, func() {
			if err := sender.Close(); err != nil {
				log.Error("Failed to close AMQP connection: %v", err)
			}
		}, nil

	default:
		return notify.NewLogSender(log), func() {}, nil
	}
}
