package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	approveReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/approve_reservation"
	cancelReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/cancel_reservation"
	checkRoomAvailabilityHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/check_room_availability"
	createReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/create_reservation"
	createRoomHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/create_room"
	deleteRoomHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/delete_room"
	getCalendarHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_calendar"
	getMyReservationsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_my_reservations"
	getPendingReservationsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_pending_reservations"
	getReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_reservation"
	getRoomHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_room"
	getUpcomingReservationsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_upcoming_reservations"
	healthHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/health"
	listReservationsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/list_reservations"
	listRoomsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/list_rooms"
	rejectReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/reject_reservation"
	setReservationStatusHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/set_reservation_status"
	updateRoomHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/update_room"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/auth"
	"github.com/m04kA/SMC-RoomReservationService/internal/bootstrap"
	"github.com/m04kA/SMC-RoomReservationService/internal/config"
	roomCache "github.com/m04kA/SMC-RoomReservationService/internal/infra/cache/room"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
	reservationRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	roomRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/access"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/availability"
	reservationsService "github.com/m04kA/SMC-RoomReservationService/internal/service/reservations"
	roomsService "github.com/m04kA/SMC-RoomReservationService/internal/service/rooms"
	createReservationUC "github.com/m04kA/SMC-RoomReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomReservationService/internal/worker/reminders"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/metrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/txmanager"
)

const startupTimeout = 30 * time.Second

// eventPublisher общий интерфейс RabbitMQ и no-op публикаторов
type eventPublisher interface {
	Publish(ctx context.Context, event queue.ReservationEvent) error
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.NewWithRotation(cfg.Logs.File, cfg.Logs.Level, logger.Rotation{
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		Compress:   cfg.Logs.Compress,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-RoomReservationService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.App.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	// Проверяем соединение
	if err := db.PingContext(startupCtx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Схема и начальный каталог комнат
	if err := bootstrap.Migrate(startupCtx, wrappedDB, log); err != nil {
		log.Fatal("Failed to migrate database: %v", err)
	}

	// Redis: кэш комнат и дедупликация напоминаний (необязателен)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(startupCtx).Err(); err != nil {
			log.Warn("Redis unavailable at %s, continuing without cache: %v", cfg.Redis.Addr, err)
			_ = client.Close()
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
	}

	// Брокер событий (необязателен)
	var publisher eventPublisher = queue.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbitPublisher, err := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Warn("RabbitMQ unavailable, events will not be published: %v", err)
		} else {
			publisher = rabbitPublisher
			log.Info("Publishing reservation events to exchange %q", cfg.RabbitMQ.Exchange)
		}
	}
	defer publisher.Close()

	// Инициализируем репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)

	var cacheClient roomCache.Client
	if redisClient != nil {
		cacheClient = redisClient
	}
	roomRepository := roomCache.NewCachedRepository(
		roomRepo.NewRepository(wrappedDB),
		cacheClient,
		time.Duration(cfg.Redis.RoomTTL)*time.Second,
		log,
	)

	seeded, err := bootstrap.SeedRooms(startupCtx, roomRepository, cfg.Rooms, log)
	if err != nil {
		log.Fatal("Failed to seed rooms: %v", err)
	}
	log.Info("Room catalog ready (seeded=%d)", seeded)

	txMgr := txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Database.TxMaxRetries)

	// Инициализируем сервисы
	guard := access.NewGuard()
	checker := availability.NewChecker(reservationRepository)

	reservationSvc := reservationsService.NewService(
		reservationRepository,
		guard,
		publisher,
		metricsCollector,
		location,
		log,
	)
	roomSvc := roomsService.NewService(
		roomRepository,
		reservationRepository,
		checker,
		guard,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		roomRepository,
		checker,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)

	authenticator, err := auth.New(cfg.Auth)
	if err != nil {
		log.Fatal("Failed to initialize authenticator: %v", err)
	}
	log.Info("Authentication mode: %s (admins configured: %d)", cfg.Auth.Mode, len(cfg.Auth.AdminUserIDs))

	// Фоновый воркер напоминаний
	var reminderWorker *reminders.Worker
	if cfg.Reminders.Enabled {
		var deduper reminders.Deduper = reminders.NewMemoryDeduper(reminders.DefaultDedupeTTL)
		if redisClient != nil {
			deduper = reminders.NewRedisDeduper(redisClient, reminders.DefaultDedupeTTL)
		}

		reminderWorker, err = reminders.NewWorker(cfg.Reminders.Schedule, reservationSvc, deduper, publisher, log)
		if err != nil {
			log.Fatal("Failed to initialize reminders worker: %v", err)
		}
		reminderWorker.Start()
	}

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getMyReservations := getMyReservationsHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	getPendingReservations := getPendingReservationsHandler.NewHandler(reservationSvc, log)
	getUpcomingReservations := getUpcomingReservationsHandler.NewHandler(reservationSvc, log)
	getCalendar := getCalendarHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	approveReservation := approveReservationHandler.NewHandler(reservationSvc, log)
	rejectReservation := rejectReservationHandler.NewHandler(reservationSvc, log)
	setReservationStatus := setReservationStatusHandler.NewHandler(reservationSvc, log)

	listRooms := listRoomsHandler.NewHandler(roomSvc, log)
	getRoom := getRoomHandler.NewHandler(roomSvc, log)
	checkRoomAvailability := checkRoomAvailabilityHandler.NewHandler(roomSvc, log)
	createRoom := createRoomHandler.NewHandler(roomSvc, log)
	updateRoom := updateRoomHandler.NewHandler(roomSvc, log)
	deleteRoom := deleteRoomHandler.NewHandler(roomSvc, log)

	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	trustedProxies, err := cfg.Server.TrustedProxyNets()
	if err != nil {
		log.Fatal("Invalid trusted proxies: %v", err)
	}
	api.Use(middleware.RateLimit(cfg.Server.RateLimitPerMinute, trustedProxies, log))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог комнат
	api.HandleFunc("/rooms", listRooms.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id:[0-9]+}", getRoom.Handle).Methods(http.MethodGet)

	// Проверка свободного интервала
	api.HandleFunc("/rooms/{id:[0-9]+}/availability", checkRoomAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют аутентификации)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authenticator, log))

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/my", getMyReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/pending", getPendingReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/upcoming", getUpcomingReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/calendar", getCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id:[0-9]+}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Модерация (администратор) ---
	protected.HandleFunc("/reservations/{id:[0-9]+}/approve", approveReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{id:[0-9]+}/reject", rejectReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{id:[0-9]+}/status", setReservationStatus.Handle).Methods(http.MethodPatch)

	// --- Управление каталогом (администратор) ---
	protected.HandleFunc("/rooms", createRoom.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/{id:[0-9]+}", updateRoom.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/rooms/{id:[0-9]+}", deleteRoom.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего прохода напоминаний
	if reminderWorker != nil {
		select {
		case <-reminderWorker.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn("Reminders worker did not stop in time")
		}
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
