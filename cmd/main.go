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

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	confirmReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/confirm_reservation"
	createTableHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_table"
	deleteTableHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/delete_table"
	findAvailableTablesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/find_available_tables"
	getCustomerReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_customer_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getReservationStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation_status"
	getTableScheduleHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_table_schedule"
	listTablesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_tables"
	lockTableHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/lock_table"
	updateTableHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_table"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	tableRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/table"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyqueue"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	tablesService "github.com/m04kA/SMC-ReservationService/internal/service/tables"
	cancelReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
	confirmReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
	findAvailableTablesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/find_available_tables"
	lockTableUC "github.com/m04kA/SMC-ReservationService/internal/usecase/lock_table"
	"github.com/m04kA/SMC-ReservationService/internal/worker/expiryreaper"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// noopMetrics заглушка метрик при cfg.Metrics.Enabled = false
type noopMetrics struct{}

func (noopMetrics) IncLockAcquired()         {}
func (noopMetrics) IncLockConflict()         {}
func (noopMetrics) AddLocksReaped(int)       {}
func (noopMetrics) IncReservationConfirmed() {}
func (noopMetrics) IncReservationCancelled() {}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		tableRepository       *tableRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		tableRepository = tableRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		tableRepository = tableRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Publisher событий для сервиса уведомлений
	var publisher interface {
		PublishConfirmed(ctx context.Context, event notifyqueue.ReservationConfirmedEvent) error
		PublishCancelled(ctx context.Context, event notifyqueue.ReservationCancelledEvent) error
	}
	if cfg.Notifications.Enabled {
		publisher = notifyqueue.NewPublisher(cfg.Notifications.URL, log)
		log.Info("Notification events publisher initialized (url=%s)", cfg.Notifications.URL)
	} else {
		publisher = notifyqueue.NewNopPublisher()
		log.Info("Notification events disabled")
	}

	// Доменные метрики для handlers и reaper-а
	var domainMetrics interface {
		IncLockAcquired()
		IncLockConflict()
		AddLocksReaped(n int)
		IncReservationConfirmed()
		IncReservationCancelled()
	}
	if cfg.Metrics.Enabled {
		domainMetrics = metricsCollector
	} else {
		domainMetrics = noopMetrics{}
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, log)
	tableSvc := tablesService.NewService(tableRepository, reservationRepository, log)

	// Инициализируем use cases
	lockTableUseCase := lockTableUC.NewUseCase(reservationRepository, tableRepository, txMgr, log)
	confirmReservationUseCase := confirmReservationUC.NewUseCase(reservationRepository, publisher, log)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(reservationRepository, publisher, log)
	findAvailableTablesUseCase := findAvailableTablesUC.NewUseCase(reservationRepository, tableRepository, log)

	// Инициализируем handlers
	lockTable := lockTableHandler.NewHandler(lockTableUseCase, domainMetrics, log)
	confirmReservation := confirmReservationHandler.NewHandler(confirmReservationUseCase, domainMetrics, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, domainMetrics, log)
	findAvailableTables := findAvailableTablesHandler.NewHandler(findAvailableTablesUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getReservationStatus := getReservationStatusHandler.NewHandler(reservationSvc, log)
	getCustomerReservations := getCustomerReservationsHandler.NewHandler(reservationSvc, log)
	listTables := listTablesHandler.NewHandler(tableSvc, log)
	getTableSchedule := getTableScheduleHandler.NewHandler(tableSvc, log)
	createTable := createTableHandler.NewHandler(tableSvc, log)
	updateTable := updateTableHandler.NewHandler(tableSvc, log)
	deleteTable := deleteTableHandler.NewHandler(tableSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Список столов
	api.HandleFunc("/tables", listTables.Handle).Methods(http.MethodGet)

	// Поиск доступных столов на окно
	api.HandleFunc("/tables/availability", findAvailableTables.Handle).Methods(http.MethodGet)

	// Расписание стола на дату
	api.HandleFunc("/tables/{tableId}/schedule", getTableSchedule.Handle).Methods(http.MethodGet)

	// Статус бронирования (для обратного отсчета блокировки)
	api.HandleFunc("/reservations/{id}/status", getReservationStatus.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	auth := middleware.NewAuth(log)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Require)

	// --- Бронирования ---
	// Блокировка стола (первая фаза lock → confirm)
	protected.HandleFunc("/reservations/lock", lockTable.Handle).Methods(http.MethodPost)

	// Подтверждение блокировки
	protected.HandleFunc("/reservations/{id}/confirm", confirmReservation.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{id}/cancel", cancelReservation.Handle).Methods(http.MethodPost)

	// История бронирований клиента
	protected.HandleFunc("/reservations", getCustomerReservations.Handle).Methods(http.MethodGet)

	// Бронирование по ID
	protected.HandleFunc("/reservations/{id}", getReservation.Handle).Methods(http.MethodGet)

	// --- Управление столами (для персонала) ---
	protected.HandleFunc("/tables", createTable.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/tables/{tableId}", updateTable.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/tables/{tableId}", deleteTable.Handle).Methods(http.MethodDelete)

	// Фоновый reaper истекших блокировок
	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()

	if cfg.Reaper.Enabled {
		reaper := expiryreaper.NewReaper(
			reservationRepository,
			time.Duration(cfg.Reaper.Interval)*time.Second,
			domainMetrics,
			log,
		)
		go reaper.Run(reaperCtx)
	} else {
		log.Warn("Expiry reaper disabled: stale locks will be reported lazily only")
	}

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

	// Останавливаем reaper и сбор метрик connection pool
	stopReaper()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
