package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	addExpenseHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/add_expense"
	addShiftHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/add_shift"
	cancelBookingHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/delete_booking"
	exportFinanceReportHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/export_finance_report"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_booking"
	getBookingCalendarHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_booking_calendar"
	getDayShiftsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_day_shifts"
	getFinanceSummaryHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_finance_summary"
	getOpenDaysHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_open_days"
	getSettingsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_settings"
	getWaitlistHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/get_waitlist"
	joinWaitlistHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/join_waitlist"
	listBookingsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/list_bookings"
	listExpensesHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/list_expenses"
	removeShiftHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/remove_shift"
	setDayShiftsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/set_day_shifts"
	streamBookingsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/stream_bookings"
	updateBookingStatusHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/update_booking_status"
	updateSettingsHandler "github.com/m04kA/SMC-BarberShop/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/config"
	bookingRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/booking"
	expenseRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/expense"
	outboxRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/outbox"
	settingsRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/settings"
	shiftRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/shift"
	waitlistRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-BarberShop/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-BarberShop/internal/service/bookings"
	financeService "github.com/m04kA/SMC-BarberShop/internal/service/finance"
	settingsService "github.com/m04kA/SMC-BarberShop/internal/service/settings"
	shiftsService "github.com/m04kA/SMC-BarberShop/internal/service/shifts"
	waitlistService "github.com/m04kA/SMC-BarberShop/internal/service/waitlist"
	createBookingUC "github.com/m04kA/SMC-BarberShop/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberShop/internal/usecase/get_available_slots"
	removeShiftUC "github.com/m04kA/SMC-BarberShop/internal/usecase/remove_shift"
	outboxWorker "github.com/m04kA/SMC-BarberShop/internal/worker/outbox"
	"github.com/m04kA/SMC-BarberShop/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberShop/pkg/logger"
	"github.com/m04kA/SMC-BarberShop/pkg/metrics"
	"github.com/m04kA/SMC-BarberShop/pkg/txmanager"
)

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

	log.Info("Starting SMC-BarberShop...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Business.Loc()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Business.Timezone, err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Инициализируем метрики (если включены)
	// nil *metrics.Metrics безопасен: все методы записи проверяют получателя
	var metricsCollector *metrics.Metrics
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

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB, metricsCollector)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	shiftRepository := shiftRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	expenseRepository := expenseRepo.NewRepository(wrappedDB)
	waitlistRepository := waitlistRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	// Подписка на изменения бронирований (LISTEN/NOTIFY -> SSE)
	changesHub := bookingRepo.NewBroadcaster()
	bookingListener, err := bookingRepo.NewListener(cfg.Database.DSN(), changesHub, log)
	if err != nil {
		log.Fatal("Failed to start booking listener: %v", err)
	}
	go bookingListener.Run(ctx)
	log.Info("Booking change listener started")

	// Инициализируем доставку уведомлений
	renderer := notifier.Renderer{
		BusinessName: cfg.Business.Name,
		OwnerEmail:   cfg.Business.OwnerEmail,
	}

	var publisher outboxWorker.Publisher
	if cfg.Notifications.Enabled {
		amqpPublisher := notifier.NewPublisher(cfg.Notifications.AMQPURL, cfg.Notifications.Queue, log)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Notifications are published to queue %s", cfg.Notifications.Queue)
	} else {
		publisher = notifier.NewLogPublisher(renderer, log)
		log.Info("Notifications are disabled, messages go to the log")
	}

	relay := outboxWorker.NewRelay(
		outboxWorker.Config{
			Interval:      time.Duration(cfg.Notifications.RelayInterval) * time.Millisecond,
			BatchSize:     uint64(cfg.Notifications.BatchSize),
			RatePerSecond: cfg.Notifications.RatePerSecond,
			MaxAttempts:   cfg.Notifications.MaxAttempts,
			RetryBackoff:  time.Duration(cfg.Notifications.RetryBackoffMs) * time.Millisecond,
		},
		outboxRepository,
		publisher,
		txMgr,
		metricsCollector,
		outboxWorker.RealTimeProvider{},
		log,
	)
	go relay.Run(ctx)
	log.Info("Outbox relay started (interval=%dms, batch=%d)",
		cfg.Notifications.RelayInterval, cfg.Notifications.BatchSize)

	// Инициализируем Redis для rate limiting (если включен)
	var scripter redis.Scripter
	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis is unavailable, rate limiting fails open: %v", err)
		} else {
			log.Info("Rate limiting enabled (redis=%s, capacity=%d)", cfg.Redis.Addr, cfg.RateLimit.Capacity)
		}
		scripter = rdb
	}
	rateLimiter := middleware.NewRateLimiter(scripter, cfg.RateLimit, log)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		settingsRepository,
		outboxRepository,
		txMgr,
		location,
		bookingsService.BusinessInfo{Name: cfg.Business.Name, Location: cfg.Business.Location},
		log,
	)
	settingsSvc := settingsService.NewService(settingsRepository, log)
	shiftsSvc := shiftsService.NewService(shiftRepository, bookingRepository, txMgr, location, log)
	financeSvc := financeService.NewService(
		bookingRepository,
		expenseRepository,
		settingsRepository,
		txMgr,
		location,
		log,
	)
	waitlistSvc := waitlistService.NewService(waitlistRepository, location, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		shiftRepository,
		settingsRepository,
		txMgr,
		metricsCollector,
		location,
		time.Duration(cfg.Business.ReservationTimeout)*time.Second,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		shiftRepository,
		bookingRepository,
		settingsRepository,
		location,
		log,
	)

	removeShiftUseCase := removeShiftUC.NewUseCase(
		shiftRepository,
		bookingRepository,
		outboxRepository,
		txMgr,
		metricsCollector,
		location,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getDayShifts := getDayShiftsHandler.NewHandler(shiftsSvc, log)
	getOpenDays := getOpenDaysHandler.NewHandler(shiftsSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)

	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	streamBookings := streamBookingsHandler.NewHandler(bookingSvc, changesHub, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBookingCalendar := getBookingCalendarHandler.NewHandler(bookingSvc, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(waitlistSvc, log)

	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	addShift := addShiftHandler.NewHandler(shiftsSvc, log)
	setDayShifts := setDayShiftsHandler.NewHandler(shiftsSvc, log)
	removeShift := removeShiftHandler.NewHandler(removeShiftUseCase, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)
	addExpense := addExpenseHandler.NewHandler(financeSvc, log)
	listExpenses := listExpensesHandler.NewHandler(financeSvc, log)
	getFinanceSummary := getFinanceSummaryHandler.NewHandler(financeSvc, log)
	exportFinanceReport := exportFinanceReportHandler.NewHandler(financeSvc, log)
	getWaitlist := getWaitlistHandler.NewHandler(waitlistSvc, log)

	verifier := middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (токен необязателен)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth(verifier, log))

	// Свободные слоты на дату
	public.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Открытые дни и смены дня
	public.HandleFunc("/days", getOpenDays.Handle).Methods(http.MethodGet)
	public.HandleFunc("/days/{date}/shifts", getDayShifts.Handle).Methods(http.MethodGet)

	// Настройки барбершопа
	public.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// CUSTOMER ROUTES (требуют JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(verifier, log))

	// --- Бронирования ---
	// Создание бронирования (с ограничением частоты)
	protected.Handle("/bookings", rateLimiter.Middleware(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)

	// Список бронирований (клиент видит свои, администратор все)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Поток изменений (SSE); регистрируется до /bookings/{bookingId}
	protected.HandleFunc("/bookings/stream", streamBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Событие календаря для бронирования
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/calendar", getBookingCalendar.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	protected.Handle("/waitlist", rateLimiter.Middleware(http.HandlerFunc(joinWaitlist.Handle))).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (JWT с ролью admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(verifier, log), middleware.RequireAdmin)

	// --- Бронирования ---
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Смены ---
	admin.HandleFunc("/days/{date}/shifts", addShift.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/days/{date}/shifts", setDayShifts.Handle).Methods(http.MethodPut)

	// Удаление смены: предложение, подтверждение, отказ
	admin.HandleFunc("/days/{date}/shifts/{shiftId}/removal", removeShift.Propose).Methods(http.MethodPost)
	admin.HandleFunc("/days/{date}/shifts/{shiftId}/removal/confirm", removeShift.Confirm).Methods(http.MethodPost)
	admin.HandleFunc("/days/{date}/shifts/{shiftId}/removal/abort", removeShift.Abort).Methods(http.MethodPost)

	// --- Настройки ---
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPatch)

	// --- Финансы ---
	admin.HandleFunc("/expenses", addExpense.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/expenses", listExpenses.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/finance/summary", getFinanceSummary.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/finance/report.xlsx", exportFinanceReport.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	admin.HandleFunc("/waitlist", getWaitlist.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
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

	// Останавливаем фоновые задачи и закрываем SSE-подписки
	stop()
	changesHub.Close()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
