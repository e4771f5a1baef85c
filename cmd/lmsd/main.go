package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/usecase"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/infrastructure/config"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/infrastructure/holiday"
	infraKafka "github.com/harshitrathi14/LOS-LMS-sub001/internal/infrastructure/kafka"
	infraPG "github.com/harshitrathi14/LOS-LMS-sub001/internal/infrastructure/postgres"
	grpcPresentation "github.com/harshitrathi14/LOS-LMS-sub001/internal/presentation/grpc"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/presentation/rest"
	kafkapkg "github.com/harshitrathi14/LOS-LMS-sub001/pkg/kafka"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/observability"
	pgpkg "github.com/harshitrathi14/LOS-LMS-sub001/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize logger.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	logger.Info("starting lms-core",
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
	)

	// Initialize tracing.
	shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdown(ctx) }()
	}

	// Initialize metrics. The batch collectors register on the default
	// registerer, which the promhttp handler serves.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Port:        cfg.HTTPPort,
	})
	if err != nil {
		logger.Warn("failed to initialize metrics, continuing without metrics endpoint", "error", err)
	}
	batchMetrics := observability.NewBatchMetrics(prometheus.DefaultRegisterer)

	// Initialize database.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgpkg.NewPool(dbCtx, pgpkg.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations.
	dsn := pgpkg.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}.DSN()
	if err := pgpkg.RunMigrations(dsn, "file://internal/infrastructure/postgres/migrations"); err != nil {
		logger.Warn("migration warning", "error", err)
	}

	// Load holiday calendars for business-day schedule adjustment.
	calendars, err := holiday.NewRegistry(cfg.HolidayDir)
	if err != nil {
		logger.Error("failed to load holiday calendars", "error", err)
		os.Exit(1)
	}
	logger.Info("holiday calendars loaded", "calendars", calendars.IDs())

	// Initialize Kafka producer.
	producer := kafkapkg.NewProducer(kafkapkg.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer producer.Close()

	// Wire dependencies.
	loanRepo := infraPG.NewLoanRepo(pool)
	paymentRepo := infraPG.NewPaymentRepo(pool)
	benchmarkRepo := infraPG.NewBenchmarkRateRepo(pool)
	snapshotRepo := infraPG.NewSnapshotRepo(pool)
	publisher := infraKafka.NewKafkaEventPublisher(producer, cfg.Kafka.EventTopic, logger)

	rateEngine := service.NewRateEngine(benchmarkRepo)
	scheduleGenerator := service.NewScheduleGenerator()
	allocationEngine := service.NewAllocationEngine()
	classifier := service.NewDelinquencyClassifier()

	// Use cases.
	disburseLoanUC := usecase.NewDisburseLoanUseCase(loanRepo, calendars, rateEngine, scheduleGenerator, publisher)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo)
	getScheduleUC := usecase.NewGetScheduleUseCase(loanRepo)
	makePaymentUC := usecase.NewMakePaymentUseCase(loanRepo, paymentRepo, allocationEngine, publisher)
	reversePaymentUC := usecase.NewReversePaymentUseCase(loanRepo, paymentRepo, allocationEngine, publisher)
	recordRateUC := usecase.NewRecordBenchmarkRateUseCase(benchmarkRepo)
	applyRateResetUC := usecase.NewApplyRateResetUseCase(loanRepo, rateEngine, publisher)
	regenerateScheduleUC := usecase.NewRegenerateScheduleUseCase(loanRepo, calendars, scheduleGenerator, publisher)
	snapshotDelinquencyUC := usecase.NewSnapshotDelinquencyUseCase(loanRepo, snapshotRepo, classifier, publisher)
	runEndOfDayUC := usecase.NewRunEndOfDayUseCase(loanRepo, applyRateResetUC, snapshotDelinquencyUC, batchMetrics, logger, cfg.EODWorkers)

	// Payment stream consumer. Payments arriving on the gateway topic flow
	// through the same use case as gRPC payments.
	paymentConsumer := infraKafka.NewPaymentConsumer(kafkapkg.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.GroupID,
	}, cfg.Kafka.PaymentTopic, makePaymentUC, logger)

	// gRPC server.
	handler := grpcPresentation.NewLoanServiceHandler(
		disburseLoanUC,
		getLoanUC,
		getScheduleUC,
		makePaymentUC,
		reversePaymentUC,
		recordRateUC,
		applyRateResetUC,
		regenerateScheduleUC,
		snapshotDelinquencyUC,
		runEndOfDayUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, cfg.ServiceName, logger)

	// HTTP server (health checks + metrics).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(cfg.ServiceName, pool, logger)
	healthHandler.RegisterRoutes(mux)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		errCh <- grpcServer.Serve(cfg.GRPCAddr())
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		if err := paymentConsumer.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	// Wait for shutdown.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	grpcServer.GracefulStop()
	if err := paymentConsumer.Close(); err != nil {
		logger.Warn("payment consumer close", "error", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}
	logger.Info("lms-core stopped")
}
