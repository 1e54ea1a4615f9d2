package internal

import (
	logger_adapter "apt-sync-service/internal/adapters/logger"
	"apt-sync-service/internal/adapters/molitfetcher"
	postgres_adapter "apt-sync-service/internal/adapters/postgres"
	rabbitmq_adapter "apt-sync-service/internal/adapters/rabbitmq"
	"apt-sync-service/internal/adapters/rest"
	"apt-sync-service/internal/configs"
	"apt-sync-service/internal/constants"
	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/port"
	"apt-sync-service/internal/core/usecase"
	fluentlogger "apt-sync-service/pkg/fluent_logger"
	"apt-sync-service/pkg/postgres"
	"apt-sync-service/pkg/retry"
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"apt-sync-service/internal/core/domain"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	runSync *usecase.RunSyncUseCase

	pool            *pgxpool.Pool
	eventsPublisher *rabbitmq_adapter.RegionEventsPublisher
	logger          port.LoggerPort
	fluentClient    *fluent.Fluent // для корректного закрытия
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. ХРАНИЛИЩЕ ---
	// Пул создается на старте и закрывается при завершении процесса;
	// адаптеры получают его как явную зависимость
	pool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    int32(appConfig.Database.MaxConns),
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("PostgreSQL connection pool initialized.", nil)

	dealStorage := postgres_adapter.NewPostgresDealStorageAdapter(pool)

	// --- 3. ИСТОЧНИК ---
	fetcher, err := molitfetcher.NewMolitFetcherAdapter(
		appConfig.Source.BaseURL,
		appConfig.Source.APIKey,
		constants.MolitPageSize,
		appConfig.Sync.BatchSize,
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create source fetcher: %w", err)
	}
	appLogger.Info("Source fetcher initialized.", nil)

	// --- 4. СОБЫТИЯ (опционально) ---
	var eventsPublisher *rabbitmq_adapter.RegionEventsPublisher
	var eventsPort port.DealEventsPort
	if appConfig.Events.Enabled {
		eventsPublisher, err = rabbitmq_adapter.NewRegionEventsPublisher(appConfig.Events.URL)
		if err != nil {
			appLogger.Error("Failed to create events publisher", err, nil)
			pool.Close()
			return nil, fmt.Errorf("failed to create events publisher: %w", err)
		}
		eventsPort = eventsPublisher
		appLogger.Info("RabbitMQ events publisher initialized.", nil)
	}

	// --- 5. USE CASES ---
	snapshotBuilder := usecase.NewSnapshotBuilderUseCase(fetcher)
	reconciler := usecase.NewReconcilerUseCase()

	syncRegion := usecase.NewSyncRegionUseCase(snapshotBuilder, reconciler, dealStorage, eventsPort, usecase.SyncRegionConfig{
		MonthCount:     appConfig.Sync.MonthCount,
		LookbackMonths: appConfig.Sync.LookbackMonths,
		Retry: retry.Config{
			MaxAttempts: appConfig.Sync.PersistMaxAttempts,
			BaseDelay:   appConfig.Sync.PersistBaseDelay,
		},
	})

	runSync := usecase.NewRunSyncUseCase(syncRegion, usecase.RunSyncConfig{
		RegionCodes: appConfig.Sync.RegionCodes,
		BatchSize:   appConfig.Sync.BatchSize,
		BatchDelay:  appConfig.Sync.BatchDelay,
	})
	appLogger.Info("All use cases initialized", port.Fields{
		"regions":  len(appConfig.Sync.RegionCodes),
		"run_mode": appConfig.RunMode,
	})

	var apiServer *rest.Server
	if appConfig.RunMode == "serve" {
		apiHandlers := rest.NewSyncHandlers(runSync)
		apiServer = rest.NewServer(appConfig.Rest.Port, apiHandlers, baseLogger)
	}

	application := &App{
		config:          appConfig,
		apiServer:       apiServer,
		runSync:         runSync,
		pool:            pool,
		eventsPublisher: eventsPublisher,
		logger:          appLogger,
		fluentClient:    fluentClient,
	}

	return application, nil
}

// RunOnce выполняет один прогон планировщика (режим "once").
// Возвращает отчет для определения кода выхода процесса.
func (a *App) RunOnce() (*domain.RunReport, error) {
	defer a.shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGINT/SIGTERM отменяют контекст, прогон завершается между батчами
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		receivedSignal := <-quit
		a.logger.Warn("Received OS signal, canceling run...", port.Fields{"signal": receivedSignal.String()})
		cancel()
	}()

	ctx = contextkeys.ContextWithLogger(ctx, a.logger)
	return a.runSync.Execute(ctx)
}

// RunServe поднимает HTTP-сервер и ждет сигнала завершения (режим "serve")
func (a *App) RunServe() error {
	defer a.shutdown()

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		return err
	}

	return nil
}

func (a *App) shutdown() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	if a.apiServer != nil {
		if err := a.apiServer.Stop(context.Background()); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
	}

	if a.eventsPublisher != nil {
		if err := a.eventsPublisher.Close(); err != nil {
			a.logger.Error("Error closing events publisher", err, nil)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// Логируем в stdout, так как fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

// RunMode — выбранный режим запуска
func (a *App) RunMode() string {
	return a.config.RunMode
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
