package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	logger_adapter "github.com/altatechsystems/imovel-hub-sub000/internal/adapters/logger"
	postgres_adapter "github.com/altatechsystems/imovel-hub-sub000/internal/adapters/postgres"
	rabbitmq_adapter "github.com/altatechsystems/imovel-hub-sub000/internal/adapters/rabbitmq"
	"github.com/altatechsystems/imovel-hub-sub000/internal/adapters/rest"
	"github.com/altatechsystems/imovel-hub-sub000/internal/configs"
	"github.com/altatechsystems/imovel-hub-sub000/internal/constants"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/usecase"
	"github.com/altatechsystems/imovel-hub-sub000/internal/cronjobs"
	fluentlogger "github.com/altatechsystems/imovel-hub-sub000/pkg/fluent_logger"
	"github.com/altatechsystems/imovel-hub-sub000/pkg/postgres"
	"github.com/altatechsystems/imovel-hub-sub000/pkg/rabbitmq/rabbitmq_common"
	"github.com/altatechsystems/imovel-hub-sub000/pkg/rabbitmq/rabbitmq_producer"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	scheduler *cronjobs.Scheduler

	pgPool          *pgxpool.Pool
	eventProducer   *rabbitmq_producer.Publisher
	receiptConsumer *rabbitmq_adapter.DeliveryReceiptConsumer
	logger          port.LoggerPort
	fluentClient    *fluent.Fluent // держим клиент для корректного закрытия
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
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
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

	// --- 2. ПОДКЛЮЧЕНИЕ К POSTGRESQL ---
	pgCtx, pgCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pgCancel()
	pgPool, err := postgres.NewClient(pgCtx, postgres.Config{DatabaseURL: appConfig.Postgres.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("PostgreSQL connection pool initialized.", nil)

	// --- 3. ПОДКЛЮЧЕНИЕ К RABBITMQ ---
	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	pkgLoggerBridge := rabbitmq_adapter.NewPkgLoggerBridge(producerLogger) // Используем мост

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.ConfirmationExchangeName,
		ExchangeType:             constants.ConfirmationExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   pkgLoggerBridge,
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	// --- 4. АДАПТЕРЫ ХРАНИЛИЩ И ОЧЕРЕДЕЙ ---
	tokenStorage, err := postgres_adapter.NewPostgresTokenStorage(pgPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create token storage: %w", err)
	}
	propertyStorage, err := postgres_adapter.NewPostgresPropertyStorage(pgPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create property storage: %w", err)
	}
	confirmationStorage, err := postgres_adapter.NewPostgresConfirmationStorage(pgPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create confirmation storage: %w", err)
	}
	importBatchStorage, err := postgres_adapter.NewPostgresImportBatchStorage(pgPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create import batch storage: %w", err)
	}
	deliveryQueueAdapter, err := rabbitmq_adapter.NewRabbitMQDeliveryQueueAdapter(eventProducer)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery queue adapter: %w", err)
	}

	// ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики)
	tokenTTL := time.Duration(appConfig.Confirmation.TokenTTLDays) * 24 * time.Hour
	pendingGrace := time.Duration(appConfig.Confirmation.PendingGraceDays) * 24 * time.Hour

	scheduleUseCase := usecase.NewScheduleMonthlyUseCase(propertyStorage, confirmationStorage, appConfig.Confirmation.PublicBaseURL, tokenTTL)
	processUseCase := usecase.NewProcessPendingUseCase(confirmationStorage, deliveryQueueAdapter, pendingGrace)
	validateTokenUseCase := usecase.NewValidateTokenUseCase(tokenStorage, propertyStorage)
	submitUseCase := usecase.NewSubmitConfirmationUseCase(tokenStorage, confirmationStorage)
	issueLinkUseCase := usecase.NewIssueConfirmationLinkUseCase(propertyStorage, confirmationStorage, appConfig.Confirmation.PublicBaseURL, tokenTTL)
	operatorUseCase := usecase.NewOperatorConfirmUseCase(propertyStorage)
	listUseCase := usecase.NewListConfirmationsUseCase(confirmationStorage)
	cancelUseCase := usecase.NewCancelConfirmationUseCase(confirmationStorage)
	metricsUseCase := usecase.NewGetConfirmationMetricsUseCase(confirmationStorage, appConfig.Confirmation.StalenessThresholdDays)
	importBatchUseCase := usecase.NewGetImportBatchUseCase(importBatchStorage)
	receiptUseCase := usecase.NewRecordDeliveryReceiptUseCase(confirmationStorage)

	receiptConsumer, err := rabbitmq_adapter.NewDeliveryReceiptConsumer(appConfig.RabbitMQ.URL, connManager, receiptUseCase, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery receipt consumer: %w", err)
	}

	appLogger.Info("All use cases initialized", nil)

	publicHandlers := rest.NewPublicHandlers(validateTokenUseCase, submitUseCase)
	adminHandlers := rest.NewAdminHandlers(scheduleUseCase, processUseCase, issueLinkUseCase, operatorUseCase,
		listUseCase, cancelUseCase, metricsUseCase, importBatchUseCase)
	apiServer := rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.AllowedOrigins, publicHandlers, adminHandlers, baseLogger)

	var scheduler *cronjobs.Scheduler
	if appConfig.Cron.Enabled {
		schedulerLogger := baseLogger.WithFields(port.Fields{"component": "cron_scheduler"})
		scheduler = cronjobs.NewScheduler(scheduleUseCase, processUseCase, propertyStorage, schedulerLogger,
			appConfig.Cron.MonthlySpec, appConfig.Cron.DailySpec)
	}

	// 5. Собираем приложение
	application := &App{
		config:          appConfig,
		apiServer:       apiServer,
		scheduler:       scheduler,
		pgPool:          pgPool,
		eventProducer:   eventProducer,
		receiptConsumer: receiptConsumer,
		logger:          appLogger,
		fluentClient:    fluentClient,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.scheduler != nil {
			a.scheduler.Stop()
		}

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.receiptConsumer != nil {
			if err := a.receiptConsumer.Close(); err != nil {
				a.logger.Error("Error closing receipt consumer", err, nil)
			}
		}

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.pgPool != nil {
			a.pgPool.Close()
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			cancelApp()
			return fmt.Errorf("failed to start cron scheduler: %w", err)
		}
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	consumerErrors := make(chan error, 1)
	go func() {
		if err := a.receiptConsumer.StartConsuming(appCtx); err != nil {
			consumerErrors <- fmt.Errorf("delivery receipt consumer failed: %w", err)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed to start, shutting down", err, nil)
	case err := <-consumerErrors:
		a.logger.Error("Delivery receipt consumer failed, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
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
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
