package app

import (
	"context"
	"net/http"
	"time"

	"github.com/iwtcode/roombaService/internal/adapters/handlers"
	"github.com/iwtcode/roombaService/internal/adapters/repositories/postgres"
	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/interfaces"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
	"github.com/iwtcode/roombaService/internal/services/kafka"
	"github.com/iwtcode/roombaService/internal/services/roomba_service"
	"github.com/iwtcode/roombaService/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		ProducerModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для хуков жизненного цикла
		fx.Invoke(InvokeRobotConnection),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "RoombaServiceApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(postgres.NewRepository),
)

var ProducerModule = fx.Module("producer_module",
	fx.Provide(kafka.NewKafkaProducer),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(roomba_service.NewRoombaService),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeRobotConnection поднимает подключение к роботу при старте
// и закрывает его вместе с Kafka-продюсером при остановке.
func InvokeRobotConnection(lc fx.Lifecycle, svc interfaces.RoombaService, producer interfaces.KafkaService, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Connecting to robot...")
			if err := svc.Connect(); err != nil {
				// Робот может быть выключен или занят другим клиентом,
				// подключение можно поднять позже через API
				logger.Warn("Initial robot connection failed, use /session/connect to retry", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Disconnecting from robot...")
			if err := svc.Disconnect(); err != nil {
				logger.Error("Failed to disconnect from robot", "error", err)
			}
			return producer.Close()
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
