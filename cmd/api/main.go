package main

import (
	"context"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/api"
	"github.com/Behyna/whatsapp-relay/internal/api/v1"
	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/cloudapi"
	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	version               = "1.0.0"
	systemMetricsInterval = 15 * time.Second
	userAgent             = "whatsapp-relay/" + version
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			NewLogger,
			metrics.NewRegistry,
			metrics.NewMetrics,
			metrics.NewSystemCollector,
			NewCloudAPI,

			service.NewMessageService,
			service.NewReplyDispatcher,
			service.NewWebhookService,

			api.NewApp,
			api.NewHandler,
			v1.NewHandler,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *api.Handler, webhook *v1.Handler, registry *prometheus.Registry,
	cfg *config.Config, m *metrics.Metrics, collector *metrics.SystemCollector, replies service.ReplyDispatcher,
	logger *zap.Logger, lc fx.Lifecycle,
) {
	api.SetupRoutes(app, handler, webhook, registry)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			m.SetServiceVersion(version, cfg.Environment)
			collector.Start(systemMetricsInterval)

			go func() {
				if err := app.Listen(cfg.API.Address()); err != nil {
					logger.Error("server stopped", zap.Error(err))
				}
			}()

			logger.Info("WhatsApp webhook server is running",
				zap.String("port", cfg.API.Port),
				zap.String("webhook", constants.WebhookPath),
				zap.String("health", constants.HealthPath),
				zap.String("environment", cfg.Environment))

			if cfg.CloudAPI.AccessToken == "" || cfg.CloudAPI.PhoneNumberID == "" {
				logger.Warn("ACCESS_TOKEN or PHONE_NUMBER_ID not provided, replies will not be sent")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				logger.Error("failed to shut down server", zap.Error(err))
			}

			if err := replies.Wait(ctx); err != nil {
				logger.Warn("replies still in flight at shutdown", zap.Error(err))
			}

			collector.Stop()
			_ = logger.Sync()
			return nil
		},
	})
}

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func NewCloudAPI(cfg *config.Config) cloudapi.Sender {
	client := httpclient.NewHTTPClient(cfg.CloudAPI.Timeout,
		httpclient.WithStaticHeaders(map[string]string{"User-Agent": userAgent}))
	return cloudapi.NewCloudAPI(cfg.CloudAPI, client, validator.New())
}
