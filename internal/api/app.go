package api

import (
	"github.com/Behyna/whatsapp-relay/internal/constants"
	middleware "github.com/Behyna/whatsapp-relay/internal/error"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func NewApp(m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               constants.ServiceName,
		ErrorHandler:          middleware.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	app.Use(recover.New())

	return app
}
