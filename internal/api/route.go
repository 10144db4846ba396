package api

import (
	"github.com/Behyna/whatsapp-relay/internal/api/v1"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, handler *Handler, webhook *v1.Handler, registry *prometheus.Registry) {
	app.Get("/", handler.Info)
	app.Get(constants.HealthPath, handler.Health)
	app.Get(constants.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.Get(constants.WebhookPath, webhook.VerifyWebhook)
	app.Post(constants.WebhookPath, webhook.ReceiveWebhook)
}
