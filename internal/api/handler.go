package api

import (
	"time"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Handler struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger, now: time.Now}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(timestampLayout),
		Service:   constants.ServiceName,
	})
}

func (h *Handler) Info(c *fiber.Ctx) error {
	return c.JSON(InfoResponse{
		Message: constants.ServiceName + " Server",
		Status:  "running",
		Endpoints: Endpoints{
			WebhookVerification: "GET " + constants.WebhookPath,
			WebhookHandler:      "POST " + constants.WebhookPath,
			HealthCheck:         "GET " + constants.HealthPath,
			Metrics:             "GET " + constants.MetricsPath,
		},
	})
}
