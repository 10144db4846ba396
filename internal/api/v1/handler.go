package v1

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger  *zap.Logger
	service service.WebhookService
}

func NewHandler(logger *zap.Logger, service service.WebhookService) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) VerifyWebhook(c *fiber.Ctx) error {
	challenge, err := h.service.Verify(service.VerifyCommand{
		Mode:      c.Query("hub.mode"),
		Token:     c.Query("hub.verify_token"),
		Challenge: c.Query("hub.challenge"),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).SendString(challenge)
}

func (h *Handler) ReceiveWebhook(c *fiber.Ctx) error {
	body := c.Body()

	h.logger.Debug("Incoming webhook", zap.ByteString("body", body))

	// Only invalid JSON fails here; see model.Envelope for how shapes are tolerated.
	var envelope model.Envelope
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to parse webhook body: %w", err)
		}
	}

	// Replies complete on their own; the acknowledgement does not wait for them.
	result, err := h.service.ProcessEvent(c.UserContext(), envelope)
	if err != nil {
		return err
	}

	h.logger.Debug("Webhook event accepted",
		zap.Int("entries", len(envelope.Entry)),
		zap.Int("messages", result.Messages),
		zap.Int("statuses", result.Statuses),
		zap.Int("skipped", result.Skipped))

	return c.Status(fiber.StatusOK).SendString(constants.BodyEventReceived)
}
