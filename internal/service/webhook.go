package service

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"go.uber.org/zap"
)

const (
	VerificationVerified = "verified"
	VerificationRejected = "rejected"

	EventReceived    = "received"
	EventUnsupported = "unsupported"

	statusUnknown = "unknown"
)

type WebhookService interface {
	Verify(cmd VerifyCommand) (string, error)
	ProcessEvent(ctx context.Context, envelope model.Envelope) (ProcessResult, error)
}

type webhook struct {
	verifyToken string
	processAll  bool
	replies     ReplyDispatcher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewWebhookService(cfg *config.Config, replies ReplyDispatcher, metrics *metrics.Metrics,
	logger *zap.Logger) WebhookService {
	return &webhook{
		verifyToken: cfg.Webhook.VerifyToken,
		processAll:  cfg.Webhook.ProcessAll,
		replies:     replies,
		metrics:     metrics,
		logger:      logger,
	}
}

func (w *webhook) Verify(cmd VerifyCommand) (string, error) {
	w.logger.Info("Webhook verification request",
		zap.String("mode", cmd.Mode),
		zap.String("token", cmd.Token))

	if cmd.Mode == constants.ModeSubscribe && cmd.Token == w.verifyToken {
		w.logger.Info("Webhook verified successfully")
		w.metrics.RecordVerification(VerificationVerified)
		return cmd.Challenge, nil
	}

	w.logger.Warn("Webhook verification failed",
		zap.String("mode", cmd.Mode),
		zap.String("token", cmd.Token))
	w.metrics.RecordVerification(VerificationRejected)

	return "", NewServiceError(constants.ErrCodeVerificationFailed, ErrVerificationFailed)
}

func (w *webhook) ProcessEvent(ctx context.Context, envelope model.Envelope) (ProcessResult, error) {
	var result ProcessResult

	if !envelope.IsWhatsApp() {
		w.logger.Info("Not a WhatsApp webhook event", zap.String("object", envelope.Object))
		w.metrics.RecordWebhookEvent(EventUnsupported)
		return result, NewServiceError(constants.ErrCodeUnsupportedObject, ErrUnsupportedObject)
	}

	for _, malformed := range envelope.Malformed {
		w.logger.Warn("Skipping malformed webhook entry",
			zap.Int("index", malformed.Index),
			zap.ByteString("entry", malformed.Raw),
			zap.Error(malformed.Err))
		result.Skipped++
	}

	for _, entry := range envelope.Entry {
		changes := pick(entry.Changes, w.processAll)
		if len(changes) == 0 {
			w.logger.Warn("Webhook entry without changes", zap.String("entryID", entry.ID))
			continue
		}

		for _, change := range changes {
			w.processChange(ctx, entry.ID, change.Value, &result)
		}
	}

	w.metrics.RecordWebhookEvent(EventReceived)

	return result, nil
}

func (w *webhook) processChange(ctx context.Context, entryID string, value model.ChangeValue, result *ProcessResult) {
	w.logger.Debug("Webhook body",
		zap.String("entryID", entryID),
		zap.Any("value", value))

	for _, msg := range pick(value.Messages, w.processAll) {
		cmd := IncomingMessageCommand{MessageID: msg.ID, From: msg.From, Body: msg.Body()}

		w.logger.Info("Message received",
			zap.String("from", cmd.From),
			zap.String("body", cmd.Body),
			zap.String("messageID", cmd.MessageID))
		w.metrics.RecordMessageReceived()

		result.Messages++
		result.Replies = append(result.Replies, w.replies.Dispatch(ctx, cmd))
	}

	for _, status := range pick(value.Statuses, w.processAll) {
		state := status.State()
		if state == "" {
			state = statusUnknown
		}

		w.logger.Info("Message status update",
			zap.String("messageID", status.ID()),
			zap.String("status", state),
			zap.String("recipientID", status.RecipientID()),
			zap.Any("timestamp", status["timestamp"]))
		w.metrics.RecordStatusUpdate(state)

		result.Statuses++
	}
}

// pick returns the first element only, unless all is set.
func pick[T any](items []T, all bool) []T {
	if all || len(items) <= 1 {
		return items
	}
	return items[:1]
}
