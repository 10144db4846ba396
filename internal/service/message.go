package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/pkg/cloudapi"
	"go.uber.org/zap"
)

const (
	ReplyOutcomeSent          = "sent"
	ReplyOutcomeFailed        = "failed"
	ReplyOutcomeNotConfigured = "not_configured"
)

type MessageService interface {
	HandleIncoming(ctx context.Context, cmd IncomingMessageCommand) (cloudapi.Response, error)
}

type message struct {
	sender  cloudapi.Sender
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewMessageService(sender cloudapi.Sender, metrics *metrics.Metrics, logger *zap.Logger) MessageService {
	return &message{sender: sender, metrics: metrics, logger: logger}
}

func ReplyText(body string) string {
	return constants.ReplyPrefix + body
}

func (m *message) HandleIncoming(ctx context.Context, cmd IncomingMessageCommand) (cloudapi.Response, error) {
	reply := ReplyText(cmd.Body)

	start := time.Now()
	response, err := m.sender.SendText(ctx, cmd.From, reply)
	duration := time.Since(start)

	if err != nil {
		if cloudapi.IsConfigError(err) {
			m.logger.Error("Outbound messaging is not configured",
				zap.Error(err),
				zap.String("to", cmd.From),
				zap.String("messageID", cmd.MessageID))
			m.metrics.RecordReply(ReplyOutcomeNotConfigured, duration)
			return cloudapi.Response{}, err
		}

		fields := []zap.Field{
			zap.Error(err),
			zap.String("to", cmd.From),
			zap.String("messageID", cmd.MessageID),
			zap.Duration("duration", duration),
		}

		var apiErr *cloudapi.APIError
		if errors.As(err, &apiErr) {
			fields = append(fields,
				zap.Int("statusCode", apiErr.StatusCode),
				zap.ByteString("response", apiErr.Body))
		}

		m.logger.Error("Error sending message", fields...)
		m.metrics.RecordReply(ReplyOutcomeFailed, duration)
		return cloudapi.Response{}, err
	}

	m.logger.Info("Response sent",
		zap.String("to", cmd.From),
		zap.String("reply", reply),
		zap.String("messageID", cmd.MessageID),
		zap.String("providerMessageID", response.MessageID()),
		zap.Duration("duration", duration))
	m.metrics.RecordReply(ReplyOutcomeSent, duration)

	return response, nil
}
