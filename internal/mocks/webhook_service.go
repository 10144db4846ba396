package mocks

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/stretchr/testify/mock"
)

type WebhookService struct {
	mock.Mock
}

func (w *WebhookService) Verify(cmd service.VerifyCommand) (string, error) {
	args := w.Called(cmd)
	return args.String(0), args.Error(1)
}

func (w *WebhookService) ProcessEvent(ctx context.Context, envelope model.Envelope) (service.ProcessResult, error) {
	args := w.Called(ctx, envelope)
	return args.Get(0).(service.ProcessResult), args.Error(1)
}
