package mocks

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/cloudapi"
	"github.com/stretchr/testify/mock"
)

type MessageService struct {
	mock.Mock
}

func (m *MessageService) HandleIncoming(ctx context.Context, cmd service.IncomingMessageCommand) (cloudapi.Response, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(cloudapi.Response), args.Error(1)
}
