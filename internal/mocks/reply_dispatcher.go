package mocks

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/stretchr/testify/mock"
)

type ReplyDispatcher struct {
	mock.Mock
}

func (r *ReplyDispatcher) Dispatch(ctx context.Context, cmd service.IncomingMessageCommand) <-chan service.ReplyResult {
	args := r.Called(ctx, cmd)
	return args.Get(0).(<-chan service.ReplyResult)
}

func (r *ReplyDispatcher) Wait(ctx context.Context) error {
	args := r.Called(ctx)
	return args.Error(0)
}
