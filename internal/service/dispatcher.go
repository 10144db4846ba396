package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ReplyDispatcher runs message handling off the request path. The webhook
// acknowledgement and the outbound result complete independently.
type ReplyDispatcher interface {
	Dispatch(ctx context.Context, cmd IncomingMessageCommand) <-chan ReplyResult
	// Wait blocks until every dispatched reply has finished or ctx is done.
	Wait(ctx context.Context) error
}

type replyDispatcher struct {
	handler MessageService
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewReplyDispatcher(handler MessageService, logger *zap.Logger) ReplyDispatcher {
	return &replyDispatcher{handler: handler, logger: logger}
}

func (d *replyDispatcher) Dispatch(ctx context.Context, cmd IncomingMessageCommand) <-chan ReplyResult {
	done := make(chan ReplyResult, 1)
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(done)

		done <- d.handle(ctx, cmd)
	}()

	return done
}

func (d *replyDispatcher) handle(ctx context.Context, cmd IncomingMessageCommand) (result ReplyResult) {
	result.Command = cmd

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Error handling incoming message",
				zap.Any("panic", r),
				zap.String("from", cmd.From),
				zap.String("messageID", cmd.MessageID))
			result.Err = fmt.Errorf("message handler panicked: %v", r)
		}
	}()

	result.Response, result.Err = d.handler.HandleIncoming(ctx, cmd)
	return result
}

func (d *replyDispatcher) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
