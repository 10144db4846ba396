package service

import "github.com/Behyna/whatsapp-relay/pkg/cloudapi"

type VerifyCommand struct {
	Mode      string
	Token     string
	Challenge string
}

type IncomingMessageCommand struct {
	MessageID string
	From      string
	Body      string
}

// ReplyResult is the outcome of one outbound reply, delivered once on the
// channel returned by ReplyDispatcher.Dispatch.
type ReplyResult struct {
	Command  IncomingMessageCommand
	Response cloudapi.Response
	Err      error
}

type ProcessResult struct {
	Messages int
	Statuses int
	Skipped  int
	Replies  []<-chan ReplyResult
}
