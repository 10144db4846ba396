package service

import (
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/constants"
)

var (
	ErrVerificationFailed = errors.New(constants.ErrCodeVerificationFailed)
	ErrUnsupportedObject  = errors.New(constants.ErrCodeUnsupportedObject)
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
