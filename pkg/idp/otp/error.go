package otp

import (
	"net/http"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeInvalidInput    = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Recipient and at least one channel are required")
	CodeSendFailed      = ErrRegistry.Register("SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to send OTP")
	CodeTooManyRequests = ErrRegistry.Register("TOO_MANY_REQUESTS", errx.TypeValidation, http.StatusTooManyRequests, "Too many OTP requests")
)

func ErrInvalidInput(message string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, message)
}

func ErrSendFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeSendFailed, cause)
}

func ErrTooManyRequests() *errx.Error { return ErrRegistry.New(CodeTooManyRequests) }
