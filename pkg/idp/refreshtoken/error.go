package refreshtoken

import (
	"net/http"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("TOKEN")

var (
	CodeInvalidInput = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Invalid input")
	CodeInvalid      = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "invalid refresh token")
	CodeExpired      = ErrRegistry.Register("EXPIRED", errx.TypeValidation, http.StatusBadRequest, "refresh token had expired")
	CodeNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "refresh token is not generated")
	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Unauthorized")
	CodeStoreFailure = ErrRegistry.Register("STORE_FAILURE", errx.TypeInternal, http.StatusInternalServerError, "Refresh token store operation failed")
)

func ErrInvalidInput(message string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, message)
}

func ErrInvalid() *errx.Error { return ErrRegistry.New(CodeInvalid) }

func ErrExpired() *errx.Error { return ErrRegistry.New(CodeExpired) }

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }

func ErrUnauthorized(message string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeUnauthorized, message)
}

func ErrStoreFailure(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreFailure, cause)
}
