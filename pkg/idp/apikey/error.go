package apikey

import (
	"net/http"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("APIKEY")

var (
	CodeInvalidInput  = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "API key id and payload are required")
	CodeAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "An API key with this id already exists")
	CodeNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "API key not found")
	CodeStoreFailure  = ErrRegistry.Register("STORE_FAILURE", errx.TypeInternal, http.StatusInternalServerError, "API key store operation failed")
)

func ErrInvalidInput(message string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, message)
}

func ErrAlreadyExists() *errx.Error { return ErrRegistry.New(CodeAlreadyExists) }

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }

func ErrStoreFailure(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreFailure, cause)
}
