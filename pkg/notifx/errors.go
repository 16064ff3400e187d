package notifx

import (
	"net/http"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
)

// Errors is the delivery-channel error registry, shared with the concrete
// transport sub-packages.
var Errors = errx.NewRegistry("NOTIFY")

var (
	ErrSendFailed     = Errors.Register("SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to deliver message")
	ErrInvalidMessage = Errors.Register("INVALID_MESSAGE", errx.TypeValidation, http.StatusBadRequest, "Invalid message")
	ErrUnknownChannel = Errors.Register("UNKNOWN_CHANNEL", errx.TypeValidation, http.StatusBadRequest, "Unknown delivery channel")
	ErrNoSender       = Errors.Register("NO_SENDER", errx.TypeInternal, http.StatusInternalServerError, "No sender configured for channel")
)
