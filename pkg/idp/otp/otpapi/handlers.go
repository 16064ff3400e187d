// Package otpapi exposes OTP send and validate over HTTP.
package otpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oidc-lite/oidc-lite/pkg/idp/otp"
	"github.com/oidc-lite/oidc-lite/pkg/idp/otp/otpsrv"
	"github.com/oidc-lite/oidc-lite/pkg/notifx"
)

type OTPHandlers struct {
	service *otpsrv.DispatchService
}

func NewOTPHandlers(service *otpsrv.DispatchService) *OTPHandlers {
	return &OTPHandlers{service: service}
}

// RegisterRoutes mounts the OTP routes.
func (h *OTPHandlers) RegisterRoutes(app *fiber.App) {
	group := app.Group("/api/v1/otp")

	group.Post("/send", h.Send)
	group.Post("/validate", h.Validate)
}

type sendRequest struct {
	Channels  []string `json:"channels"`
	Recipient string   `json:"recipient"`
}

type validateRequest struct {
	Code string `json:"code"`
}

func (h *OTPHandlers) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return otp.ErrInvalidInput("malformed request body")
	}

	channels := make([]notifx.Channel, 0, len(req.Channels))
	for _, ch := range req.Channels {
		channels = append(channels, notifx.Channel(ch))
	}

	outcome, err := h.service.SendOTP(c.Context(), channels, req.Recipient)
	if err != nil {
		return err
	}
	return c.JSON(outcome)
}

func (h *OTPHandlers) Validate(c *fiber.Ctx) error {
	var req validateRequest
	if err := c.BodyParser(&req); err != nil {
		return otp.ErrInvalidInput("malformed request body")
	}

	outcome, err := h.service.ValidateOTP(c.Context(), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(outcome)
}
