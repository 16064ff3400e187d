// Package refreshtokenapi exposes refresh-token operations over HTTP.
package refreshtokenapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken/refreshtokensrv"
)

// HeaderTenantID carries the tenant scope for user-keyed token listings.
const HeaderTenantID = "x-tenant-id"

type RefreshTokenHandlers struct {
	service *refreshtokensrv.RefreshTokenService
}

func NewRefreshTokenHandlers(service *refreshtokensrv.RefreshTokenService) *RefreshTokenHandlers {
	return &RefreshTokenHandlers{service: service}
}

// RegisterRoutes mounts the refresh-token routes.
func (h *RefreshTokenHandlers) RegisterRoutes(app *fiber.App) {
	app.Post("/api/v1/token/refresh", h.Refresh)

	group := app.Group("/api/v1/refresh-tokens")
	group.Get("/:id", h.GetByID)
	group.Get("/user/:userId", h.GetByUserID)
	group.Delete("/application/:applicationId", h.DeleteByApplicationID)
	group.Delete("/user/:userId", h.DeleteByUserID)
	group.Delete("/user/:userId/application/:applicationId", h.DeleteByUserAndApplicationID)
	group.Delete("/id/:id", h.DeleteByTokenID)
	group.Delete("/token/:token", h.DeleteByToken)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *RefreshTokenHandlers) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return refreshtoken.ErrInvalidInput("malformed request body")
	}

	result, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": result})
}

func (h *RefreshTokenHandlers) GetByID(c *fiber.Ctx) error {
	stored, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stored})
}

func (h *RefreshTokenHandlers) GetByUserID(c *fiber.Ctx) error {
	tokens, err := h.service.GetByUserID(c.Context(), c.Params("userId"), c.Get(HeaderTenantID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": tokens})
}

func (h *RefreshTokenHandlers) DeleteByApplicationID(c *fiber.Ctx) error {
	err := h.service.DeleteByApplicationID(c.Context(), requestHeaders(c), c.Params("applicationId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "refresh tokens deleted"})
}

func (h *RefreshTokenHandlers) DeleteByUserID(c *fiber.Ctx) error {
	err := h.service.DeleteByUserID(c.Context(), requestHeaders(c), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "refresh tokens deleted"})
}

func (h *RefreshTokenHandlers) DeleteByUserAndApplicationID(c *fiber.Ctx) error {
	err := h.service.DeleteByUserAndApplicationID(c.Context(), requestHeaders(c), c.Params("userId"), c.Params("applicationId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "refresh tokens deleted"})
}

func (h *RefreshTokenHandlers) DeleteByTokenID(c *fiber.Ctx) error {
	err := h.service.DeleteByTokenID(c.Context(), requestHeaders(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "refresh token deleted"})
}

func (h *RefreshTokenHandlers) DeleteByToken(c *fiber.Ctx) error {
	err := h.service.DeleteByToken(c.Context(), requestHeaders(c), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "refresh token deleted"})
}

func requestHeaders(c *fiber.Ctx) map[string]string {
	headers := make(map[string]string)
	for name, values := range c.GetReqHeaders() {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}
	return headers
}
