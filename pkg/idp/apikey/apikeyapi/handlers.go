// Package apikeyapi exposes API key management over HTTP.
package apikeyapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey/apikeysrv"
)

type APIKeyHandlers struct {
	service *apikeysrv.APIKeyService
}

func NewAPIKeyHandlers(service *apikeysrv.APIKeyService) *APIKeyHandlers {
	return &APIKeyHandlers{service: service}
}

// RegisterRoutes mounts the API key management routes.
func (h *APIKeyHandlers) RegisterRoutes(app *fiber.App) {
	group := app.Group("/api/v1/api-keys")

	group.Post("/:id", h.Create)
	group.Post("/", h.CreateGenerated)
	group.Get("/:id", h.Get)
	group.Patch("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}

type keyResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// Create issues a key under the caller-chosen id.
func (h *APIKeyHandlers) Create(c *fiber.Ctx) error {
	var payload apikey.CreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return apikey.ErrInvalidInput("malformed request body")
	}

	record, err := h.service.Create(c.Context(), c.Params("id"), &payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(keyResponse{Success: true, Data: record})
}

// CreateGenerated issues a key under a generated id.
func (h *APIKeyHandlers) CreateGenerated(c *fiber.Ctx) error {
	var payload apikey.CreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return apikey.ErrInvalidInput("malformed request body")
	}

	record, err := h.service.CreateWithGeneratedID(c.Context(), &payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(keyResponse{Success: true, Data: record})
}

func (h *APIKeyHandlers) Get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(keyResponse{Success: true, Data: record})
}

func (h *APIKeyHandlers) Update(c *fiber.Ctx) error {
	var patch apikey.UpdatePayload
	if err := c.BodyParser(&patch); err != nil {
		return apikey.ErrInvalidInput("malformed request body")
	}

	record, err := h.service.Update(c.Context(), c.Params("id"), &patch)
	if err != nil {
		return err
	}
	return c.JSON(keyResponse{Success: true, Data: record})
}

func (h *APIKeyHandlers) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "API key deleted"})
}
