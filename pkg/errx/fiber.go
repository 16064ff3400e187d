package errx

import (
	"github.com/gofiber/fiber/v2"
)

// HTTPResponse is the wire shape every failed request returns. Success is
// always false here; handlers that succeed build their own response bodies.
type HTTPResponse struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
}

// ToHTTPResponse converts an Error to its wire shape. The wrapped cause is
// deliberately excluded so driver errors never leak to callers.
func (e *Error) ToHTTPResponse() HTTPResponse {
	return HTTPResponse{
		Success: false,
		Code:    e.Code,
		Message: e.Message,
		Type:    string(e.Type),
		Details: e.Details,
	}
}

// FiberErrorHandler translates errors returned by handlers into JSON
// responses. Install it as the app-level fiber ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var e *Error
	if As(err, &e) {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	var fe *fiber.Error
	if As(err, &fe) {
		return c.Status(fe.Code).JSON(HTTPResponse{
			Success: false,
			Code:    string(TypeInternal),
			Message: fe.Message,
			Type:    string(TypeInternal),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(HTTPResponse{
		Success: false,
		Code:    string(TypeInternal),
		Message: "internal server error",
		Type:    string(TypeInternal),
	})
}
