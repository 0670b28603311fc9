package server

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// successResponse is the uniform success envelope. Failures use the
// structured error envelope rendered by the error middleware.
type successResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(c echo.Context, status int, data any, message string) error {
	resp := successResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	}
	if err := c.JSON(status, resp); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
