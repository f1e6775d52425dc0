package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"bites4life/internal/errors"
)

// SuccessResponse is the body of mutations with nothing else to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func succeed(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// fail renders a service error through the shared error mapping.
func fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "BAD_REQUEST",
	})
}

// bind decodes and validates a JSON request body.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}
