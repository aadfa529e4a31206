package http

import (
	"errors"
	"log/slog"
	"net/http"

	"disclosure-intake/internal/domain/analytics"
	"disclosure-intake/internal/domain/submission"

	"github.com/labstack/echo/v4"
)

// Map domain errors → HTTP codes. Anything unrecognised is logged and hidden behind a 500.
func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "err", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}

	resp := ErrorResponse{Error: rootMessage(err)}
	var fe *submission.FieldError
	if errors.As(err, &fe) {
		resp.Details = []FieldError{{Field: fe.Field, Message: fe.Err.Error(), Value: fe.Value}}
	}
	return c.JSON(code, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, submission.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, submission.ErrVerificationOutOfSequence):
		return http.StatusConflict
	case errors.Is(err, submission.ErrInvalidInput),
		errors.Is(err, submission.ErrInvalidNationalID),
		errors.Is(err, submission.ErrInvalidCard),
		errors.Is(err, submission.ErrUnknownStep),
		errors.Is(err, submission.ErrInvalidStatus),
		errors.Is(err, analytics.ErrInvalidEvent):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// rootMessage is the sentinel text, without field context.
func rootMessage(err error) string {
	var fe *submission.FieldError
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
