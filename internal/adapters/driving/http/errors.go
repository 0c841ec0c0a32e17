package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Provider  string `json:"provider,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var svcErr *domain.ServiceError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &svcErr):
		return fiber.StatusBadGateway
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrCorpusDirNotFound):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders errors returned by handlers as ErrorResponse.
func errorHandler(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error(), RequestID: requestID(c)}

	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) {
		resp.Provider = svcErr.Provider
	}

	if status >= fiber.StatusInternalServerError {
		logger.WithFields(logger.Fields{
			"request_id": resp.RequestID,
			"path":       c.Path(),
			"status":     status,
			"error":      err,
		}).Error("request failed")
	}

	return c.Status(status).JSON(resp)
}
