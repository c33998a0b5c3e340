package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/domain"
	"campushub/internal/service"
)

// writeError maps domain errors onto the API error body and aborts the chain.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		status  int
		kind    string
		message string
	)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, kind, message = http.StatusBadRequest, "invalid_input", err.Error()
	case errors.Is(err, domain.ErrConflict):
		status, kind, message = http.StatusConflict, "conflict", "already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, kind, message = http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		status, kind, message = http.StatusUnauthorized, "unauthorized", "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		status, kind, message = http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, service.ErrStorageDisabled):
		status, kind, message = http.StatusServiceUnavailable, "unavailable", err.Error()
	default:
		h.log(c).WithError(err).Error("request failed")
		status, kind, message = http.StatusInternalServerError, "internal", "server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message})
}

func invalidInput(msg string) error {
	return fmt.Errorf("%s: %w", msg, domain.ErrInvalidInput)
}
