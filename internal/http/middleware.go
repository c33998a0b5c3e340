package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"campushub/internal/domain"
)

type ctxKey string

const (
	identityKey ctxKey = "campushub.identity"

	ginIdentityKey = "identity"
	ginLoggerKey   = "logger"
)

// WithIdentity stores the authenticated identity in ctx.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext fetches the identity attached by the authorization gate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		entry := h.logger.WithField("request_id", requestID)
		c.Set(ginLoggerKey, entry)
		c.Header("X-Request-ID", requestID)

		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.WithFields(fields).Warn("request")
			return
		}
		entry.WithFields(fields).Info("request")
	}
}

func (h *Handler) log(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(ginLoggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(h.logger)
}

// corsMiddleware only admits browser requests from the configured origins.
// Requests without an Origin header are not cross-origin and pass through.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if _, ok := h.origins[strings.TrimRight(origin, "/")]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "origin not allowed"})
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Add("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth resolves the session cookie to an identity or stops the request
// with 401.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookie.Name)
		if err != nil || token == "" {
			h.writeError(c, domain.ErrUnauthorized)
			return
		}

		id, err := h.svc.Sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			h.writeError(c, err)
			return
		}

		c.Set(ginIdentityKey, id)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// identity returns the identity set by requireAuth. Handlers behind the gate
// can rely on it being present.
func identity(c *gin.Context) domain.Identity {
	if v, ok := c.Get(ginIdentityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	id, _ := IdentityFromContext(c.Request.Context())
	return id
}
