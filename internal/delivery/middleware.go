package delivery

import (
	"fmt"
	"strings"
	"time"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const identityKey = "identity"

// TokenVerifier turns a bearer token into the caller identity.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// Authenticate requires a valid bearer token and stores the caller identity
// in the gin context.
func Authenticate(verifier TokenVerifier, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, log, "authentication", fmt.Errorf("%w: authorization header required", domain.ErrUnauthenticated))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respondError(c, log, "authentication", fmt.Errorf("%w: invalid authorization header format", domain.ErrUnauthenticated))
			return
		}

		identity, err := verifier.Verify(parts[1])
		if err != nil {
			respondError(c, log, "authentication", err)
			return
		}

		log.Debugf("Middleware: Authenticated user %d (admin=%t)", identity.ID, identity.IsAdmin)
		c.Set(identityKey, identity)
		c.Next()
	}
}

// identityFrom returns the caller stored by Authenticate, or nil.
func identityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*domain.Identity)
	return identity
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  time.Since(startTime).Milliseconds(),
		})
		if identity := identityFrom(c); identity != nil {
			entry = entry.WithField("user_id", identity.ID)
		}

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
