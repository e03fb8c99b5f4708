package delivery

import (
	"errors"
	"net/http"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Response struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

type ErrorBody struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, detail string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		StatusCode: statusCode,
		Detail:     detail,
	})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrExpired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidOperation),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes it with the mapped status. Messages of
// unexpected errors are not exposed to the client.
func respondError(c *gin.Context, log *logrus.Logger, action string, err error) {
	status := mapErrorToStatus(err)
	detail := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrCheckoutFailed) {
		detail = "Internal server error"
	}
	if status >= http.StatusInternalServerError {
		log.Errorf("Handler: %s failed: %v", action, err)
	} else {
		log.Warnf("Handler: %s rejected (%d): %v", action, status, err)
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	ErrorResponse(c, status, detail)
}
