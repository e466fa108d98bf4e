package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notification-service/internal/apperr"
)

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindTransient:
		return http.StatusServiceUnavailable
	case apperr.KindDataIntegrity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error, msg string) {
	c.JSON(statusFor(err), gin.H{"error": msg})
}
