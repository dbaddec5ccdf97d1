package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"member-portal-api/internal/apperr"
)

// statusOf maps an error kind to its HTTP status. A wrong owner answers 401 like a
// missing session does.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthorized, apperr.KindForbidden:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

func errorBody(err error, details any) gin.H {
	body := gin.H{
		"error": apperr.Message(err),
		"kind":  apperr.KindOf(err),
	}
	if details != nil {
		body["details"] = details
	}
	return body
}

// writeError answers with the kind's status. Storage failures are logged with their
// cause, which never reaches the client.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	writeErrorDetails(c, logger, op, err, nil)
}

func writeErrorDetails(c *gin.Context, logger *zap.Logger, op string, err error, details any) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindStorageUnavailable {
		logger.Error(op+" failed", zap.Error(err))
	}
	c.JSON(statusOf(kind), errorBody(err, details))
}
