package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// WriteError maps a typed error to an HTTP response. Internal causes are
// logged but never serialized to clients.
func WriteError(c *gin.Context, log *logger.Logger, err error) {
	var he *types.HeavenError
	if !errors.As(err, &he) {
		log.Error("Unhandled error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    types.ErrCodeInternalError,
				"message": "Internal server error",
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch he.Kind {
	case types.ErrorKindValidation, types.ErrorKindExpired:
		status = http.StatusBadRequest
	case types.ErrorKindAuthentication:
		status = http.StatusUnauthorized
	case types.ErrorKindForbidden:
		status = http.StatusForbidden
	case types.ErrorKindNotFound:
		status = http.StatusNotFound
	case types.ErrorKindConflict:
		status = http.StatusConflict
	case types.ErrorKindDelivery:
		status = http.StatusBadGateway
	case types.ErrorKindInternal:
		log.Error("Internal error", "code", he.Code, "error", he.Cause, "path", c.Request.URL.Path)
	}

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    he.Code,
			"message": he.Message,
		},
	})
}

// WriteBadRequest reports a request binding or validation failure
func WriteBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    types.ErrCodeInvalidInput,
			"message": err.Error(),
		},
	})
}
