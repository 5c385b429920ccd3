package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/logger"
)

// Envelope is the body of every API response.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *ErrorBody             `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// ErrorBody is the client-facing view of an error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON sends data with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Error maps err to a status code and writes the error envelope. Storage
// causes are logged, not returned.
func Error(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	body := &ErrorBody{Code: apperrors.KindOf(err).String(), Message: "internal error"}

	var appErr *apperrors.Error
	if stderrors.As(err, &appErr) {
		body.Message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}

	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, Envelope{Error: body})
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(c *gin.Context, message string) {
	Error(c, apperrors.Validation("server", "%s", message))
}
