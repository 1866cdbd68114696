package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/academy-edu/auth-service/internal/utils"
)

// ErrorResponse is the generic error body for non-account endpoints.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the shared logging helpers every handler embeds.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a request-scoped info line.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.FromContext(c.Request.Context(), h.logger)
	logger.Info(msg, args...)
}

// LogError logs a request-scoped error with its detail. The detail stays in
// the logs; callers only ever see an opaque message.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	logger := utils.FromContext(c.Request.Context(), h.logger)
	logger.Error(msg, append([]any{"error", err}, args...)...)
}
