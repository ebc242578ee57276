package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse[T any] struct {
	StatusCode int      `json:"statusCode"`
	Data       T        `json:"data,omitempty"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

// Page is the envelope for paginated listings.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
}

// Success writes the success envelope with the given status.
func Success[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse[T]{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Error writes the error envelope and aborts the handler chain.
func Error(c *gin.Context, status int, message string, errs ...string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if errs == nil {
		errs = []string{}
	}
	c.AbortWithStatusJSON(status, APIResponse[any]{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     errs,
	})
}
