package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagination is attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type APIResponse[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       T           `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Success writes a success envelope with data.
func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.JSON(status, resp)
	return resp
}

// List writes a 200 envelope carrying items and page metadata.
func List[T any](ctx *gin.Context, items []T, message string, p Pagination) APIResponse[[]T] {
	if items == nil {
		items = []T{}
	}
	resp := APIResponse[[]T]{
		Success:    true,
		Message:    message,
		Data:       items,
		Pagination: &p,
		RequestID:  ctx.GetString("request_id"),
	}
	ctx.JSON(http.StatusOK, resp)
	return resp
}

// Error writes a failure envelope and aborts the handler chain.
// kind is the machine-readable error class, e.g. "not_found".
func Error(ctx *gin.Context, status int, message string, kind string) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[any]{
		Success:   false,
		Message:   message,
		Error:     kind,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// Invalid writes a 400 validation envelope with per-field details.
func Invalid(ctx *gin.Context, message string, details interface{}) APIResponse[any] {
	resp := APIResponse[any]{
		Success:   false,
		Message:   message,
		Error:     "validation",
		Details:   details,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, resp)
	return resp
}
