package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope is the uniform wire contract shared by every endpoint:
// {"status":"success","data":...} or {"status":"error","message":...}.
type Envelope struct {
	Status     string             `json:"status"`
	Data       interface{}        `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Code       string             `json:"code,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// JSON sends a success envelope with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Status: statusSuccess, Data: data, Pagination: pagination})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error envelope converting the error to the common structure.
// Internal errors surface a generic message; the cause stays server-side.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		message = appErrors.ErrInternal.Message
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Status: statusError, Message: message, Code: appErr.Code})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
