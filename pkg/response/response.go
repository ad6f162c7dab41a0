// Package response provides the unified JSON envelope for all HTTP responses.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkup-service/pkg/apperrors"
)

// Envelope is the response body shape shared by success and error responses.
type Envelope struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a 200 with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: "OK", Message: "success", Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Code: "OK", Message: "success", Data: data})
}

// Message writes a 200 with a custom message and no data.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Code: "OK", Message: message})
}

// Error classifies err and writes the mapped status with a stable code.
// Internal errors are logged with their cause; clients only see a generic
// message.
func Error(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", appErr.Error(),
		)
	}
	c.JSON(appErr.Status, Envelope{Code: appErr.Code, Message: appErr.Message})
}
