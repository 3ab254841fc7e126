package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Exception is the JSON body of a failed API call.
type Exception struct {
	Code    int    `json:"code,omitempty"`    // HTTP status
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Field errors
	Data    any    `json:"data,omitempty"`    // Extra payload
}

// success writes data with 200.
func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// fail writes an Exception. A zero status becomes 400 and an empty
// message becomes the status text.
func fail(c *gin.Context, status int, message string, errs any, data ...any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if message == "" {
		message = http.StatusText(status)
	}
	e := &Exception{Code: status, Message: message, Errors: errs}
	if len(data) > 0 {
		e.Data = data[0]
	}
	c.AbortWithStatusJSON(status, e)
}
