package utils

import (
	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes {success:false,error}. The error text is the message,
// with the underlying error appended when present.
func ErrorResponse(c *gin.Context, code int, message string, err error) {
	ErrorResponseWithCode(c, code, message, "", err)
}

// ErrorResponseWithCode is ErrorResponse plus a machine-readable code
// discriminator such as INVALID_AI_RESPONSE.
func ErrorResponseWithCode(c *gin.Context, code int, message, errorCode string, err error) {
	response := APIResponse{
		Success: false,
		Error:   message,
		Code:    errorCode,
	}

	if err != nil {
		response.Error = message + ": " + err.Error()
	}

	c.JSON(code, response)
}
