package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created returns a standard 201 response.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, 0, "created", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// Fail maps err onto the taxonomy and writes the error envelope with code status*100+site,
// site being a two-digit number identifying the failing call site. Errors outside the
// taxonomy, and persistence errors, are logged and reduced to a generic 500.
func Fail(ctx *gin.Context, site int, err error) {
	status := StatusOf(err)
	code := status*100 + site%100
	if status == http.StatusInternalServerError {
		Logger.Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("code", code),
			zap.Error(err),
		)
		Error(ctx, status, code, "internal server error")
		return
	}
	Error(ctx, status, code, publicMessage(err))
}

// publicMessage drops the taxonomy prefix, leaving the detail added by the wrapper.
func publicMessage(err error) string {
	msg := err.Error()
	for _, base := range []error{ErrValidation, ErrDuplicate, ErrAuthentication, ErrAuthorization, ErrNotFound, ErrTooLarge} {
		if errors.Is(err, base) {
			prefix := base.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			break
		}
	}
	return msg
}
