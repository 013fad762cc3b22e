package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mforum/utils"
)

// multipartSlack leaves room for multipart headers and boundaries around the file part.
const multipartSlack = 1 << 20

// BodyLimit caps the request body so oversized uploads fail while being read, before any
// handler gets to store them.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > maxBytes+multipartSlack {
			ctx.Header("Connection", "close")
			utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "File too large")
			ctx.Abort()
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes+multipartSlack)
		ctx.Next()
	}
}
