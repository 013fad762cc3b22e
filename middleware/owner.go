package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mforum/utils"
)

// SelfOnly lets the request through only when the caller resolved by AuthRequired is the user
// named by the :param path segment. It must run after AuthRequired and before anything reads
// the body.
func SelfOnly(param string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		caller, ok := CurrentUserID(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
			ctx.Abort()
			return
		}
		target, err := strconv.ParseUint(ctx.Param(param), 10, 64)
		if err != nil || target == 0 {
			utils.Error(ctx, http.StatusNotFound, 40412, "User not found")
			ctx.Abort()
			return
		}
		if uint(target) != caller {
			utils.Error(ctx, http.StatusForbidden, 40313, "Unauthorized")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
