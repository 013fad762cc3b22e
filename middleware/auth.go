package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mforum/utils"
)

// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
const ContextUserIDKey = "user_id"

// TokenResolver maps a bearer token to the user it was issued for.
type TokenResolver interface {
	ResolveToken(token string) (uint, error)
}

// AuthRequired ensures the request carries a valid bearer token and records the caller's id.
func AuthRequired(tokens TokenResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		userID, err := tokens.ResolveToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				utils.Error(ctx, http.StatusUnauthorized, 40104, "token expired")
			} else {
				utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			}
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, userID)
		ctx.Next()
	}
}

// CurrentUserID returns the identity AuthRequired resolved for this request.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}
