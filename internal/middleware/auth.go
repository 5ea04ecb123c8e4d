package middleware

import (
	"strings"

	"mnemosine-api/auth"
	"mnemosine-api/internal/errors"

	"github.com/gin-gonic/gin"
)

type UserProvider interface {
	UserExists(id uint64) bool
}

type Auth struct {
	UserService UserProvider
}

// AuthMiddleware resolves the bearer token to a user id and stores it
// in the request context under "user_id".
func (m *Auth) AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, err := auth.UserIDFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		if !m.UserService.UserExists(userID) {
			ctx.Error(errors.Unauthorized("Invalid User ID!", nil))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Set("jwt_token", token)
		ctx.Next()
	}
}

// CronAuthMiddleware guards the external scheduler trigger with a shared
// secret. An empty configured secret disables the check (development).
func CronAuthMiddleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secret == "" {
			ctx.Next()
			return
		}

		token := strings.TrimPrefix(
			ctx.GetHeader("Authorization"),
			"Bearer ",
		)

		if token != secret {
			ctx.Error(errors.Unauthorized("Unauthorized scheduler call!", nil))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
