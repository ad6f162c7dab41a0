package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"linkup-service/internal/user"
	"linkup-service/pkg/apperrors"
	"linkup-service/pkg/response"
)

// Claims carried by the identity provider's tokens. Subject is the external
// identity id; the local user id is resolved separately by RequireUser.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	jwtSecret []byte
	users     *user.Service
}

func NewAuthMiddleware(jwtSecret string, users *user.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret), users: users}
}

// RequireAuth verifies the bearer token and stores the external identity id
// in the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.Unauthorized("authorization header is required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, apperrors.Unauthorized("invalid authorization header"))
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return am.jwtSecret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			response.Error(c, apperrors.Unauthorized("invalid token"))
			c.Abort()
			return
		}

		c.Set("external_id", claims.Subject)
		c.Next()
	}
}

// RequireUser resolves the external identity to a local user row and stores
// the local user id. Routes behind it require a completed identity sync.
func (am *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID := c.GetString("external_id")
		if externalID == "" {
			response.Error(c, apperrors.Unauthorized("missing identity context"))
			c.Abort()
			return
		}

		u, err := am.users.GetByExternalID(c.Request.Context(), externalID)
		if err != nil {
			if apperrors.HasCode(err, apperrors.CodeNotFound) {
				response.Error(c, apperrors.Unauthorized("identity not synced"))
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}

		c.Set("user_id", u.ID)
		c.Next()
	}
}
