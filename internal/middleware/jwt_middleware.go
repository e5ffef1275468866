package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

const actorKey = "actor"

type JWTMiddleware struct {
	allowQueryToken bool
}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

// WithQueryToken also accepts ?token=, for EventSource clients that cannot
// set headers.
func (m *JWTMiddleware) WithQueryToken() *JWTMiddleware {
	return &JWTMiddleware{allowQueryToken: true}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.extractToken(c)
		if !ok {
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set(actorKey, &models.Actor{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   models.Role(claims.Role),
		})
		c.Next()
	}
}

func (m *JWTMiddleware) extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if m.allowQueryToken {
			if t := c.Query("token"); t != "" {
				return t, true
			}
		}
		utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
		c.Abort()
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
		c.Abort()
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// GetActor returns the authenticated caller, or nil when the JWT middleware
// did not run.
func GetActor(c *gin.Context) *models.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*models.Actor)
	return actor
}
