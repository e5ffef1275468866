package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// RequireRole only lets through actors holding one of roles. It must run
// after the JWT middleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			utils.Error(c, 401, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}
		if !allowed[actor.Role] {
			log.Warn().
				Str("user_id", actor.UserID).
				Str("role", string(actor.Role)).
				Str("path", c.FullPath()).
				Msg("Role not permitted")
			utils.Error(c, 403, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly is RequireRole(models.RoleAdmin).
func AdminOnly() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
