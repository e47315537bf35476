package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/database"
	apierrors "github.com/obraflow/obraflow-api/internal/errors"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/policy"
)

// RequirePrivileged allows only DIRETOR, GM and SUPERVISOR users through.
// The loaded user is stored in context under "current_user".
func RequirePrivileged() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !policy.IsPrivileged(user.Role) {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}
