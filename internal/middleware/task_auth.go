package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/database"
	apierrors "github.com/obraflow/obraflow-api/internal/errors"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/policy"
)

// RequireTaskAccess checks if the user has access to a task.
// Privileged users see every task; everyone else must be the executor, the
// responsavel, a team member, or the supervisor or a responsible of the
// owning project.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("TeamMembers").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !taskVisible(&user, &task) {
			// Return 404 instead of 403 to avoid leaking task existence
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set("task", task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess from context
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get("task")
	if !exists {
		return nil, false
	}
	task, ok := value.(models.Task)
	if !ok {
		return nil, false
	}
	return &task, true
}

func taskVisible(user *models.User, task *models.Task) bool {
	if policy.IsPrivileged(user.Role) {
		return true
	}
	if policy.CanMutateChecklist(user.ID, task) {
		return true
	}
	if task.ResponsavelID != nil && *task.ResponsavelID == user.ID {
		return true
	}

	var project models.Project
	if err := database.GetDB().First(&project, task.ProjectID).Error; err != nil {
		return false
	}
	if project.SupervisorID == user.ID {
		return true
	}

	var responsible models.ProjectResponsible
	err := database.GetDB().
		Where("project_id = ? AND user_id = ?", task.ProjectID, user.ID).
		First(&responsible).Error
	return err == nil
}
