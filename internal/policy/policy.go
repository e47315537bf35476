// Package policy centralizes the role and relationship checks that gate the
// task workflow. All functions are pure predicates: they never touch the
// database and never return errors; callers surface Forbidden when a
// predicate fails.
package policy

import (
	"github.com/obraflow/obraflow-api/internal/models"
)

// IsPrivileged reports whether the role may manage projects and tasks
// directly (create, edit, status override).
func IsPrivileged(role models.UserRole) bool {
	switch role {
	case models.RoleDiretor, models.RoleGM, models.RoleSupervisor:
		return true
	}
	return false
}

// CanMutateChecklist reports whether the actor may rewrite a task's checklist
// or submit checklist item evidence: the task's executor or a team member.
// task.TeamMembers must be preloaded.
func CanMutateChecklist(actorID uint64, task *models.Task) bool {
	if task.ExecutorID == actorID {
		return true
	}
	return task.HasTeamMember(actorID)
}

// CanSubmitDelivery reports whether the actor may submit or update a
// task-level delivery. Same rule as checklist mutation.
func CanSubmitDelivery(actorID uint64, task *models.Task) bool {
	return CanMutateChecklist(actorID, task)
}

// CanReviewChecklistItem reports whether the actor may review a checklist
// item delivery: directors and GMs, any supervisor, or the project's
// supervisor regardless of role.
func CanReviewChecklistItem(actor *models.User, project *models.Project) bool {
	switch actor.Role {
	case models.RoleDiretor, models.RoleGM, models.RoleSupervisor:
		return true
	}
	return actor.ID == project.SupervisorID
}

// CanReviewDelivery reports whether the actor may approve or reject a
// task-level delivery. Same rule as checklist item review.
func CanReviewDelivery(actor *models.User, project *models.Project) bool {
	return CanReviewChecklistItem(actor, project)
}
