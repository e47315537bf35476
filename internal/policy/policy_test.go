package policy

import (
	"testing"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsPrivileged(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want bool
	}{
		{models.RoleDiretor, true},
		{models.RoleGM, true},
		{models.RoleSupervisor, true},
		{models.RoleFuncionario, false},
		{models.UserRole("UNKNOWN"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, IsPrivileged(tt.role))
		})
	}
}

func TestCanMutateChecklist(t *testing.T) {
	task := &models.Task{
		ExecutorID: 1,
		TeamMembers: []models.TaskTeamMember{
			{UserID: 2},
			{UserID: 3},
		},
	}

	assert.True(t, CanMutateChecklist(1, task), "executor")
	assert.True(t, CanMutateChecklist(2, task), "team member")
	assert.True(t, CanMutateChecklist(3, task), "team member")
	assert.False(t, CanMutateChecklist(4, task), "outsider")
}

func TestCanSubmitDelivery(t *testing.T) {
	task := &models.Task{ExecutorID: 7}

	assert.True(t, CanSubmitDelivery(7, task))
	assert.False(t, CanSubmitDelivery(8, task))
}

func TestCanReviewChecklistItem(t *testing.T) {
	project := &models.Project{SupervisorID: 10}

	tests := []struct {
		name  string
		actor models.User
		want  bool
	}{
		{"diretor", models.User{ID: 1, Role: models.RoleDiretor}, true},
		{"gm", models.User{ID: 2, Role: models.RoleGM}, true},
		{"any supervisor", models.User{ID: 3, Role: models.RoleSupervisor}, true},
		{"project supervisor without role", models.User{ID: 10, Role: models.RoleFuncionario}, true},
		{"unrelated funcionario", models.User{ID: 4, Role: models.RoleFuncionario}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanReviewChecklistItem(&tt.actor, project))
		})
	}
}

func TestCanReviewDelivery(t *testing.T) {
	project := &models.Project{SupervisorID: 10}

	reviewer := models.User{ID: 10, Role: models.RoleFuncionario}
	outsider := models.User{ID: 11, Role: models.RoleFuncionario}

	assert.True(t, CanReviewDelivery(&reviewer, project))
	assert.False(t, CanReviewDelivery(&outsider, project))
}
