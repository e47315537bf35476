package services

import (
	"testing"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitDelivery_MovesTaskUnderReview(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	delivery, err := env.deliveryService.Submit(task.ID, executor.ID, "Etapa concluída conforme projeto", "")
	require.NoError(t, err)

	assert.Equal(t, models.DeliveryStatusEmAnalise, delivery.Status)
	assert.Equal(t, executor.ID, delivery.SubmitterID)

	task = reloadTask(t, env, task.ID)
	assert.Equal(t, models.TaskStatusEmAnalise, task.Status)
	assert.True(t, task.Iniciada)
	assert.NotNil(t, task.DataFim)

	// A task in EM_ANALISE counts as complete for the project aggregate.
	project = reloadProject(t, env, project.ID)
	assert.Equal(t, models.ProjectStatusFinalizado, project.Status)
}

func TestSubmitDelivery_RejectsShortDescription(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	_, err := env.deliveryService.Submit(task.ID, executor.ID, "  ok  ", "")
	assert.ErrorIs(t, err, ErrDescriptionTooShort)
}

func TestSubmitDelivery_NotDeliverableWhileUnderReview(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	_, err := env.deliveryService.Submit(task.ID, executor.ID, "Primeira entrega da etapa", "")
	require.NoError(t, err)

	_, err = env.deliveryService.Submit(task.ID, executor.ID, "Segunda entrega da etapa", "")
	assert.ErrorIs(t, err, ErrTaskNotDeliverable)
}

func TestSubmitDelivery_Forbidden(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	outsider := createTestUser(t, env, "outsider", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	_, err := env.deliveryService.Submit(task.ID, outsider.ID, "Tentativa de entrega externa", "")
	assert.ErrorIs(t, err, ErrDeliveryForbidden)
}

func TestApproveDelivery(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	_, err := env.deliveryService.Submit(task.ID, executor.ID, "Etapa finalizada no prazo", "")
	require.NoError(t, err)

	approved, err := env.deliveryService.Approve(task.ID, supervisor.ID, "aprovado")
	require.NoError(t, err)

	assert.Equal(t, models.DeliveryStatusAprovada, approved.Status)
	require.NotNil(t, approved.ReviewerID)
	assert.Equal(t, supervisor.ID, *approved.ReviewerID)
	assert.Equal(t, "aprovado", approved.ReviewComment)

	task = reloadTask(t, env, task.ID)
	assert.Equal(t, models.TaskStatusAprovada, task.Status)
}

func TestRejectDelivery_AllowsResubmission(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	_, err := env.deliveryService.Submit(task.ID, executor.ID, "Primeira tentativa de entrega", "")
	require.NoError(t, err)

	rejected, err := env.deliveryService.Reject(task.ID, supervisor.ID, "faltou acabamento")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusRecusada, rejected.Status)

	task = reloadTask(t, env, task.ID)
	assert.Equal(t, models.TaskStatusReprovada, task.Status)

	// REPROVADA is deliverable again.
	second, err := env.deliveryService.Submit(task.ID, executor.ID, "Segunda tentativa de entrega", "")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusEmAnalise, second.Status)

	deliveries, err := env.deliveryService.ListByTask(task.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 2, "history keeps the refused delivery")
}

func TestApproveDelivery_NoPendingConflicts(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	_, err := env.deliveryService.Approve(task.ID, supervisor.ID, "")
	assert.ErrorIs(t, err, ErrNoPendingDelivery)
}

func TestApproveDelivery_ReviewForbidden(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	_, err := env.deliveryService.Submit(task.ID, executor.ID, "Entrega aguardando revisão", "")
	require.NoError(t, err)

	_, err = env.deliveryService.Approve(task.ID, executor.ID, "")
	assert.ErrorIs(t, err, ErrDeliveryReviewForbidden)
}

func TestUpdateDelivery_OnlyWhileUnderReview(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	submitted, err := env.deliveryService.Submit(task.ID, executor.ID, "Descrição original da entrega", "")
	require.NoError(t, err)

	updated, err := env.deliveryService.Update(task.ID, submitted.ID, executor.ID, "Descrição corrigida da entrega", "https://example.com/nova.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Descrição corrigida da entrega", updated.Description)
	assert.Equal(t, "https://example.com/nova.jpg", updated.ImageURL)

	_, err = env.deliveryService.Approve(task.ID, supervisor.ID, "")
	require.NoError(t, err)

	_, err = env.deliveryService.Update(task.ID, submitted.ID, executor.ID, "Tarde demais para editar", "")
	assert.ErrorIs(t, err, ErrDeliveryNotEditable)
}

func TestUpdateDelivery_WrongTask(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	taskA := createTestTask(t, env, project.ID, executor.ID, nil)
	taskB := createTestTask(t, env, project.ID, executor.ID, nil)

	submitted, err := env.deliveryService.Submit(taskA.ID, executor.ID, "Entrega pertencente à etapa A", "")
	require.NoError(t, err)

	_, err = env.deliveryService.Update(taskB.ID, submitted.ID, executor.ID, "Descrição com etapa errada", "")
	assert.ErrorIs(t, err, ErrDeliveryNotFound)
}
