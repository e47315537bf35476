package services

import (
	"testing"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_AllocatesInsumos(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	cement := createTestStockItem(t, env, "Cimento", 100, 35)
	sand := createTestStockItem(t, env, "Areia", 50, 12)

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Name:       "Fundação",
		ProjectID:  project.ID,
		ExecutorID: executor.ID,
		Checklist: []models.ChecklistItem{
			{Texto: "Escavar"},
		},
		Insumos: []InsumoInput{
			{StockItemID: cement.ID, Quantity: 10},
			{StockItemID: sand.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusPendente, task.Status)
	assert.Equal(t, 10*35.0+5*12.0, task.InsumosValue)
	assert.NotEmpty(t, task.Checklist[0].UID)

	available, err := env.stockService.AvailableQuantity(cement.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, available)

	project = reloadProject(t, env, project.ID)
	assert.Equal(t, task.InsumosValue, project.InsumosValue)
}

func TestCreateTask_InsufficientStockRollsBack(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	cement := createTestStockItem(t, env, "Cimento", 5, 35)

	_, err := env.taskService.CreateTask(CreateTaskInput{
		Name:       "Fundação",
		ProjectID:  project.ID,
		ExecutorID: executor.ID,
		Insumos: []InsumoInput{
			{StockItemID: cement.ID, Quantity: 10},
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count, "failed allocation removes the task")

	available, err := env.stockService.AvailableQuantity(cement.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, available, "no reservation survives the rollback")
}

func TestCreateTask_UnknownProject(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)

	_, err := env.taskService.CreateTask(CreateTaskInput{
		Name:       "Fundação",
		ProjectID:  999,
		ExecutorID: executor.ID,
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateTask_PartialUpdate(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	other := createTestUser(t, env, "other", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	newName := "Fundação revisada"
	updated, err := env.taskService.UpdateTask(task.ID, UpdateTaskInput{
		Name:          &newName,
		TeamMemberIDs: []uint64{other.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, executor.ID, updated.ExecutorID, "untouched fields survive")
	require.Len(t, updated.TeamMembers, 1)
	assert.Equal(t, other.ID, updated.TeamMembers[0].UserID)
}

func TestChangeTaskStatus_Override(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	task := createTestTask(t, env, project.ID, executor.ID, nil)

	updated, err := env.taskService.ChangeTaskStatus(task.ID, models.TaskStatusAprovada, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusAprovada, updated.Status)

	// The override participates in project recomputation.
	assert.Equal(t, models.ProjectStatusFinalizado, reloadProject(t, env, project.ID).Status)

	_, err = env.taskService.ChangeTaskStatus(task.ID, models.TaskStatus("INVENTADA"), nil)
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestDeleteTask_ReleasesStock(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID)
	cement := createTestStockItem(t, env, "Cimento", 100, 35)

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Name:       "Fundação",
		ProjectID:  project.ID,
		ExecutorID: executor.ID,
		Insumos:    []InsumoInput{{StockItemID: cement.ID, Quantity: 40}},
	})
	require.NoError(t, err)

	require.NoError(t, env.taskService.DeleteTask(task.ID))

	available, err := env.stockService.AvailableQuantity(cement.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, available)

	_, err = env.taskService.GetTask(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	project = reloadProject(t, env, project.ID)
	assert.Equal(t, 0.0, project.InsumosValue)
}

func TestListMyTasks(t *testing.T) {
	env := setupServiceEnv(t)
	executor := createTestUser(t, env, "executor", models.RoleFuncionario)
	other := createTestUser(t, env, "other", models.RoleFuncionario)
	supervisor := createTestUser(t, env, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, env, "Obra A", supervisor.ID, executor.ID)

	mine := createTestTask(t, env, project.ID, executor.ID, nil)
	notMine := createTestTask(t, env, project.ID, other.ID, nil)

	// Approved tasks leave the default listing.
	approved := createTestTask(t, env, project.ID, executor.ID, nil)
	approved.Status = models.TaskStatusAprovada
	require.NoError(t, env.db.Save(approved).Error)

	tasks, total, err := env.taskService.ListMyTasks(ListMyTasksInput{UserID: executor.ID})
	require.NoError(t, err)

	ids := make([]uint64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	// The executor is a project responsible, so the colleague's task shows too.
	assert.ElementsMatch(t, []uint64{mine.ID, notMine.ID}, ids)
	assert.Equal(t, int64(2), total)

	// Explicit status filter widens to approved tasks.
	status := models.TaskStatusAprovada
	tasks, _, err = env.taskService.ListMyTasks(ListMyTasksInput{UserID: executor.ID, Status: &status})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, approved.ID, tasks[0].ID)

	// A user with no involvement sees nothing.
	outsider := createTestUser(t, env, "outsider", models.RoleFuncionario)
	tasks, total, err = env.taskService.ListMyTasks(ListMyTasksInput{UserID: outsider.ID})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)
}
