package services

import (
	"testing"

	"github.com/obraflow/obraflow-api/internal/database"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// serviceTestEnv wires every service against an in-memory database.
type serviceTestEnv struct {
	db *gorm.DB

	userRepo              repository.UserRepository
	projectRepo           repository.ProjectRepository
	taskRepo              repository.TaskRepository
	deliveryRepo          repository.DeliveryRepository
	checklistDeliveryRepo repository.ChecklistDeliveryRepository
	stockRepo             repository.StockRepository
	notificationRepo      repository.NotificationRepository

	notificationService *NotificationService
	stockService        *StockService
	authService         *AuthService
	projectService      *ProjectService
	taskService         *TaskService
	checklistService    *ChecklistService
	deliveryService     *DeliveryService
}

func setupServiceEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectResponsible{},
		&models.Task{},
		&models.TaskTeamMember{},
		&models.TaskInsumo{},
		&models.Delivery{},
		&models.ChecklistItemDelivery{},
		&models.StockItem{},
		&models.StockAllocation{},
		&models.Notification{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	env := &serviceTestEnv{
		db:                    db,
		userRepo:              repository.NewUserRepository(db),
		projectRepo:           repository.NewProjectRepository(db),
		taskRepo:              repository.NewTaskRepository(db),
		deliveryRepo:          repository.NewDeliveryRepository(db),
		checklistDeliveryRepo: repository.NewChecklistDeliveryRepository(db),
		stockRepo:             repository.NewStockRepository(db),
		notificationRepo:      repository.NewNotificationRepository(db),
	}

	env.notificationService = NewNotificationService(env.notificationRepo)
	env.stockService = NewStockService(env.stockRepo)
	env.authService = NewAuthService(env.userRepo)
	env.projectService = NewProjectService(env.projectRepo, env.taskRepo, env.notificationService)
	env.taskService = NewTaskService(env.taskRepo, env.projectRepo, env.projectService, env.stockService, env.notificationService)
	env.checklistService = NewChecklistService(env.taskRepo, env.projectRepo, env.checklistDeliveryRepo, env.userRepo, env.projectService, env.notificationService)
	env.deliveryService = NewDeliveryService(env.taskRepo, env.projectRepo, env.deliveryRepo, env.userRepo, env.projectService, env.notificationService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return env
}

func createTestUser(t *testing.T, env *serviceTestEnv, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Name:         username,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, env *serviceTestEnv, name string, supervisorID uint64, responsibleIDs ...uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:         name,
		Status:       models.ProjectStatusEmAndamento,
		SupervisorID: supervisorID,
	}
	for _, id := range responsibleIDs {
		project.Responsibles = append(project.Responsibles, models.ProjectResponsible{UserID: id})
	}
	require.NoError(t, env.db.Create(project).Error)
	return project
}

func createTestTask(t *testing.T, env *serviceTestEnv, projectID, executorID uint64, checklist models.Checklist) *models.Task {
	t.Helper()

	task := &models.Task{
		Name:       "Etapa de teste",
		ProjectID:  projectID,
		ExecutorID: executorID,
		Status:     models.TaskStatusPendente,
		Checklist:  checklist,
	}
	require.NoError(t, env.db.Create(task).Error)
	return task
}

func createTestStockItem(t *testing.T, env *serviceTestEnv, name string, quantity, unitCost float64) *models.StockItem {
	t.Helper()

	item := &models.StockItem{
		Name:     name,
		Unit:     "un",
		Quantity: quantity,
		UnitCost: unitCost,
	}
	require.NoError(t, env.db.Create(item).Error)
	return item
}

func reloadTask(t *testing.T, env *serviceTestEnv, taskID uint64) *models.Task {
	t.Helper()

	var task models.Task
	require.NoError(t, env.db.First(&task, taskID).Error)
	return &task
}

func reloadProject(t *testing.T, env *serviceTestEnv, projectID uint64) *models.Project {
	t.Helper()

	var project models.Project
	require.NoError(t, env.db.First(&project, projectID).Error)
	return &project
}
