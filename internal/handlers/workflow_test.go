package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/constants"
	"github.com/obraflow/obraflow-api/internal/database"
	"github.com/obraflow/obraflow-api/internal/middleware"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/repository"
	"github.com/obraflow/obraflow-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// workflowTestEnv runs the full router against an in-memory database so the
// session and task-access middleware are exercised like in production.
type workflowTestEnv struct {
	db     *gorm.DB
	router *gin.Engine

	authService *services.AuthService
}

func setupWorkflowEnv(t *testing.T) *workflowTestEnv {
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

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	checklistDeliveryRepo := repository.NewChecklistDeliveryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := services.NewNotificationService(notificationRepo)
	stockService := services.NewStockService(stockRepo)
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, projectRepo, projectService, stockService, notificationService)
	checklistService := services.NewChecklistService(taskRepo, projectRepo, checklistDeliveryRepo, userRepo, projectService, notificationService)
	deliveryService := services.NewDeliveryService(taskRepo, projectRepo, deliveryRepo, userRepo, projectService, notificationService)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)
	checklistHandler := NewChecklistHandler(checklistService, nil)
	deliveryHandler := NewDeliveryHandler(deliveryService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("/mine", taskHandler.ListMyTasks)
		tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
		tasks.PUT("/:id/checklist", middleware.RequireTaskAccess(), checklistHandler.UpdateChecklist)
		tasks.POST("/:id/checklist/:index/submit", middleware.RequireTaskAccess(), checklistHandler.SubmitItem)
		tasks.POST("/:id/checklist/:index/review", middleware.RequireTaskAccess(), checklistHandler.ReviewItem)
		tasks.POST("/:id/deliveries", middleware.RequireTaskAccess(), deliveryHandler.SubmitDelivery)
		tasks.POST("/:id/deliveries/approve", middleware.RequireTaskAccess(), deliveryHandler.ApproveDelivery)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &workflowTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env *workflowTestEnv) signup(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()

	user, err := env.authService.Signup(services.SignupInput{
		Username: username,
		Name:     username,
		Password: "supersecret",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

// login authenticates through the HTTP surface and returns the session cookies.
func (env *workflowTestEnv) login(t *testing.T, username string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (env *workflowTestEnv) request(t *testing.T, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestChecklistWorkflowOverHTTP(t *testing.T) {
	env := setupWorkflowEnv(t)

	executor := env.signup(t, "executor", models.RoleFuncionario)
	supervisor := env.signup(t, "supervisor", models.RoleSupervisor)

	project := &models.Project{Name: "Obra A", Status: models.ProjectStatusEmAndamento, SupervisorID: supervisor.ID}
	require.NoError(t, env.db.Create(project).Error)
	task := &models.Task{Name: "Fundação", ProjectID: project.ID, ExecutorID: executor.ID, Status: models.TaskStatusPendente}
	require.NoError(t, env.db.Create(task).Error)

	executorCookies := env.login(t, "executor")
	supervisorCookies := env.login(t, "supervisor")

	// Executor writes the checklist.
	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d/checklist", task.ID), map[string]any{
		"items": []map[string]any{
			{"texto": "Escavar"},
			{"texto": "Concretar"},
		},
	}, executorCookies)
	require.Equal(t, http.StatusOK, w.Code)

	// Executor submits evidence for the first item.
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/checklist/0/submit", task.ID), map[string]any{
		"description": "escavação concluída",
		"image_url":   "https://example.com/foto.jpg",
	}, executorCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	// Supervisor approves it.
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/checklist/0/review", task.ID), map[string]any{
		"decision": "APROVADO",
	}, supervisorCookies)
	require.Equal(t, http.StatusOK, w.Code)

	// A second review of the same submission conflicts.
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/checklist/0/review", task.ID), map[string]any{
		"decision": "REPROVADO",
	}, supervisorCookies)
	require.Equal(t, http.StatusConflict, w.Code)

	var reloaded models.Task
	require.NoError(t, env.db.First(&reloaded, task.ID).Error)
	require.True(t, reloaded.Checklist[0].Concluido)
	require.False(t, reloaded.Checklist[1].Concluido)
}

func TestTaskAccessHiddenFromOutsiders(t *testing.T) {
	env := setupWorkflowEnv(t)

	executor := env.signup(t, "executor", models.RoleFuncionario)
	env.signup(t, "outsider", models.RoleFuncionario)
	supervisor := env.signup(t, "supervisor", models.RoleSupervisor)

	project := &models.Project{Name: "Obra A", Status: models.ProjectStatusEmAndamento, SupervisorID: supervisor.ID}
	require.NoError(t, env.db.Create(project).Error)
	task := &models.Task{Name: "Fundação", ProjectID: project.ID, ExecutorID: executor.ID, Status: models.TaskStatusPendente}
	require.NoError(t, env.db.Create(task).Error)

	outsiderCookies := env.login(t, "outsider")
	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, outsiderCookies)
	require.Equal(t, http.StatusNotFound, w.Code, "outsiders get 404, not 403")

	executorCookies := env.login(t, "executor")
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, executorCookies)
	require.Equal(t, http.StatusOK, w.Code)

	// Unauthenticated requests are rejected outright.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeliveryApproveWithoutPendingOverHTTP(t *testing.T) {
	env := setupWorkflowEnv(t)

	executor := env.signup(t, "executor", models.RoleFuncionario)
	supervisor := env.signup(t, "supervisor", models.RoleSupervisor)

	project := &models.Project{Name: "Obra A", Status: models.ProjectStatusEmAndamento, SupervisorID: supervisor.ID}
	require.NoError(t, env.db.Create(project).Error)
	task := &models.Task{Name: "Fundação", ProjectID: project.ID, ExecutorID: executor.ID, Status: models.TaskStatusPendente}
	require.NoError(t, env.db.Create(task).Error)

	supervisorCookies := env.login(t, "supervisor")
	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/deliveries/approve", task.ID), nil, supervisorCookies)
	require.Equal(t, http.StatusConflict, w.Code)

	// Submit then approve through the API.
	executorCookies := env.login(t, "executor")
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/deliveries", task.ID), map[string]any{
		"description": "Etapa entregue completa",
	}, executorCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/deliveries/approve", task.ID), nil, supervisorCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Task
	require.NoError(t, env.db.First(&reloaded, task.ID).Error)
	require.Equal(t, models.TaskStatusAprovada, reloaded.Status)
}
