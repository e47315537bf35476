package repository

import (
	"github.com/obraflow/obraflow-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task together with its nested team members and insumos
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListByProject retrieves all tasks of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its dependent rows
	Delete(id uint64) error

	// SetTeamMembers replaces the task's team member set
	SetTeamMembers(taskID uint64, userIDs []uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID *uint64
	Statuses  []models.TaskStatus
	// InvolvedUserID restricts to tasks where the user is the executor or a
	// responsible of the owning project.
	InvolvedUserID *uint64
	Page           int
	PageSize       int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project together with its responsibles
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with pagination
	List(page, pageSize int) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// UpdateDerived writes the recomputed insumos value and status
	UpdateDerived(projectID uint64, insumosValue float64, status models.ProjectStatus) error

	// ListResponsibles lists the project's responsibles with users preloaded
	ListResponsibles(projectID uint64) ([]models.ProjectResponsible, error)
}

// DeliveryRepository defines the interface for task-level delivery data access
type DeliveryRepository interface {
	// CreateWithTask creates a delivery and saves the task in one transaction
	CreateWithTask(delivery *models.Delivery, task *models.Task) error

	// FindByID finds a delivery by ID
	FindByID(id uint64) (*models.Delivery, error)

	// ListByTask lists all deliveries of a task, newest first
	ListByTask(taskID uint64) ([]models.Delivery, error)

	// ListPendingByTask lists the task's deliveries currently EM_ANALISE
	ListPendingByTask(taskID uint64) ([]models.Delivery, error)

	// Update updates a delivery
	Update(delivery *models.Delivery) error

	// SaveWithTask saves a delivery and its task in one transaction
	SaveWithTask(delivery *models.Delivery, task *models.Task) error
}

// ChecklistDeliveryRepository defines the interface for per-item approval records
type ChecklistDeliveryRepository interface {
	// Upsert creates or overwrites the record at the delivery's key
	Upsert(delivery *models.ChecklistItemDelivery) error

	// FindByKey finds the record at (taskID, itemIndex, subItemIndex)
	FindByKey(taskID uint64, itemIndex, subItemIndex int) (*models.ChecklistItemDelivery, error)

	// ListByTask lists all checklist delivery records of a task
	ListByTask(taskID uint64) ([]models.ChecklistItemDelivery, error)

	// SaveWithTask saves a record and its task in one transaction
	SaveWithTask(delivery *models.ChecklistItemDelivery, task *models.Task) error

	// Update updates a record
	Update(delivery *models.ChecklistItemDelivery) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// StockRepository defines the interface for the stock ledger
type StockRepository interface {
	// CreateItem creates a stock item
	CreateItem(item *models.StockItem) error

	// FindItemByID finds a stock item by ID
	FindItemByID(id uint64) (*models.StockItem, error)

	// ListItems lists all stock items
	ListItems() ([]models.StockItem, error)

	// AllocatedQuantity sums the live allocations of a stock item
	AllocatedQuantity(stockItemID uint64) (float64, error)

	// CreateAllocation reserves a quantity for a task
	CreateAllocation(allocation *models.StockAllocation) error

	// DeleteAllocation releases the reservation of one item for a task
	DeleteAllocation(stockItemID, taskID uint64) error

	// DeleteAllocationsByTask releases every reservation held by a task
	DeleteAllocationsByTask(taskID uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(notification *models.Notification) error

	// ListByUser lists a user's notifications, newest first
	ListByUser(userID uint64) ([]models.Notification, error)

	// MarkRead marks a user's notification as read
	MarkRead(id, userID uint64) error
}
