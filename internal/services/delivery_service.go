package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/obraflow/obraflow-api/internal/constants"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/policy"
	"github.com/obraflow/obraflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrDeliveryForbidden         = errors.New("actor may not submit deliveries for this task")
	ErrDeliveryReviewForbidden   = errors.New("actor may not review deliveries of this task")
	ErrDeliveryNotFound          = errors.New("delivery not found")
	ErrTaskNotDeliverable        = errors.New("task is not in a deliverable status")
	ErrDescriptionTooShort       = errors.New("delivery description is too short")
	ErrDeliveryNotEditable       = errors.New("delivery is no longer under review")
	ErrNoPendingDelivery         = errors.New("task has no delivery under review")
	ErrMultiplePendingDeliveries = errors.New("task has more than one delivery under review")
)

// DeliveryService manages whole-task deliveries: the task-level submit for
// review flow, distinct from per-checklist-item submissions.
type DeliveryService struct {
	taskRepo            repository.TaskRepository
	projectRepo         repository.ProjectRepository
	deliveryRepo        repository.DeliveryRepository
	userRepo            repository.UserRepository
	projectService      *ProjectService
	notificationService *NotificationService
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	projectService *ProjectService,
	notificationService *NotificationService,
) *DeliveryService {
	return &DeliveryService{
		taskRepo:            taskRepo,
		projectRepo:         projectRepo,
		deliveryRepo:        deliveryRepo,
		userRepo:            userRepo,
		projectService:      projectService,
		notificationService: notificationService,
	}
}

// Submit creates a delivery and moves the task into EM_ANALISE in one
// transaction. The task must be PENDENTE, EM_ANDAMENTO or REPROVADA; a task
// already under review or approved cannot receive a new delivery.
func (s *DeliveryService) Submit(taskID, actorID uint64, description, imageURL string) (*models.Delivery, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanSubmitDelivery(actorID, task) {
		return nil, ErrDeliveryForbidden
	}

	switch task.Status {
	case models.TaskStatusPendente, models.TaskStatusEmAndamento, models.TaskStatusReprovada:
	default:
		return nil, ErrTaskNotDeliverable
	}

	if len(strings.TrimSpace(description)) < constants.MinDeliveryDescriptionLength {
		return nil, ErrDescriptionTooShort
	}

	now := time.Now()
	delivery := &models.Delivery{
		TaskID:      taskID,
		Status:      models.DeliveryStatusEmAnalise,
		Description: description,
		ImageURL:    imageURL,
		SubmitterID: actorID,
		SubmittedAt: now,
	}

	task.Status = models.TaskStatusEmAnalise
	task.Iniciada = true
	if task.DataFim == nil {
		task.DataFim = &now
	}

	if err := s.deliveryRepo.CreateWithTask(delivery, task); err != nil {
		return nil, fmt.Errorf("failed to submit delivery: %w", err)
	}

	s.recomputeProject(task.ProjectID)

	if project, err := s.projectRepo.FindByID(task.ProjectID); err == nil {
		s.notificationService.Notify(project.SupervisorID,
			"Entrega enviada",
			fmt.Sprintf("A etapa %q foi entregue e aguarda revisão.", task.Name),
			models.NotificationKindDelivery)
	}

	return delivery, nil
}

// Update edits a delivery's description or image while both the delivery and
// the task are still EM_ANALISE. No status change.
func (s *DeliveryService) Update(taskID, deliveryID, actorID uint64, description, imageURL string) (*models.Delivery, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanSubmitDelivery(actorID, task) {
		return nil, ErrDeliveryForbidden
	}

	delivery, err := s.deliveryRepo.FindByID(deliveryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	if delivery.TaskID != taskID {
		return nil, ErrDeliveryNotFound
	}

	if delivery.Status != models.DeliveryStatusEmAnalise || task.Status != models.TaskStatusEmAnalise {
		return nil, ErrDeliveryNotEditable
	}

	if len(strings.TrimSpace(description)) < constants.MinDeliveryDescriptionLength {
		return nil, ErrDescriptionTooShort
	}

	delivery.Description = description
	if imageURL != "" {
		delivery.ImageURL = imageURL
	}

	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, fmt.Errorf("failed to update delivery: %w", err)
	}

	return delivery, nil
}

// Approve accepts the task's single pending delivery and moves the task to
// APROVADA. Both writes commit in one transaction so the task is never left
// EM_ANALISE without a pending delivery.
func (s *DeliveryService) Approve(taskID, reviewerID uint64, comment string) (*models.Delivery, error) {
	return s.review(taskID, reviewerID, comment,
		models.DeliveryStatusAprovada, models.TaskStatusAprovada)
}

// Reject refuses the pending delivery and moves the task to REPROVADA, from
// where the executor may resubmit.
func (s *DeliveryService) Reject(taskID, reviewerID uint64, reason string) (*models.Delivery, error) {
	return s.review(taskID, reviewerID, reason,
		models.DeliveryStatusRecusada, models.TaskStatusReprovada)
}

// ListByTask lists the task's delivery history, newest first.
func (s *DeliveryService) ListByTask(taskID uint64) ([]models.Delivery, error) {
	if _, err := s.findTask(taskID); err != nil {
		return nil, err
	}
	return s.deliveryRepo.ListByTask(taskID)
}

func (s *DeliveryService) review(taskID, reviewerID uint64, comment string, deliveryStatus models.DeliveryStatus, taskStatus models.TaskStatus) (*models.Delivery, error) {
	reviewer, err := s.userRepo.FindByID(reviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find reviewer: %w", err)
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !policy.CanReviewDelivery(reviewer, project) {
		return nil, ErrDeliveryReviewForbidden
	}

	pending, err := s.deliveryRepo.ListPendingByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending deliveries: %w", err)
	}
	if len(pending) == 0 {
		return nil, ErrNoPendingDelivery
	}
	if len(pending) > 1 {
		return nil, ErrMultiplePendingDeliveries
	}

	now := time.Now()
	delivery := &pending[0]
	delivery.Status = deliveryStatus
	delivery.ReviewerID = &reviewerID
	delivery.ReviewComment = comment
	delivery.ReviewedAt = &now

	task.Status = taskStatus

	if err := s.deliveryRepo.SaveWithTask(delivery, task); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.recomputeProject(task.ProjectID)

	s.notificationService.Notify(task.ExecutorID,
		"Entrega revisada",
		fmt.Sprintf("A entrega da etapa %q foi revisada: %s.", task.Name, deliveryStatus),
		models.NotificationKindDelivery)

	return delivery, nil
}

func (s *DeliveryService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *DeliveryService) recomputeProject(projectID uint64) {
	if err := s.projectService.Recompute(projectID); err != nil {
		log.Printf("project %d: status recompute failed: %v", projectID, err)
	}
}
