package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/policy"
	"github.com/obraflow/obraflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrChecklistForbidden        = errors.New("actor may not modify this task's checklist")
	ErrChecklistReviewForbidden  = errors.New("actor may not review checklist items of this task")
	ErrChecklistItemNotFound     = errors.New("checklist item not found")
	ErrChecklistDeliveryNotFound = errors.New("no submission found for this checklist item")
	ErrChecklistAlreadyReviewed  = errors.New("checklist item submission was already reviewed")
	ErrInvalidReviewDecision     = errors.New("review decision must be APROVADO or REPROVADO")
)

// ChecklistService manages the per-item approval workflow: wholesale
// checklist replacement, item evidence submission and item review.
//
// Each (task, item index, sub-item index) key walks
// PENDENTE (implicit, no record) -> EM_ANALISE -> {APROVADO, REPROVADO},
// and only a resubmission leads out of a terminal state, back to EM_ANALISE.
type ChecklistService struct {
	taskRepo              repository.TaskRepository
	projectRepo           repository.ProjectRepository
	checklistDeliveryRepo repository.ChecklistDeliveryRepository
	userRepo              repository.UserRepository
	projectService        *ProjectService
	notificationService   *NotificationService
}

// NewChecklistService creates a new ChecklistService
func NewChecklistService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	checklistDeliveryRepo repository.ChecklistDeliveryRepository,
	userRepo repository.UserRepository,
	projectService *ProjectService,
	notificationService *NotificationService,
) *ChecklistService {
	return &ChecklistService{
		taskRepo:              taskRepo,
		projectRepo:           projectRepo,
		checklistDeliveryRepo: checklistDeliveryRepo,
		userRepo:              userRepo,
		projectService:        projectService,
		notificationService:   notificationService,
	}
}

// SubmitItemInput is the evidence attached to a checklist item submission.
// ImageURL is the legacy single-attachment field; when Attachments is empty
// and ImageURL is set, it is promoted to the attachment list.
type SubmitItemInput struct {
	Description string
	Attachments []models.Attachment
	ImageURL    string
}

// ReplaceChecklist rewrites the task's entire checklist. Items are keyed by
// position; reordering does not remap existing item submissions, so a
// submission keyed on an old index will point at whatever item now occupies
// that position.
func (s *ChecklistService) ReplaceChecklist(taskID, actorID uint64, items []models.ChecklistItem) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateChecklist(actorID, task) {
		return nil, ErrChecklistForbidden
	}

	checklist := models.Checklist(items)
	checklist.EnsureUIDs()
	task.Checklist = checklist

	// Checklist progress only moves a task between PENDENTE and
	// EM_ANDAMENTO; tasks already in review or reviewed keep their status.
	if task.Status == models.TaskStatusPendente || task.Status == models.TaskStatusEmAndamento {
		if checklist.AnyConcluido() {
			task.Status = models.TaskStatusEmAndamento
		} else {
			task.Status = models.TaskStatusPendente
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update checklist: %w", err)
	}

	s.recomputeProject(task.ProjectID)

	return task, nil
}

// SubmitItem creates or overwrites the submission at the given checklist key
// and puts it under review. Resubmitting clears the previous review entirely.
// Pass models.SubItemNone as subItemIndex to target a top-level item.
func (s *ChecklistService) SubmitItem(taskID uint64, itemIndex, subItemIndex int, actorID uint64, input SubmitItemInput) (*models.ChecklistItemDelivery, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateChecklist(actorID, task) {
		return nil, ErrChecklistForbidden
	}

	if err := s.validateKey(task, itemIndex, subItemIndex); err != nil {
		return nil, err
	}

	attachments := input.Attachments
	if len(attachments) == 0 && input.ImageURL != "" {
		attachments = []models.Attachment{{URL: input.ImageURL, Kind: "image"}}
	}

	delivery := &models.ChecklistItemDelivery{
		TaskID:       taskID,
		ItemIndex:    itemIndex,
		SubItemIndex: subItemIndex,
		Status:       models.ChecklistDeliveryStatusEmAnalise,
		Description:  input.Description,
		Attachments:  attachments,
		ImageURL:     input.ImageURL,
		SubmitterID:  actorID,
		SubmittedAt:  time.Now(),
	}

	if err := s.checklistDeliveryRepo.Upsert(delivery); err != nil {
		return nil, fmt.Errorf("failed to save checklist submission: %w", err)
	}

	if project, err := s.projectRepo.FindByID(task.ProjectID); err == nil {
		s.notificationService.Notify(project.SupervisorID,
			"Item de checklist enviado",
			fmt.Sprintf("Um item da etapa %q aguarda revisão.", task.Name),
			models.NotificationKindChecklist)
	}

	return s.checklistDeliveryRepo.FindByKey(taskID, itemIndex, subItemIndex)
}

// ReviewItem decides a pending checklist submission. Approval marks the
// addressed item (or sub-item) concluido and persists the checklist in the
// same transaction as the review; rejection leaves the flag untouched.
// A submission can only be reviewed while EM_ANALISE.
func (s *ChecklistService) ReviewItem(taskID uint64, itemIndex, subItemIndex int, reviewerID uint64, decision models.ChecklistDeliveryStatus, comment string) (*models.ChecklistItemDelivery, error) {
	if decision != models.ChecklistDeliveryStatusAprovado && decision != models.ChecklistDeliveryStatusReprovado {
		return nil, ErrInvalidReviewDecision
	}

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

	if !policy.CanReviewChecklistItem(reviewer, project) {
		return nil, ErrChecklistReviewForbidden
	}

	delivery, err := s.checklistDeliveryRepo.FindByKey(taskID, itemIndex, subItemIndex)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to find checklist submission: %w", err)
	}

	if delivery.Status != models.ChecklistDeliveryStatusEmAnalise {
		return nil, ErrChecklistAlreadyReviewed
	}

	now := time.Now()
	delivery.Status = decision
	delivery.ReviewerID = &reviewerID
	delivery.ReviewComment = comment
	delivery.ReviewedAt = &now

	if decision == models.ChecklistDeliveryStatusAprovado {
		if err := s.markConcluido(task, itemIndex, subItemIndex); err != nil {
			return nil, err
		}
		if err := s.checklistDeliveryRepo.SaveWithTask(delivery, task); err != nil {
			return nil, fmt.Errorf("failed to save review: %w", err)
		}
	} else {
		if err := s.checklistDeliveryRepo.Update(delivery); err != nil {
			return nil, fmt.Errorf("failed to save review: %w", err)
		}
	}

	s.recomputeProject(task.ProjectID)

	s.notificationService.Notify(delivery.SubmitterID,
		"Item de checklist revisado",
		fmt.Sprintf("Um item da etapa %q foi revisado: %s.", task.Name, decision),
		models.NotificationKindChecklist)

	return delivery, nil
}

// ListTaskSubmissions lists the task's checklist delivery records.
func (s *ChecklistService) ListTaskSubmissions(taskID uint64) ([]models.ChecklistItemDelivery, error) {
	if _, err := s.findTask(taskID); err != nil {
		return nil, err
	}
	return s.checklistDeliveryRepo.ListByTask(taskID)
}

func (s *ChecklistService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *ChecklistService) validateKey(task *models.Task, itemIndex, subItemIndex int) error {
	if subItemIndex == models.SubItemNone {
		if _, ok := task.Checklist.Item(itemIndex); !ok {
			return ErrChecklistItemNotFound
		}
		return nil
	}
	if _, ok := task.Checklist.SubItem(itemIndex, subItemIndex); !ok {
		return ErrChecklistItemNotFound
	}
	return nil
}

func (s *ChecklistService) markConcluido(task *models.Task, itemIndex, subItemIndex int) error {
	if subItemIndex == models.SubItemNone {
		item, ok := task.Checklist.Item(itemIndex)
		if !ok {
			return ErrChecklistItemNotFound
		}
		item.Concluido = true
		return nil
	}

	subItem, ok := task.Checklist.SubItem(itemIndex, subItemIndex)
	if !ok {
		return ErrChecklistItemNotFound
	}
	subItem.Concluido = true
	return nil
}

func (s *ChecklistService) recomputeProject(projectID uint64) {
	if err := s.projectService.Recompute(projectID); err != nil {
		log.Printf("project %d: status recompute failed: %v", projectID, err)
	}
}
