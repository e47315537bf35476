package services

import (
	"fmt"
	"log"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/repository"
)

// NotificationService creates and lists user notifications. Workflow services
// treat delivery as best-effort: Notify logs failures instead of returning
// them, so a notification outage never fails the triggering operation.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// Create persists a notification for a user.
func (s *NotificationService) Create(userID uint64, title, message, kind string) error {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Notify is the fire-and-forget variant of Create.
func (s *NotificationService) Notify(userID uint64, title, message, kind string) {
	if err := s.Create(userID, title, message, kind); err != nil {
		log.Printf("notification to user %d dropped: %v", userID, err)
	}
}

// ListForUser lists the user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uint64) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(id, userID uint64) error {
	return s.notificationRepo.MarkRead(id, userID)
}
