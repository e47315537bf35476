package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// declares on the models.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for listing and aggregation
		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_executor_id", "executor_id"},
		{"tasks", "idx_tasks_status", "status"},

		// Delivery review queues
		{"deliveries", "idx_deliveries_task_status", "task_id, status"},
		{"checklist_item_deliveries", "idx_checklist_deliveries_status", "status"},

		// Membership lookups
		{"project_responsibles", "idx_project_responsibles_user_id", "user_id"},
		{"task_team_members", "idx_task_team_members_user_id", "user_id"},

		// Stock availability sums
		{"stock_allocations", "idx_stock_allocations_item_task", "stock_item_id, task_id"},

		// Notification inbox
		{"notifications", "idx_notifications_user_read", "user_id, `read`"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Scan(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
