package database

import (
	"fmt"

	"github.com/yukikurage/taskflow-api/internal/logger"
	"github.com/yukikurage/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the users and tasks tables, then adds the
// composite indexes used by the task listing queries.
func Migrate(db *gorm.DB) error {
	logger.Info("running database migrations")
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return err
	}

	logger.Info("database migrations completed")
	return nil
}

// AddIndexes adds composite indexes that the struct tags cannot express.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		name    string
		columns string
	}{
		// list by participant, ordered by due date
		{"idx_tasks_created_by_due_date", "created_by_id, due_date"},
		{"idx_tasks_assigned_user_due_date", "assigned_user_id, due_date"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(&models.Task{}, idx.name) {
			logger.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON tasks (%s)", idx.name, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("created index", "index", idx.name, "columns", idx.columns)
	}

	return nil
}
