package repository

import (
	"context"

	"github.com/yukikurage/taskflow-api/internal/models"
)

// Relations that FindByID and List can preload.
const (
	PreloadAssignedUser = "AssignedUser"
	PreloadCreatedBy    = "CreatedBy"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// FindByIDs returns the tasks with the given IDs, or every task when ids is empty
	FindByIDs(ctx context.Context, ids []string) ([]models.Task, error)

	// Update writes the task's columns; relations are not touched
	Update(ctx context.Context, task *models.Task) error

	// Delete permanently removes a task
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks. Nil fields are not applied.
type TaskFilter struct {
	// ParticipantID matches tasks the user created or is assigned to
	ParticipantID  *string
	CreatorID      *string
	AssignedUserID *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	SortByDueDate  bool
	Page           int
	PageSize       int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
