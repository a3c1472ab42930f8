package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskflow-api/internal/models"
	"github.com/yukikurage/taskflow-api/internal/repository"
	"github.com/yukikurage/taskflow-api/internal/utils"
	"github.com/yukikurage/taskflow-api/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assigned user not found")
	ErrNotAuthorized    = errors.New("user not authorized")
	ErrEmailRequired    = errors.New("email is required")
)

// AccessPolicy switches the optional restrictions on cross-user reads.
type AccessPolicy struct {
	// RestrictUserTaskLookup limits ListByUserEmail to the caller's own email
	// unless the caller is an admin.
	RestrictUserTaskLookup bool
	// AdminOnlyReports limits report generation to admins.
	AdminOnlyReports bool
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	policy   AccessPolicy
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, policy AccessPolicy) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		policy:   policy,
	}
}

// CreateTaskInput represents input for creating a task. DueDate is the raw
// request value; AssignedUsername is resolved to a user.
type CreateTaskInput struct {
	Title            string
	Description      string
	DueDate          string
	Status           string
	Priority         string
	AssignedUsername string
}

// UpdateTaskInput represents a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	DueDate          *string
	Status           *string
	Priority         *string
	AssignedUsername *string
}

// ListTasksInput represents filters for listing the caller's tasks
type ListTasksInput struct {
	Page           int
	Limit          int
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedUserID *string
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks       []models.Task
	TotalPages  int
	CurrentPage int
	Total       int64
}

// CanMutate reports whether caller may update or delete task.
func CanMutate(caller Caller, task *models.Task) bool {
	return caller.IsAdmin || caller.ID == task.CreatedByID
}

// canView reports whether caller may read task.
func canView(caller Caller, task *models.Task) bool {
	if CanMutate(caller, task) {
		return true
	}
	return task.AssignedUserID != nil && *task.AssignedUserID == caller.ID
}

// CreateTask creates a task owned by the caller.
func (s *TaskService) CreateTask(ctx context.Context, caller Caller, input CreateTaskInput) (*models.Task, error) {
	if err := validation.TaskCreate(input.Title, input.DueDate, input.Status, input.Priority).Err(); err != nil {
		return nil, err
	}
	dueDate, err := validation.ParseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     dueDate,
		Status:      models.TaskStatus(input.Status),
		Priority:    models.TaskPriority(input.Priority),
		CreatedByID: caller.ID,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	if input.AssignedUsername != "" {
		assignee, err := s.resolveAssignee(ctx, input.AssignedUsername)
		if err != nil {
			return nil, err
		}
		task.AssignedUserID = &assignee.ID
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(ctx, task.ID)
}

// ListTasks returns the tasks the caller created or is assigned to, sorted by due date.
func (s *TaskService) ListTasks(ctx context.Context, caller Caller, input ListTasksInput) (*TaskPage, error) {
	params := utils.NewPaginationParams(input.Page, input.Limit)

	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		ParticipantID:  &caller.ID,
		AssignedUserID: input.AssignedUserID,
		Status:         input.Status,
		Priority:       input.Priority,
		SortByDueDate:  true,
		Page:           params.Page,
		PageSize:       params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskPage{
		Tasks:       tasks,
		TotalPages:  utils.TotalPages(total, params.Limit),
		CurrentPage: params.Page,
		Total:       total,
	}, nil
}

// ListTasksByUserEmail returns the tasks of the user with the given email.
// Admin users get the tasks they created or are assigned to; everyone else
// gets only the tasks they created.
func (s *TaskService) ListTasksByUserEmail(ctx context.Context, caller Caller, email string) ([]models.Task, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if s.policy.RestrictUserTaskLookup && !caller.IsAdmin && !strings.EqualFold(caller.Email, email) {
		return nil, ErrNotAuthorized
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	filter := repository.TaskFilter{SortByDueDate: true}
	if user.IsAdmin {
		filter.ParticipantID = &user.ID
	} else {
		filter.CreatorID = &user.ID
	}

	tasks, _, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task visible to the caller. Tasks the caller cannot see
// are reported as not found.
func (s *TaskService) GetTask(ctx context.Context, caller Caller, taskID string) (*models.Task, error) {
	task, err := s.reload(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !canView(caller, task) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// UpdateTask applies a partial update if the caller is the creator or an admin.
func (s *TaskService) UpdateTask(ctx context.Context, caller Caller, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(caller, task) {
		return nil, ErrNotAuthorized
	}

	if err := validation.TaskUpdate(input.Title, input.DueDate, input.Status, input.Priority).Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		dueDate, err := validation.ParseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}
	if input.Status != nil {
		task.Status = models.TaskStatus(*input.Status)
	}
	if input.Priority != nil {
		task.Priority = models.TaskPriority(*input.Priority)
	}
	if input.AssignedUsername != nil && *input.AssignedUsername != "" {
		assignee, err := s.resolveAssignee(ctx, *input.AssignedUsername)
		if err != nil {
			return nil, err
		}
		task.AssignedUserID = &assignee.ID
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(ctx, task.ID)
}

// DeleteTask permanently removes a task if the caller is the creator or an admin.
func (s *TaskService) DeleteTask(ctx context.Context, caller Caller, taskID string) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !CanMutate(caller, task) {
		return ErrNotAuthorized
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// resolveAssignee looks up the user a task is being assigned to by username.
func (s *TaskService) resolveAssignee(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to resolve assigned user: %w", err)
	}
	return user, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID string, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) reload(ctx context.Context, taskID string) (*models.Task, error) {
	return s.findTask(ctx, taskID, repository.PreloadAssignedUser, repository.PreloadCreatedBy)
}
