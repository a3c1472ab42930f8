package dto

import (
	"time"

	"github.com/yukikurage/taskflow-api/internal/models"
)

// UserRefDTO is the public view of a user referenced by a task
type UserRefDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      time.Time           `json:"dueDate"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	AssignedUser *UserRefDTO         `json:"assignedUser"`
	CreatedBy    string              `json:"createdBy"`
	Creator      *UserRefDTO         `json:"creator,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// TaskListResponse represents one page of the caller's tasks
type TaskListResponse struct {
	Tasks       []TaskDTO `json:"tasks"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// ToUserRefDTO converts a User model to UserRefDTO
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.UTC(),
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedBy:   task.CreatedByID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.AssignedUser != nil && task.AssignedUser.ID != "" {
		assignee := ToUserRefDTO(*task.AssignedUser)
		dto.AssignedUser = &assignee
	}

	// Include creator if preloaded
	if task.CreatedBy.ID != "" {
		creator := ToUserRefDTO(task.CreatedBy)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, totalPages, currentPage int) TaskListResponse {
	return TaskListResponse{
		Tasks:       ToTaskDTOs(tasks),
		TotalPages:  totalPages,
		CurrentPage: currentPage,
	}
}
