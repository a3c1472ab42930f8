package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskflow-api/internal/dto"
	apierrors "github.com/yukikurage/taskflow-api/internal/errors"
	"github.com/yukikurage/taskflow-api/internal/logger"
	"github.com/yukikurage/taskflow-api/internal/middleware"
	"github.com/yukikurage/taskflow-api/internal/models"
	"github.com/yukikurage/taskflow-api/internal/services"
	"github.com/yukikurage/taskflow-api/internal/utils"
	"github.com/yukikurage/taskflow-api/internal/validation"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task owned by the caller. Any createdBy in the body is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "No token")
		return
	}

	type CreateTaskRequest struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		DueDate      string `json:"dueDate"`
		Status       string `json:"status"`
		Priority     string `json:"priority"`
		AssignedUser string `json:"assignedUser"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), caller, services.CreateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Status:           req.Status,
		Priority:         req.Priority,
		AssignedUsername: req.AssignedUser,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTasks returns the tasks the caller created or is assigned to.
// Supports page, limit, status, priority and assignedUser (a user id) query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "No token")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:  params.Page,
		Limit: params.Limit,
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if assignedUser := c.Query("assignedUser"); assignedUser != "" {
		input.AssignedUserID = &assignedUser
	}

	page, err := h.taskService.ListTasks(c.Request.Context(), caller, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page.Tasks, page.TotalPages, page.CurrentPage))
}

// ListTasksByUserEmail returns the tasks of the user named by the email query parameter.
func (h *TaskHandler) ListTasksByUserEmail(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "No token")
		return
	}

	tasks, err := h.taskService.ListTasksByUserEmail(c.Request.Context(), caller, c.Query("email"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns the task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// UpdateTask applies the supplied fields to a task. createdBy cannot be changed.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "No token")
		return
	}

	type UpdateTaskRequest struct {
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		DueDate      *string `json:"dueDate"`
		Status       *string `json:"status"`
		Priority     *string `json:"priority"`
		AssignedUser *string `json:"assignedUser"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), caller, c.Param("id"), services.UpdateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Status:           req.Status,
		Priority:         req.Priority,
		AssignedUsername: req.AssignedUser,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask permanently removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "No token")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Task removed"})
}

func respondTaskError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		apierrors.BadRequestWithDetails(c, "Validation failed", verrs)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, "Assigned user not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, "Email is required")
	case errors.Is(err, services.ErrNotAuthorized):
		apierrors.Unauthorized(c, "User not authorized")
	default:
		logger.Error("task request failed", "path", c.FullPath(), "task_id", c.Param("id"), "error", err)
		apierrors.InternalError(c, "")
	}
}
