package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID             string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title          string       `gorm:"type:varchar(255);not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	DueDate        time.Time    `gorm:"not null;index" json:"dueDate"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'To Do';index" json:"status"`
	Priority       TaskPriority `gorm:"type:varchar(10);not null;default:'Medium';index" json:"priority"`
	AssignedUserID *string      `gorm:"type:varchar(36);index" json:"assignedUserId"`
	CreatedByID    string       `gorm:"type:varchar(36);not null;index" json:"createdById"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	// Relations
	AssignedUser *User `gorm:"foreignKey:AssignedUserID" json:"assignedUser,omitempty"`
	CreatedBy    User  `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

// BeforeCreate assigns an opaque identifier when none is set.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
