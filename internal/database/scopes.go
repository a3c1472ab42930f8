package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OrderByDueDate sorts tasks by due date, oldest first, with creation time as
// a tie breaker so pages are stable.
func OrderByDueDate(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.due_date ASC").Order("tasks.created_at ASC")
}
