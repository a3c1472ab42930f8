// Package validation holds the request checks for the auth and task APIs.
// Every check is a pure function returning the list of failed fields, so the
// rules can be exercised without an HTTP request or a store.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/taskflow-api/internal/constants"
	"github.com/yukikurage/taskflow-api/internal/models"
)

var validate = validator.New()

// FieldError describes a single rejected input field.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// Errors is a list of field failures. A nil or empty Errors means the input is valid.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Param, fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when e is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e *Errors) add(param, msg string) {
	*e = append(*e, FieldError{Msg: msg, Param: param})
}

// Registration checks the register payload.
func Registration(username, email, password string) Errors {
	var errs Errors
	if strings.TrimSpace(username) == "" {
		errs.add("username", "Name is required")
	}
	if validate.Var(email, "required,email") != nil {
		errs.add("email", "Include a valid email")
	}
	if validate.Var(password, fmt.Sprintf("min=%d", constants.MinPasswordLength)) != nil {
		errs.add("password", fmt.Sprintf("Minimum %d characters", constants.MinPasswordLength))
	}
	return errs
}

// Login checks the login payload.
func Login(email, password string) Errors {
	var errs Errors
	if validate.Var(email, "required,email") != nil {
		errs.add("email", "Include a valid email")
	}
	if password == "" {
		errs.add("password", "Password is required")
	}
	return errs
}

// TaskCreate checks the fields of a new task. Status and priority may be empty,
// in which case the defaults apply.
func TaskCreate(title, dueDate, status, priority string) Errors {
	var errs Errors
	if strings.TrimSpace(title) == "" {
		errs.add("title", "Title is required")
	}
	if strings.TrimSpace(dueDate) == "" {
		errs.add("dueDate", "Due Date is required")
	} else if _, err := ParseDueDate(dueDate); err != nil {
		errs.add("dueDate", "Due Date must be an ISO 8601 date")
	}
	errs = append(errs, enumFields(status, priority)...)
	return errs
}

// TaskUpdate checks the supplied fields of a partial update. Nil fields are
// left untouched and are not checked.
func TaskUpdate(title, dueDate, status, priority *string) Errors {
	var errs Errors
	if title != nil && strings.TrimSpace(*title) == "" {
		errs.add("title", "Title cannot be empty")
	}
	if dueDate != nil {
		if _, err := ParseDueDate(*dueDate); err != nil {
			errs.add("dueDate", "Due Date must be an ISO 8601 date")
		}
	}
	var s, p string
	if status != nil {
		s = *status
		if s == "" {
			errs.add("status", "Invalid status")
		}
	}
	if priority != nil {
		p = *priority
		if p == "" {
			errs.add("priority", "Invalid priority")
		}
	}
	errs = append(errs, enumFields(s, p)...)
	return errs
}

func enumFields(status, priority string) Errors {
	var errs Errors
	if status != "" && !models.TaskStatus(status).Valid() {
		errs.add("status", "Invalid status")
	}
	if priority != "" && !models.TaskPriority(priority).Valid() {
		errs.add("priority", "Invalid priority")
	}
	return errs
}

var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDueDate accepts an RFC 3339 timestamp or a plain calendar date.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", value)
}
