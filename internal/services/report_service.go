package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskflow-api/internal/constants"
	"github.com/yukikurage/taskflow-api/internal/models"
	"github.com/yukikurage/taskflow-api/internal/repository"
)

var ErrNoReportTasks = errors.New("no tasks found for the provided IDs")

// ReportRow is the flattened projection of a task in a summary report.
type ReportRow struct {
	Title        string            `json:"title"`
	Status       models.TaskStatus `json:"status"`
	AssignedUser string            `json:"assignedUser"`
	DueDate      time.Time         `json:"dueDate"`
	CreatedBy    string            `json:"createdBy"`
}

var reportHeader = []string{"title", "status", "assignedUser", "dueDate", "createdBy"}

// ReportService builds task summary reports.
type ReportService struct {
	taskRepo repository.TaskRepository
	policy   AccessPolicy
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository, policy AccessPolicy) *ReportService {
	return &ReportService{
		taskRepo: taskRepo,
		policy:   policy,
	}
}

// ReportInput selects the tasks and output format of a report.
type ReportInput struct {
	IDs    []string
	Format string
}

// Report is a generated summary. CSV is set only for the csv format.
type Report struct {
	Rows []ReportRow
	CSV  []byte
}

// IsCSV reports whether the report was rendered as CSV.
func (r *Report) IsCSV() bool {
	return r.CSV != nil
}

// Generate builds the summary for input.IDs and renders it as CSV when
// input.Format is "csv".
func (s *ReportService) Generate(ctx context.Context, caller Caller, input ReportInput) (*Report, error) {
	rows, err := s.Summary(ctx, caller, input.IDs)
	if err != nil {
		return nil, err
	}

	report := &Report{Rows: rows}
	if strings.EqualFold(input.Format, constants.ReportFormatCSV) {
		if report.CSV, err = EncodeCSV(rows); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// ParseReportIDs splits a comma separated id list, dropping blanks and duplicates.
func ParseReportIDs(raw string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Summary returns one row per task in ids, or per stored task when ids is empty.
func (s *ReportService) Summary(ctx context.Context, caller Caller, ids []string) ([]ReportRow, error) {
	if s.policy.AdminOnlyReports && !caller.IsAdmin {
		return nil, ErrNotAuthorized
	}

	tasks, err := s.taskRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load report tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNoReportTasks
	}

	rows := make([]ReportRow, len(tasks))
	for i, task := range tasks {
		rows[i] = ToReportRow(task)
	}
	return rows, nil
}

// ToReportRow projects a task with its assignee preloaded.
func ToReportRow(task models.Task) ReportRow {
	assigned := constants.ReportNotAssigned
	if task.AssignedUser != nil {
		assigned = task.AssignedUser.Email
	}
	return ReportRow{
		Title:        task.Title,
		Status:       task.Status,
		AssignedUser: assigned,
		DueDate:      task.DueDate.UTC(),
		CreatedBy:    task.CreatedByID,
	}
}

// EncodeCSV renders rows with a single header row.
func EncodeCSV(rows []ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Title,
			string(row.Status),
			row.AssignedUser,
			row.DueDate.Format(time.RFC3339),
			row.CreatedBy,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
