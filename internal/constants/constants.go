package constants

// Context keys
const (
	ContextKeyCaller = "caller"
	ContextKeyTask   = "task"
)

// Pagination
const (
	MinPage         = 1
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Authentication
const (
	MinPasswordLength = 6
	BearerPrefix      = "Bearer "
)

// Reports
const (
	ReportFormatCSV   = "csv"
	ReportCSVFilename = "task_summary_report.csv"
	ReportNotAssigned = "Not assigned"
)
