package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskflow-api/internal/constants"
	apierrors "github.com/yukikurage/taskflow-api/internal/errors"
	"github.com/yukikurage/taskflow-api/internal/logger"
	"github.com/yukikurage/taskflow-api/internal/middleware"
	"github.com/yukikurage/taskflow-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Summary returns the task summary as a JSON array, or as a CSV attachment when format=csv.
func (h *ReportHandler) Summary(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "No token")
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), caller, services.ReportInput{
		IDs:    services.ParseReportIDs(c.Query("ids")),
		Format: c.Query("format"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoReportTasks):
			apierrors.NotFound(c, "No tasks found for the provided IDs")
		case errors.Is(err, services.ErrNotAuthorized):
			apierrors.Unauthorized(c, "User not authorized")
		default:
			logger.Error("report generation failed", "error", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	if report.IsCSV() {
		c.Header("Content-Disposition", `attachment; filename="`+constants.ReportCSVFilename+`"`)
		c.Data(http.StatusOK, "text/csv", report.CSV)
		return
	}

	c.JSON(http.StatusOK, report.Rows)
}
