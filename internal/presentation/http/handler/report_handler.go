package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/domain/report"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cafepos-api/pkg/export"
)

// ReportHandler serves the cashier session report
type ReportHandler struct {
	reportService *service.ReportService
	loc           *time.Location
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, loc *time.Location) *ReportHandler {
	return &ReportHandler{reportService: reportService, loc: loc}
}

// filter reads ?branch= and the inclusive ?from=/?to= login dates.
// An empty branch covers every branch.
func (h *ReportHandler) filter(c *gin.Context) (report.Filter, bool) {
	from, to, err := dateRange(c, h.loc)
	if err != nil {
		response.Error(c, err)
		return report.Filter{}, false
	}
	return report.Filter{Branch: c.Query("branch"), From: from, To: to}, true
}

// Sessions lists one row per store opening, newest first
func (h *ReportHandler) Sessions(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	sessions, err := h.reportService.Sessions(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sessions retrieved successfully", sessions)
}

// ExportSessions downloads the filtered sessions as a workbook
func (h *ReportHandler) ExportSessions(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	data, err := h.reportService.Export(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	name := "sessions-" + time.Now().In(h.loc).Format(dateLayout) + ".xlsx"
	response.File(c, name, export.ContentType, data)
}
