package handler

import (
	"github.com/gin-gonic/gin"
	analyticsapp "github.com/salesdash/backend/internal/application/analytics"
	"github.com/salesdash/backend/internal/interfaces/http/dto"
	"github.com/salesdash/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AnalyticsHandler serves report generation and listing endpoints.
type AnalyticsHandler struct {
	BaseHandler
	service *analyticsapp.ReportService
	logger  *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *analyticsapp.ReportService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the analytics endpoints.
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	{
		analytics.GET("/report", h.GetReport)
		analytics.GET("/reports", h.ListReports)
	}
}

// GetReport aggregates sales within the requested window, stores the
// snapshot, and returns it. Both startDate and endDate are required.
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	report, err := h.service.Generate(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Warn("Report generation failed",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToReportResponse(report))
}

// ListReports returns all stored report snapshots, newest first.
func (h *AnalyticsHandler) ListReports(c *gin.Context) {
	reports, err := h.service.ListReports(c.Request.Context())
	if err != nil {
		h.logger.Error("Listing reports failed", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToReportResponses(reports))
}
