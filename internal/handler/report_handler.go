package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tesouraria/tesouraria-backend/internal/service"
)

// defaultDownloadExpiry is how long a presigned report URL stays valid
const defaultDownloadExpiry = 15 * time.Minute

// ReportHandler handles CSV report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportReport handles POST /collections/:collection/categories/:categoryId/subcategories/:subcategoryId/reports
func (h *ReportHandler) ExportReport(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	subcategoryID, err := uuidParam(c, "subcategoryId")
	if err != nil {
		return NewValidationError(c, "Invalid subcategory ID", nil)
	}

	report, err := h.reportService.Export(c.Request().Context(), collection, categoryID, subcategoryID)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, report)
}

// GetReports handles GET /reports
func (h *ReportHandler) GetReports(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "limit", Message: "Limit must be a non-negative integer"},
			})
		}
		limit = parsed
	}

	reports, err := h.reportService.Reports(c.Request().Context(), limit)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, reports)
}

// DownloadReport handles GET /reports/:id/download
func (h *ReportHandler) DownloadReport(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid report ID", nil)
	}

	url, err := h.reportService.DownloadURL(c.Request().Context(), id, defaultDownloadExpiry)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
