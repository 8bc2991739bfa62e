package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	"github.com/nhan-trinh/phongdaotao/internal/service"
	"github.com/nhan-trinh/phongdaotao/pkg/response"
)

// ReportHandler exposes the grade report and export endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func reportFilter(c *gin.Context) models.GradeReportFilter {
	return models.GradeReportFilter{
		CourseID:     c.Query("course_id"),
		ClassID:      c.Query("class_id"),
		Semester:     c.Query("semester"),
		AcademicYear: c.Query("academic_year"),
	}
}

func testScoreFilter(c *gin.Context) models.TestScoreFilter {
	return models.TestScoreFilter{
		CourseID:     c.Query("course_id"),
		ClassID:      c.Query("class_id"),
		TestType:     c.Query("test_type"),
		Semester:     c.Query("semester"),
		AcademicYear: c.Query("academic_year"),
	}
}

// GradeReport godoc
// @Summary Server-side grade report with distribution and per-course summaries
// @Tags Reports
// @Produce json
// @Param course_id query string false "Filter by course"
// @Param class_id query string false "Filter by class"
// @Param semester query string false "Filter by semester"
// @Param academic_year query string false "Filter by academic year"
// @Success 200 {object} response.Envelope
// @Router /reports/grades [get]
func (h *ReportHandler) GradeReport(c *gin.Context) {
	report, err := h.reports.GradeReport(c.Request.Context(), reportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// TestScores godoc
// @Summary Test score report with 20-point range distribution and per-type averages
// @Tags Reports
// @Produce json
// @Param course_id query string false "Filter by course"
// @Param class_id query string false "Filter by class"
// @Param test_type query string false "Filter by test type"
// @Param semester query string false "Filter by semester"
// @Param academic_year query string false "Filter by academic year"
// @Success 200 {object} response.Envelope
// @Router /reports/test-scores [get]
func (h *ReportHandler) TestScores(c *gin.Context) {
	report, err := h.reports.TestScoreReport(c.Request.Context(), testScoreFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Download a grade report rendered as csv, xlsx or pdf
// @Tags Reports
// @Param format path string true "Export format (csv|xlsx|pdf)"
// @Param course_id query string false "Filter by course"
// @Param class_id query string false "Filter by class"
// @Success 200 {string} string
// @Router /reports/grades/export/{format} [get]
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Param("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	content, fileName, contentType, err := h.reports.RenderExport(c.Request.Context(), format, reportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, content)
}

// RequestExport godoc
// @Summary Queue an asynchronous grade report export
// @Tags Reports
// @Produce json
// @Param format path string true "Export format (csv|xlsx|pdf)"
// @Param course_id query string false "Filter by course"
// @Param class_id query string false "Filter by class"
// @Success 202 {object} response.Envelope
// @Router /reports/grades/export/{format}/async [post]
func (h *ReportHandler) RequestExport(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Param("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	job, err := h.reports.RequestExport(c.Request.Context(), format, reportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// ExportStatus godoc
// @Summary Poll an export job
// @Tags Reports
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/exports/{id} [get]
func (h *ReportHandler) ExportStatus(c *gin.Context) {
	job, err := h.reports.ExportJobStatus(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// DownloadExport godoc
// @Summary Download the artifact of a completed export job
// @Tags Reports
// @Param id path string true "Export job ID"
// @Success 200 {string} string
// @Router /reports/exports/{id}/download [get]
func (h *ReportHandler) DownloadExport(c *gin.Context) {
	artifact, err := h.reports.ExportArtifact(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+artifact.Job.FileName+`"`)
	c.Data(http.StatusOK, artifact.Job.ContentType, artifact.Content)
}
