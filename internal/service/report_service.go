package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
	"github.com/nhan-trinh/phongdaotao/pkg/export"
	"github.com/nhan-trinh/phongdaotao/pkg/jobs"
)

type reportStore interface {
	GradeDistribution(ctx context.Context, filter models.GradeReportFilter) ([]models.GradeBand, error)
	CourseGradeSummaries(ctx context.Context, filter models.GradeReportFilter, passThreshold float64) ([]models.CourseGradeSummary, error)
	TestScoreDistribution(ctx context.Context, filter models.TestScoreFilter) ([]models.GradeBand, error)
	TestTypeAverages(ctx context.Context, filter models.TestScoreFilter) ([]models.TestTypeAverage, error)
	TestScoreTrend(ctx context.Context, filter models.TestScoreFilter) ([]models.TestScoreTrendPoint, error)
	TestScoreStats(ctx context.Context, filter models.TestScoreFilter, passThreshold float64) (*models.TestScoreStats, error)
}

// ExportArtifact is a rendered export held until it is downloaded or expires.
type ExportArtifact struct {
	Job     models.ExportJob
	Content []byte
}

type exportJobPayload struct {
	jobID  string
	format models.ExportFormat
	filter models.GradeReportFilter
}

// ReportService computes grade reports in SQL and renders exports. Exports
// run on a background queue; callers poll the job until it is done.
type ReportService struct {
	store             reportStore
	passThreshold     float64
	testPassThreshold float64
	retention         time.Duration
	logger            *zap.Logger

	csv  *export.CSVExporter
	xlsx *export.XLSXExporter
	pdf  *export.PDFExporter

	queue   *jobs.Queue
	metrics *MetricsService

	mu        sync.RWMutex
	artifacts map[string]*ExportArtifact
}

// ReportServiceConfig tunes report aggregation and export workers.
// PassThreshold applies to final grades on the 10-point scale,
// TestPassThreshold to test scores on the 100-point scale.
type ReportServiceConfig struct {
	PassThreshold     float64
	TestPassThreshold float64
	Workers           int
	MaxRetries        int
	ExportRetention   time.Duration
}

// NewReportService constructs ReportService. Start must be called before
// exports are requested.
func NewReportService(store reportStore, cfg ReportServiceConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PassThreshold <= 0 {
		cfg.PassThreshold = 5.0
	}
	if cfg.TestPassThreshold <= 0 {
		cfg.TestPassThreshold = 60.0
	}
	if cfg.ExportRetention <= 0 {
		cfg.ExportRetention = time.Hour
	}

	s := &ReportService{
		store:             store,
		passThreshold:     cfg.PassThreshold,
		testPassThreshold: cfg.TestPassThreshold,
		retention:         cfg.ExportRetention,
		logger:            logger,
		csv:               export.NewCSVExporter(),
		xlsx:              export.NewXLSXExporter(),
		pdf:               export.NewPDFExporter(),
		artifacts:         make(map[string]*ExportArtifact),
	}
	s.queue = jobs.NewQueue("report-exports", s.handleExportJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// WithMetrics attaches an export duration histogram.
func (s *ReportService) WithMetrics(metrics *MetricsService) *ReportService {
	s.metrics = metrics
	return s
}

// Start launches the export workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// GradeReport aggregates the distribution and per-course summaries.
func (s *ReportService) GradeReport(ctx context.Context, filter models.GradeReportFilter) (*models.GradeReport, error) {
	distribution, err := s.store.GradeDistribution(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute grade distribution")
	}
	courses, err := s.store.CourseGradeSummaries(ctx, filter, s.passThreshold)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute course summaries")
	}
	return &models.GradeReport{
		PassThreshold: s.passThreshold,
		Distribution:  distribution,
		Courses:       courses,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// TestScoreReport aggregates test-score statistics, the 20-point range
// distribution and per-test-type averages. The per-date trend needs a
// specific course and test type to be meaningful, so it is computed only
// when the filter names both.
func (s *ReportService) TestScoreReport(ctx context.Context, filter models.TestScoreFilter) (*models.TestScoreReport, error) {
	stats, err := s.store.TestScoreStats(ctx, filter, s.testPassThreshold)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute test score stats")
	}
	distribution, err := s.store.TestScoreDistribution(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute test score distribution")
	}
	averages, err := s.store.TestTypeAverages(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute test type averages")
	}

	report := &models.TestScoreReport{
		PassThreshold: s.testPassThreshold,
		Stats:         *stats,
		Distribution:  distribution,
		TestTypes:     averages,
		GeneratedAt:   time.Now().UTC(),
	}
	if filter.CourseID != "" && filter.TestType != "" {
		trend, err := s.store.TestScoreTrend(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute test score trend")
		}
		report.Trend = trend
	}
	return report, nil
}

// ParseExportFormat validates an export format string.
func ParseExportFormat(raw string) (models.ExportFormat, error) {
	switch models.ExportFormat(raw) {
	case models.ExportFormatCSV, models.ExportFormatXLSX, models.ExportFormatPDF:
		return models.ExportFormat(raw), nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv, xlsx or pdf")
}

// RequestExport enqueues an asynchronous export and returns its job record.
func (s *ReportService) RequestExport(ctx context.Context, format models.ExportFormat, filter models.GradeReportFilter) (*models.ExportJob, error) {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return nil, err
	}

	job := models.ExportJob{
		ID:          uuid.NewString(),
		Format:      format,
		Status:      models.ExportJobStatusQueued,
		RequestedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.artifacts[job.ID] = &ExportArtifact{Job: job}
	s.mu.Unlock()

	err := s.queue.Enqueue(jobs.Job{
		ID:      job.ID,
		Type:    "grade-report-export",
		Payload: exportJobPayload{jobID: job.ID, format: format, filter: filter},
	})
	if err != nil {
		s.mu.Lock()
		delete(s.artifacts, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	s.logger.Info("export queued", zap.String("job_id", job.ID), zap.String("format", string(format)))
	return &job, nil
}

// ExportJobStatus returns the current job record.
func (s *ReportService) ExportJobStatus(id string) (*models.ExportJob, error) {
	s.mu.RLock()
	artifact, ok := s.artifacts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	job := artifact.Job
	return &job, nil
}

// ExportArtifact returns the rendered bytes of a completed job.
func (s *ReportService) ExportArtifact(id string) (*ExportArtifact, error) {
	s.mu.RLock()
	artifact, ok := s.artifacts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if artifact.Job.Status != models.ExportJobStatusDone {
		return nil, appErrors.Clone(appErrors.ErrConflict, "export is not finished")
	}
	return artifact, nil
}

// RenderExport renders a grade report synchronously in the given format.
func (s *ReportService) RenderExport(ctx context.Context, format models.ExportFormat, filter models.GradeReportFilter) ([]byte, string, string, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveExport(time.Since(started)) }()

	report, err := s.GradeReport(ctx, filter)
	if err != nil {
		return nil, "", "", err
	}
	dataset := reportDataset(report)
	stamp := report.GeneratedAt.Format("20060102-150405")

	switch format {
	case models.ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return content, "grade-report-" + stamp + ".csv", "text/csv", nil
	case models.ExportFormatXLSX:
		content, err := s.xlsx.Render(dataset, "Grade Report")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx")
		}
		return content, "grade-report-" + stamp + ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case models.ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Grade Report")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return content, "grade-report-" + stamp + ".pdf", "application/pdf", nil
	}
	return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv, xlsx or pdf")
}

func (s *ReportService) handleExportJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportJobPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	content, fileName, contentType, err := s.RenderExport(ctx, payload.format, payload.filter)
	now := time.Now().UTC()

	s.mu.Lock()
	artifact, exists := s.artifacts[payload.jobID]
	if exists {
		if err != nil {
			artifact.Job.Status = models.ExportJobStatusFailed
			artifact.Job.Error = appErrors.FromError(err).Message
		} else {
			artifact.Job.Status = models.ExportJobStatusDone
			artifact.Job.FileName = fileName
			artifact.Job.ContentType = contentType
			artifact.Job.CompletedAt = &now
			artifact.Content = content
		}
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.expireArtifacts(now)
	return nil
}

func (s *ReportService) expireArtifacts(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, artifact := range s.artifacts {
		if artifact.Job.CompletedAt != nil && now.Sub(*artifact.Job.CompletedAt) > s.retention {
			delete(s.artifacts, id)
		}
	}
}

func reportDataset(report *models.GradeReport) export.Dataset {
	rows := make([]map[string]string, 0, len(report.Courses))
	for _, course := range report.Courses {
		rows = append(rows, map[string]string{
			"Course Code":   course.CourseCode,
			"Course Name":   course.CourseName,
			"Graded":        strconv.Itoa(course.GradedCount),
			"Average Score": strconv.FormatFloat(course.AverageScore, 'f', 2, 64),
			"Pass Count":    strconv.Itoa(course.PassCount),
			"Pass Rate (%)": strconv.FormatFloat(course.PassRate, 'f', 1, 64),
		})
	}
	return export.Dataset{
		Headers: []string{"Course Code", "Course Name", "Graded", "Average Score", "Pass Count", "Pass Rate (%)"},
		Rows:    rows,
	}
}
