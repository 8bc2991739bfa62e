package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type reportRepoStub struct {
	bands          []models.GradeBand
	summaries      []models.CourseGradeSummary
	threshold      float64
	scoreBands     []models.GradeBand
	typeAverages   []models.TestTypeAverage
	trend          []models.TestScoreTrendPoint
	scoreStats     models.TestScoreStats
	scoreThreshold float64
	trendCalled    bool
}

func (s *reportRepoStub) GradeDistribution(ctx context.Context, filter models.GradeReportFilter) ([]models.GradeBand, error) {
	return s.bands, nil
}

func (s *reportRepoStub) CourseGradeSummaries(ctx context.Context, filter models.GradeReportFilter, passThreshold float64) ([]models.CourseGradeSummary, error) {
	s.threshold = passThreshold
	return s.summaries, nil
}

func (s *reportRepoStub) TestScoreDistribution(ctx context.Context, filter models.TestScoreFilter) ([]models.GradeBand, error) {
	return s.scoreBands, nil
}

func (s *reportRepoStub) TestTypeAverages(ctx context.Context, filter models.TestScoreFilter) ([]models.TestTypeAverage, error) {
	return s.typeAverages, nil
}

func (s *reportRepoStub) TestScoreTrend(ctx context.Context, filter models.TestScoreFilter) ([]models.TestScoreTrendPoint, error) {
	s.trendCalled = true
	return s.trend, nil
}

func (s *reportRepoStub) TestScoreStats(ctx context.Context, filter models.TestScoreFilter, passThreshold float64) (*models.TestScoreStats, error) {
	s.scoreThreshold = passThreshold
	stats := s.scoreStats
	return &stats, nil
}

func newReportStub() *reportRepoStub {
	return &reportRepoStub{
		bands: []models.GradeBand{{Band: "A", Count: 3}, {Band: "F", Count: 1}},
		summaries: []models.CourseGradeSummary{{
			CourseID:     "course-1",
			CourseCode:   "MATH101",
			CourseName:   "Giai tich 1",
			GradedCount:  4,
			AverageScore: 6.75,
			PassCount:    3,
			PassRate:     75,
		}},
		scoreBands: []models.GradeBand{{Band: "61-80", Count: 5}, {Band: "81-100", Count: 2}},
		typeAverages: []models.TestTypeAverage{
			{TestType: "midterm", TestCount: 4, AverageScore: 72.5},
			{TestType: "final", TestCount: 3, AverageScore: 68.0},
		},
		trend: []models.TestScoreTrendPoint{{
			TestDate:     time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			TestCount:    2,
			AverageScore: 70,
		}},
		scoreStats: models.TestScoreStats{
			TestCount:    7,
			AverageScore: 70.57,
			HighestScore: 95,
			LowestScore:  42,
			PassCount:    5,
			PassRate:     71.43,
		},
	}
}

func TestReportServiceGradeReport(t *testing.T) {
	stub := newReportStub()
	svc := NewReportService(stub, ReportServiceConfig{PassThreshold: 5.0}, nil)

	report, err := svc.GradeReport(context.Background(), models.GradeReportFilter{})
	require.NoError(t, err)
	require.Equal(t, 5.0, report.PassThreshold)
	require.Equal(t, 5.0, stub.threshold)
	require.Len(t, report.Distribution, 2)
	require.Len(t, report.Courses, 1)
	require.False(t, report.GeneratedAt.IsZero())
}

func TestReportServiceTestScoreReport(t *testing.T) {
	stub := newReportStub()
	svc := NewReportService(stub, ReportServiceConfig{TestPassThreshold: 60.0}, nil)

	report, err := svc.TestScoreReport(context.Background(), models.TestScoreFilter{})
	require.NoError(t, err)
	require.Equal(t, 60.0, report.PassThreshold)
	require.Equal(t, 60.0, stub.scoreThreshold)
	require.Equal(t, 7, report.Stats.TestCount)
	require.Len(t, report.Distribution, 2)
	require.Len(t, report.TestTypes, 2)
	require.False(t, report.GeneratedAt.IsZero())

	// The per-date trend needs both a course and a test type.
	require.False(t, stub.trendCalled)
	require.Empty(t, report.Trend)
}

func TestReportServiceTestScoreTrendForSpecificTest(t *testing.T) {
	stub := newReportStub()
	svc := NewReportService(stub, ReportServiceConfig{}, nil)

	report, err := svc.TestScoreReport(context.Background(), models.TestScoreFilter{
		CourseID: "course-1",
		TestType: "midterm",
	})
	require.NoError(t, err)
	require.True(t, stub.trendCalled)
	require.Len(t, report.Trend, 1)
	require.Equal(t, 60.0, report.PassThreshold, "test pass threshold defaults to the 100-point scale")
}

func TestReportServiceRenderCSV(t *testing.T) {
	svc := NewReportService(newReportStub(), ReportServiceConfig{}, nil)

	content, fileName, contentType, err := svc.RenderExport(context.Background(), models.ExportFormatCSV, models.GradeReportFilter{})
	require.NoError(t, err)
	require.Equal(t, "text/csv", contentType)
	require.True(t, strings.HasSuffix(fileName, ".csv"))

	body := string(content)
	require.Contains(t, body, "Course Code")
	require.Contains(t, body, "MATH101")
	require.Contains(t, body, "75.0")
}

func TestReportServiceRenderUnknownFormat(t *testing.T) {
	svc := NewReportService(newReportStub(), ReportServiceConfig{}, nil)

	_, _, _, err := svc.RenderExport(context.Background(), models.ExportFormat("doc"), models.GradeReportFilter{})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestReportServiceAsyncExport(t *testing.T) {
	svc := NewReportService(newReportStub(), ReportServiceConfig{Workers: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	job, err := svc.RequestExport(context.Background(), models.ExportFormatCSV, models.GradeReportFilter{})
	require.NoError(t, err)
	require.Equal(t, models.ExportJobStatusQueued, job.Status)

	require.Eventually(t, func() bool {
		current, err := svc.ExportJobStatus(job.ID)
		return err == nil && current.Status == models.ExportJobStatusDone
	}, 2*time.Second, 10*time.Millisecond)

	artifact, err := svc.ExportArtifact(job.ID)
	require.NoError(t, err)
	require.NotEmpty(t, artifact.Content)
	require.Equal(t, "text/csv", artifact.Job.ContentType)
}

func TestReportServiceExportStatusUnknownJob(t *testing.T) {
	svc := NewReportService(newReportStub(), ReportServiceConfig{}, nil)

	_, err := svc.ExportJobStatus("missing")
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestParseExportFormat(t *testing.T) {
	for _, valid := range []string{"csv", "xlsx", "pdf"} {
		format, err := ParseExportFormat(valid)
		require.NoError(t, err)
		require.Equal(t, models.ExportFormat(valid), format)
	}
	_, err := ParseExportFormat("docx")
	require.Error(t, err)
}
