package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/test/mock"
)

type fakeMarkRepo struct {
	byStudent     map[string][]*model.Mark
	byInstitution []*model.Mark
	listCalls     int
}

func (f *fakeMarkRepo) CreateMark(ctx context.Context, mark model.Mark) (string, error) {
	return "m-new", nil
}

func (f *fakeMarkRepo) GetMark(ctx context.Context, scope auth.ScopedQuery, markID string) (*model.Mark, error) {
	return nil, apperrors.ErrMarkNotFound
}

func (f *fakeMarkRepo) UpdateMark(ctx context.Context, scope auth.ScopedQuery, mark model.Mark) (*model.Mark, error) {
	return &mark, nil
}

func (f *fakeMarkRepo) DeleteMark(ctx context.Context, scope auth.ScopedQuery, markID string) error {
	return nil
}

func (f *fakeMarkRepo) ListMarksByStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) ([]*model.Mark, error) {
	f.listCalls++
	return append([]*model.Mark(nil), f.byStudent[studentID]...), nil
}

func (f *fakeMarkRepo) ListMarksByInstitution(ctx context.Context, scope auth.ScopedQuery, branchID string) ([]*model.Mark, error) {
	return f.byInstitution, nil
}

type fixedCounts struct{ students, professors, courses, notices int }

func (f fixedCounts) CountStudents(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	return f.students, nil
}
func (f fixedCounts) CountProfessors(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	return f.professors, nil
}
func (f fixedCounts) CountCourses(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	return f.courses, nil
}
func (f fixedCounts) CountNotices(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	return f.notices, nil
}

func mark(student, subject string, score, max float64) *model.Mark {
	return &model.Mark{StudentID: student, CourseID: "c1", Subject: subject, Score: score, MaxScore: max}
}

func newAnalytics(repo *fakeMarkRepo, counts fixedCounts, store cache.Store) *service.AnalyticsService {
	c := cache.New(store, "mbc", cache.DefaultTTLs())
	return service.NewAnalyticsService(repo, counts, counts, counts, counts, c)
}

func TestStudentPerformanceReport(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{
		"s1": {
			mark("s1", "math", 90, 100),
			mark("s1", "math", 40, 50),    // 80 percent
			mark("s1", "physics", 35, 50), // 70 percent
		},
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	report, err := svc.StudentPerformance(context.Background(), scope, "s1")
	require.NoError(t, err)

	assert.Equal(t, "s1", report.StudentID)
	assert.Equal(t, 2, report.TotalSubjects)
	assert.InDelta(t, 80.0, report.AverageScore, 0.001)
	assert.InDelta(t, 90.0, report.HighestScore, 0.001)
	assert.InDelta(t, 70.0, report.LowestScore, 0.001)
	assert.InDelta(t, 20.0, report.ScoreRange, 0.001)
	assert.InDelta(t, 8.1649, report.StandardDeviation, 0.001)
	assert.InDelta(t, 85.0, report.SubjectWise["math"].Mean, 0.001)
	assert.Equal(t, 2, report.SubjectWise["math"].Count)
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, report.GradeDistribution)
}

func TestStudentPerformanceEmptyMarks(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())

	report, err := svc.StudentPerformance(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"}, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalSubjects)
	assert.Zero(t, report.AverageScore)
}

func TestStudentPerformanceIsCached(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{
		"s1": {mark("s1", "math", 80, 100)},
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	_, err := svc.StudentPerformance(context.Background(), scope, "s1")
	require.NoError(t, err)
	_, err = svc.StudentPerformance(context.Background(), scope, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestDepartmentReportFlagsAtRiskStudents(t *testing.T) {
	repo := &fakeMarkRepo{byInstitution: []*model.Mark{
		mark("s3", "math", 30, 100),
		mark("s1", "math", 95, 100),
		mark("s1", "physics", 85, 100),
		mark("s2", "math", 40, 100),
		mark("s2", "physics", 50, 100),
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())

	report, err := svc.DepartmentReport(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"}, "")
	require.NoError(t, err)

	assert.Equal(t, "inst-1", report.InstitutionID)
	assert.Equal(t, 3, report.StudentCount)
	// Means are 90, 45 and 30, so the overall GPA is (90+45+30)/3/10.
	assert.InDelta(t, 5.5, report.AverageGPA, 0.001)
	// The at-risk list is sorted regardless of aggregation order.
	assert.Equal(t, []string{"s2", "s3"}, report.AtRiskStudents)
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "F": 3}, report.GradeDistribution)
}

func TestPredictTrendRequiresThreeMarks(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{
		"s1": {mark("s1", "math", 80, 100), mark("s1", "math", 82, 100)},
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())

	_, err := svc.PredictTrend(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.PredictionRequest{StudentID: "s1"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientMarks)
}

func TestPredictTrendImproving(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{
		"s1": {
			mark("s1", "math", 60, 100),
			mark("s1", "math", 70, 100),
			mark("s1", "math", 80, 100),
		},
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())

	pred, err := svc.PredictTrend(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.PredictionRequest{StudentID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, 3, pred.SampleSize)
	assert.InDelta(t, 10.0, pred.Slope, 0.001)
	assert.InDelta(t, 90.0, pred.PredictedScore, 0.001)
	assert.Equal(t, "A", pred.PredictedGrade)
	assert.Equal(t, "improving", pred.Trend)
}

func TestPredictTrendDecliningAndClamped(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{
		"s1": {
			mark("s1", "math", 60, 100),
			mark("s1", "math", 30, 100),
			mark("s1", "math", 5, 100),
		},
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())

	pred, err := svc.PredictTrend(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.PredictionRequest{StudentID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, "declining", pred.Trend)
	// A raw projection below zero is clamped to the score floor.
	assert.Equal(t, 0.0, pred.PredictedScore)
	assert.Equal(t, "F", pred.PredictedGrade)
}

func TestPredictTrendStable(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{
		"s1": {
			mark("s1", "math", 75, 100),
			mark("s1", "math", 75, 100),
			mark("s1", "math", 75, 100),
		},
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())

	pred, err := svc.PredictTrend(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.PredictionRequest{StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "stable", pred.Trend)
	assert.InDelta(t, 75.0, pred.PredictedScore, 0.001)
}

func TestPredictTrendSubjectFilter(t *testing.T) {
	repo := &fakeMarkRepo{byStudent: map[string][]*model.Mark{
		"s1": {
			mark("s1", "math", 60, 100),
			mark("s1", "physics", 95, 100),
			mark("s1", "math", 70, 100),
			mark("s1", "physics", 96, 100),
			mark("s1", "math", 80, 100),
		},
	}}
	svc := newAnalytics(repo, fixedCounts{}, mock.NewStore())

	pred, err := svc.PredictTrend(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.PredictionRequest{StudentID: "s1", Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, 3, pred.SampleSize)
	assert.Equal(t, "improving", pred.Trend)

	// Two physics marks are below the sample floor.
	_, err = svc.PredictTrend(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.PredictionRequest{StudentID: "s1", Subject: "physics"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientMarks)
}

func TestDashboardCounts(t *testing.T) {
	svc := newAnalytics(&fakeMarkRepo{}, fixedCounts{students: 120, professors: 14, courses: 32, notices: 7}, mock.NewStore())

	counts, err := svc.Dashboard(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"})
	require.NoError(t, err)
	assert.Equal(t, 120, counts.Students)
	assert.Equal(t, 14, counts.Professors)
	assert.Equal(t, 32, counts.Courses)
	assert.Equal(t, 7, counts.Notices)
}
