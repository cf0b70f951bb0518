package service

import (
	"context"
	"math"
	"sort"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
)

// Per-resource count providers the dashboard aggregates. Each DAO satisfies
// its own slice.
type StudentCounter interface {
	CountStudents(ctx context.Context, scope auth.ScopedQuery) (int, error)
}

type ProfessorCounter interface {
	CountProfessors(ctx context.Context, scope auth.ScopedQuery) (int, error)
}

type CourseCounter interface {
	CountCourses(ctx context.Context, scope auth.ScopedQuery) (int, error)
}

type NoticeCounter interface {
	CountNotices(ctx context.Context, scope auth.ScopedQuery) (int, error)
}

type counters struct {
	Students   StudentCounter
	Professors ProfessorCounter
	Courses    CourseCounter
	Notices    NoticeCounter
}

type IAnalyticsService interface {
	StudentPerformance(ctx context.Context, scope auth.ScopedQuery, studentID string) (*model.PerformanceReport, error)
	DepartmentReport(ctx context.Context, scope auth.ScopedQuery, branchID string) (*model.DepartmentReport, error)
	PredictTrend(ctx context.Context, scope auth.ScopedQuery, req model.PredictionRequest) (*model.Prediction, error)
	Dashboard(ctx context.Context, scope auth.ScopedQuery) (*model.DashboardCounts, error)
}

// AnalyticsService computes performance aggregates from raw marks. Reports
// are expensive to assemble, so they cache at the medium TTL and every mark
// mutation invalidates them.
type AnalyticsService struct {
	markRepo MarkRepository
	counters counters
	cache    *cache.Cache
}

var _ IAnalyticsService = &AnalyticsService{}

func NewAnalyticsService(markRepo MarkRepository, studentCounter StudentCounter, professorCounter ProfessorCounter, courseCounter CourseCounter, noticeCounter NoticeCounter, cacheSvc *cache.Cache) *AnalyticsService {
	return &AnalyticsService{
		markRepo: markRepo,
		counters: counters{
			Students:   studentCounter,
			Professors: professorCounter,
			Courses:    courseCounter,
			Notices:    noticeCounter,
		},
		cache: cacheSvc,
	}
}

// StudentPerformance builds the per-student report: overall statistics,
// per-subject means and a letter-grade distribution.
func (s *AnalyticsService) StudentPerformance(ctx context.Context, scope auth.ScopedQuery, studentID string) (*model.PerformanceReport, error) {
	var report model.PerformanceReport
	key := cache.EntityKey("analytics", "performance", studentID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLMedium, &report,
		func(ctx context.Context) (interface{}, error) {
			marks, err := s.markRepo.ListMarksByStudent(ctx, scope, studentID)
			if err != nil {
				return nil, err
			}
			return buildPerformanceReport(studentID, marks), nil
		})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// DepartmentReport aggregates every student's percentage scores in the
// caller's institution, optionally restricted to one branch. Students
// averaging below 60 percent are flagged at risk.
func (s *AnalyticsService) DepartmentReport(ctx context.Context, scope auth.ScopedQuery, branchID string) (*model.DepartmentReport, error) {
	var report model.DepartmentReport
	key := cache.EntityKey("analytics", "department", scopeKeyPart(scope), branchID)
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLMedium, &report,
		func(ctx context.Context) (interface{}, error) {
			marks, err := s.markRepo.ListMarksByInstitution(ctx, scope, branchID)
			if err != nil {
				return nil, err
			}
			return buildDepartmentReport(scope.InstitutionID, marks), nil
		})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// PredictTrend fits a least-squares line through the student's chronological
// percentage scores and projects one exam ahead. At least three marks are
// required for the fit to mean anything.
func (s *AnalyticsService) PredictTrend(ctx context.Context, scope auth.ScopedQuery, req model.PredictionRequest) (*model.Prediction, error) {
	marks, err := s.markRepo.ListMarksByStudent(ctx, scope, req.StudentID)
	if err != nil {
		return nil, err
	}

	if req.Subject != "" {
		filtered := marks[:0]
		for _, m := range marks {
			if m.Subject == req.Subject {
				filtered = append(filtered, m)
			}
		}
		marks = filtered
	}

	if len(marks) < 3 {
		return nil, apperrors.ErrInsufficientMarks
	}

	scores := make([]float64, len(marks))
	for i, m := range marks {
		scores[i] = percentage(m)
	}

	slope, intercept := leastSquares(scores)
	predicted := slope*float64(len(scores)) + intercept
	predicted = clamp(predicted, 0, 100)

	trend := "stable"
	switch {
	case slope > 0.5:
		trend = "improving"
	case slope < -0.5:
		trend = "declining"
	}

	return &model.Prediction{
		StudentID:      req.StudentID,
		SampleSize:     len(scores),
		Slope:          slope,
		Intercept:      intercept,
		PredictedScore: predicted,
		PredictedGrade: letterGrade(predicted),
		Trend:          trend,
	}, nil
}

// Dashboard assembles the scoped entity counts.
func (s *AnalyticsService) Dashboard(ctx context.Context, scope auth.ScopedQuery) (*model.DashboardCounts, error) {
	var counts model.DashboardCounts
	key := cache.EntityKey("dashboard", "counts", scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLMedium, &counts,
		func(ctx context.Context) (interface{}, error) {
			out := model.DashboardCounts{}
			var err error
			if out.Students, err = s.counters.Students.CountStudents(ctx, scope); err != nil {
				return nil, err
			}
			if out.Professors, err = s.counters.Professors.CountProfessors(ctx, scope); err != nil {
				return nil, err
			}
			if out.Courses, err = s.counters.Courses.CountCourses(ctx, scope); err != nil {
				return nil, err
			}
			if out.Notices, err = s.counters.Notices.CountNotices(ctx, scope); err != nil {
				return nil, err
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

func buildPerformanceReport(studentID string, marks []*model.Mark) model.PerformanceReport {
	report := model.PerformanceReport{
		StudentID:         studentID,
		GradeDistribution: map[string]int{},
	}
	if len(marks) == 0 {
		return report
	}

	scores := make([]float64, len(marks))
	subjects := map[string][]float64{}
	sum := 0.0
	highest := math.Inf(-1)
	lowest := math.Inf(1)

	for i, m := range marks {
		p := percentage(m)
		scores[i] = p
		sum += p
		if p > highest {
			highest = p
		}
		if p < lowest {
			lowest = p
		}
		if m.Subject != "" {
			subjects[m.Subject] = append(subjects[m.Subject], p)
		}
		report.GradeDistribution[letterGrade(p)]++
	}

	mean := sum / float64(len(scores))
	variance := 0.0
	for _, p := range scores {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(scores))

	report.TotalSubjects = len(subjects)
	report.AverageScore = mean
	report.HighestScore = highest
	report.LowestScore = lowest
	report.ScoreRange = highest - lowest
	report.StandardDeviation = math.Sqrt(variance)

	if len(subjects) > 0 {
		report.SubjectWise = make(map[string]model.SubjectSummary, len(subjects))
		for subject, ss := range subjects {
			total := 0.0
			for _, p := range ss {
				total += p
			}
			report.SubjectWise[subject] = model.SubjectSummary{
				Mean:  total / float64(len(ss)),
				Count: len(ss),
			}
		}
	}
	return report
}

func buildDepartmentReport(institutionID string, marks []*model.Mark) model.DepartmentReport {
	report := model.DepartmentReport{
		InstitutionID:     institutionID,
		GradeDistribution: map[string]int{},
		AtRiskStudents:    []string{},
	}
	if len(marks) == 0 {
		return report
	}

	perStudent := map[string][]float64{}
	for _, m := range marks {
		p := percentage(m)
		perStudent[m.StudentID] = append(perStudent[m.StudentID], p)
		report.GradeDistribution[letterGrade(p)]++
	}

	totalOfMeans := 0.0
	for studentID, scores := range perStudent {
		sum := 0.0
		for _, p := range scores {
			sum += p
		}
		mean := sum / float64(len(scores))
		totalOfMeans += mean
		if mean < 60 {
			report.AtRiskStudents = append(report.AtRiskStudents, studentID)
		}
	}

	// Map iteration order is random; keep the cached report stable.
	sort.Strings(report.AtRiskStudents)

	report.StudentCount = len(perStudent)
	// GPA on a 10-point scale derived from mean percentage.
	report.AverageGPA = totalOfMeans / float64(len(perStudent)) / 10
	return report
}

// percentage normalizes a mark to 0-100 regardless of its max score.
func percentage(m *model.Mark) float64 {
	if m.MaxScore <= 0 {
		return m.Score
	}
	return m.Score / m.MaxScore * 100
}

func letterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	}
	return "F"
}

// leastSquares fits y = slope*x + intercept over x = 0..n-1.
func leastSquares(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
