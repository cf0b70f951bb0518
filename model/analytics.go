package model

// PerformanceReport aggregates a single student's marks.
type PerformanceReport struct {
	StudentID         string                    `json:"student_id"`
	TotalSubjects     int                       `json:"total_subjects"`
	AverageScore      float64                   `json:"average_score"`
	HighestScore      float64                   `json:"highest_score"`
	LowestScore       float64                   `json:"lowest_score"`
	ScoreRange        float64                   `json:"score_range"`
	StandardDeviation float64                   `json:"standard_deviation"`
	SubjectWise       map[string]SubjectSummary `json:"subject_wise,omitempty"`
	GradeDistribution map[string]int            `json:"grade_distribution"`
}

type SubjectSummary struct {
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// DepartmentReport aggregates performance across one institution.
type DepartmentReport struct {
	InstitutionID     string         `json:"institution_id"`
	StudentCount      int            `json:"student_count"`
	AverageGPA        float64        `json:"average_gpa"`
	GradeDistribution map[string]int `json:"grade_distribution"`
	AtRiskStudents    []string       `json:"at_risk_students"`
}

// Prediction is a least-squares trend projection over chronological marks.
type Prediction struct {
	StudentID      string  `json:"student_id"`
	SampleSize     int     `json:"sample_size"`
	Slope          float64 `json:"slope"`
	Intercept      float64 `json:"intercept"`
	PredictedScore float64 `json:"predicted_score"`
	PredictedGrade string  `json:"predicted_grade"`
	Trend          string  `json:"trend"` // "improving", "declining", "stable"
}

type PredictionRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Subject   string `json:"subject,omitempty"`
}

// DashboardCounts is the role-shaped summary for the dashboard endpoint.
type DashboardCounts struct {
	Students   int `json:"students"`
	Professors int `json:"professors"`
	Courses    int `json:"courses"`
	Notices    int `json:"notices"`
}
