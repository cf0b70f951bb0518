package model

import "time"

// Feedback is a free-text comment submitted for sentiment analysis. Score,
// Classification and Confidence are filled in by the analyzer, never by the
// caller.
type Feedback struct {
	ID             string    `json:"id"`
	Text           string    `json:"text" binding:"required"`
	Source         string    `json:"source,omitempty"`
	Category       string    `json:"category,omitempty"`
	InstitutionID  string    `json:"institution_id"`
	Score          float64   `json:"score"`
	Classification string    `json:"classification"`
	Confidence     float64   `json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
}

// SentimentReport summarizes the stored feedback for a period: how many
// comments fell into each class, average scores, and the day-by-day drift.
type SentimentReport struct {
	TotalFeedback   int                `json:"total_feedback"`
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	Distribution    map[string]int     `json:"distribution"`
	AverageScore    float64            `json:"average_score"`
	AveragePositive float64            `json:"average_positive"`
	AverageNegative float64            `json:"average_negative"`
	DailyAverage    map[string]float64 `json:"daily_average,omitempty"`
	Trend           string             `json:"trend,omitempty"` // "improving", "declining", "stable"
}
