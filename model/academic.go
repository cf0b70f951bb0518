package model

import "time"

type Course struct {
	ID            string    `json:"id"`
	Code          string    `json:"code" binding:"required"`
	Name          string    `json:"name" binding:"required"`
	Semester      int       `json:"semester"`
	Credits       int       `json:"credits"`
	ProfessorID   string    `json:"professor_id,omitempty"`
	InstitutionID string    `json:"institution_id"`
	BranchID      string    `json:"branch_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Branch struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" binding:"required"`
	Code          string    `json:"code" binding:"required"`
	InstitutionID string    `json:"institution_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Assignment struct {
	ID            string    `json:"id"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description,omitempty"`
	CourseID      string    `json:"course_id" binding:"required"`
	ProfessorID   string    `json:"professor_id"`
	DueDate       time.Time `json:"due_date"`
	InstitutionID string    `json:"institution_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Mark struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id" binding:"required"`
	CourseID      string    `json:"course_id" binding:"required"`
	Subject       string    `json:"subject"`
	Score         float64   `json:"score"`
	MaxScore      float64   `json:"max_score"`
	ExamType      string    `json:"exam_type,omitempty"` // "internal", "external", "assignment"
	ExamDate      time.Time `json:"exam_date"`
	InstitutionID string    `json:"institution_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Attendance struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id" binding:"required"`
	CourseID      string    `json:"course_id" binding:"required"`
	Date          time.Time `json:"date"`
	Present       bool      `json:"present"`
	InstitutionID string    `json:"institution_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
