package model

import "time"

type Student struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name" binding:"required"`
	Email         string    `json:"email" binding:"required,email"`
	RollNumber    string    `json:"roll_number" binding:"required"`
	Semester      int       `json:"semester"`
	GPA           float64   `json:"gpa,omitempty"`
	InstitutionID string    `json:"institution_id"`
	BranchID      string    `json:"branch_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Professor struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name" binding:"required"`
	Email         string    `json:"email" binding:"required,email"`
	Designation   string    `json:"designation,omitempty"`
	InstitutionID string    `json:"institution_id"`
	BranchID      string    `json:"branch_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
