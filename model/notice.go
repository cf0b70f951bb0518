package model

import "time"

type Notice struct {
	ID            string    `json:"id"`
	Title         string    `json:"title" binding:"required"`
	Body          string    `json:"body" binding:"required"`
	Audience      string    `json:"audience,omitempty"` // "all", "students", "professors"
	AuthorID      string    `json:"author_id"`
	InstitutionID string    `json:"institution_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
