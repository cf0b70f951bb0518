package errors

import "errors"

var (
	ErrProfessorNotFound    = errors.New("professor not found")
	ErrInvalidProfessorData = errors.New("invalid professor data")
	ErrProfessorConflict    = errors.New("professor conflict")
)
