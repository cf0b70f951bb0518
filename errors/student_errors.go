package errors

import "errors"

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInvalidStudentData = errors.New("invalid student data")
	ErrStudentConflict    = errors.New("student conflict")
)
