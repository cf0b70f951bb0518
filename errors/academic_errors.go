package errors

import "errors"

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseConflict     = errors.New("course conflict")
	ErrInvalidCourseData  = errors.New("invalid course data")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrBranchConflict     = errors.New("branch conflict")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrMarkNotFound       = errors.New("mark not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInsufficientMarks  = errors.New("insufficient marks for prediction")
)
