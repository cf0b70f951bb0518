package errors

import "errors"

var (
	ErrDatabaseOperation  = errors.New("database operation failed")
	ErrInternalServer     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrInvalidPagination  = errors.New("invalid pagination parameters")
)
