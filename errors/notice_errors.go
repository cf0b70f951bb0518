package errors

import "errors"

var (
	ErrNoticeNotFound    = errors.New("notice not found")
	ErrInvalidNoticeData = errors.New("invalid notice data")
)
