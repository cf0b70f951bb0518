package errors

import "errors"

var ErrInvalidFeedbackData = errors.New("invalid feedback data")
