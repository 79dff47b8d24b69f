package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrConfiguration         = errors.New("invalid pipeline configuration")
	ErrStageFailed           = errors.New("pipeline stage failed")
)
