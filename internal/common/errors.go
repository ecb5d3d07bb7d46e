package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// workflow errors
	ErrInvalidShareLink = errors.New("invalid share link")
	ErrEmptyShare       = errors.New("share link contains no folders")
	ErrNoTasksCreated   = errors.New("no task ids returned")
	ErrTaskFailed       = errors.New("task failed")
)
