package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrMissingFields = errors.New("missing required fields")

	ErrEmailRequired   = errors.New("email is required")
	ErrCommentRequired = errors.New("comment is required")
)
