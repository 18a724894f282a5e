package shared

import "errors"

var (
	// ErrNotFound indicates the resource does not exist for this carrier.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates the request payload failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing or invalid access token.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrInvalidTransition indicates a status change not allowed by policy.
	ErrInvalidTransition = errors.New("status transition invalid")
)
