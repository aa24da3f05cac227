package service

import "errors"

// Common service errors mapped to HTTP statuses by the handlers
var (
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("invalid credentials")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNoAccount        = errors.New("no linked account")
)
