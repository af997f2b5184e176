package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidYear  = errors.New("year out of supported range")
	ErrUnauthorized = errors.New("unauthorized")
)
