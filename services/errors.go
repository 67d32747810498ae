package services

import "errors"

// Common errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrMoodNotFound        = errors.New("mood not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrForbidden           = errors.New("forbidden")
	ErrResourceExists      = errors.New("resource already exists")
	ErrValidation          = errors.New("validation error")
	ErrWebSocketConnection = errors.New("websocket connection error")
)
