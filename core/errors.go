package core

import "errors"

// Errors returned at the write boundary of a session.
var (
	ErrInvalidAnswer    = errors.New("answer must be an integer between 1 and 5")
	ErrInvalidWeight    = errors.New("weight must be between 0.0 and 2.0")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrSessionNotFound  = errors.New("session not found")
)
