package services

import (
	"errors"
	"fmt"
)

// ErrBadCredentials is the only cause a failed login ever reports.
var ErrBadCredentials = errors.New("invalid username or password")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports that a unique attribute is already taken.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Err.Error()
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// NotificationError means the outbound email could not be delivered.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return "failed to send email: " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error { return e.Err }
