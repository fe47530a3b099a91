// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a prompt owned by someone
// else, while ErrEmailExists signals that a registration cannot
// proceed because the email is already taken.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when inserting a user with an email
// that is already registered. Handlers should translate this into
// an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound indicates that a user was not located in the DB.
var ErrUserNotFound = errors.New("user not found")

// ErrPromptNotFound indicates that a prompt was not located in the DB.
var ErrPromptNotFound = errors.New("prompt not found")
