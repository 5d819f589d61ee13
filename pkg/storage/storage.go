// Package storage defines the persistence interfaces for users and courses
// and the closed failure surface their implementations signal through:
// sentinel errors for absence and conflict, and kind-tagged ValidationError
// batches for rejected writes.
package storage

import (
	"context"
	"errors"

	"github.com/coursewise/coursewise/pkg/api"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a user or course does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a record with the given ID already exists.
	ErrConflict = errors.New("record already exists")
)

// PrincipalStore manages registered users.
type PrincipalStore interface {
	// CreateUser persists a new user. The caller supplies a record that
	// already carries the password hash; plaintext never reaches the store.
	// Returns a ValidationError with kind "unique" when the email address
	// is already registered.
	CreateUser(ctx context.Context, user *api.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, id string) (*api.User, error)

	// GetUserByEmail retrieves a user by email address, matched exactly.
	// Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*api.User, error)
}

// CourseStore manages owned course records.
type CourseStore interface {
	// CreateCourse persists a new course with its owner reference.
	CreateCourse(ctx context.Context, course *api.Course) error

	// GetCourse retrieves a course by ID with its owner embedded.
	// Returns ErrNotFound if absent.
	GetCourse(ctx context.Context, id string) (*api.Course, error)

	// ListCourses returns all courses with owners embedded, ordered by
	// creation time. An empty store yields an empty slice, not an error.
	ListCourses(ctx context.Context) ([]*api.Course, error)

	// UpdateCourse replaces the mutable fields of an existing course.
	// The owner reference is immutable and ignored on update.
	// Returns ErrNotFound if absent.
	UpdateCourse(ctx context.Context, course *api.Course) error

	// DeleteCourse removes a course. Returns ErrNotFound if absent.
	DeleteCourse(ctx context.Context, id string) error
}

// Store combines both stores for implementations that back the full API.
type Store interface {
	PrincipalStore
	CourseStore
}
