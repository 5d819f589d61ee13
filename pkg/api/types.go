// Package api defines the wire types and error shapes of the coursewise
// REST API: users (principals who authenticate and own courses), courses
// (owned records), and the JSON error envelopes returned on failure.
package api

import "time"

// User is a registered principal. The password hash is never serialized;
// it travels only between the storage layer and the authenticator.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	EmailAddress string    `json:"emailAddress"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Course is an owned record. UserID references the owning User and is set
// at creation; there is no ownership transfer.
type Course struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EstimatedTime   string    `json:"estimatedTime,omitempty"`
	MaterialsNeeded string    `json:"materialsNeeded,omitempty"`
	CreatedAt       time.Time `json:"-"`

	// User is the owning principal, populated on reads so list and detail
	// responses can embed the owner. Never persisted as part of the course row.
	User *User `json:"user,omitempty"`
}

// CreateUserRequest is the registration payload for POST /api/users.
type CreateUserRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// CoursePayload is the request body for creating or updating a course.
// The owner comes from the authenticated identity, never from the body.
type CoursePayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedTime   string `json:"estimatedTime"`
	MaterialsNeeded string `json:"materialsNeeded"`
}
