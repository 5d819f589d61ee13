package api

import (
	"regexp"
	"strings"
)

// Field failure messages. The "is required" variants are reserved for
// constraint violations reported by the database (a missing column value);
// the "Please provide" variants are produced by request validation when a
// field is absent or blank in the payload.
const (
	MsgFirstNameRequired = "A first name is required."
	MsgFirstNameBlank    = "Please provide a first name."
	MsgLastNameRequired  = "A last name is required."
	MsgLastNameBlank     = "Please provide a last name."
	MsgEmailRequired     = "An email is required."
	MsgEmailInvalid      = "Please provide a valid email address."
	MsgEmailTaken        = "The email you entered already exists."
	MsgPasswordRequired  = "A password is required."
	MsgPasswordBlank     = "Please provide a password."
	MsgPasswordLength    = "The password should be between 8 and 20 characters."
	MsgTitleRequired     = "A title is required."
	MsgTitleBlank        = "Please provide a title."
	MsgDescRequired      = "A description is required."
	MsgDescBlank         = "Please provide a description."
)

// emailPattern is a permissive shape check: something before and after a
// single "@", with a dotted domain. Deliverability is not our concern.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateNewUser checks a registration payload and returns every field
// failure message in field order (first name, last name, email, password).
// Password length is validated separately by the hashing contract; this
// only checks presence.
func ValidateNewUser(req *CreateUserRequest) []string {
	var msgs []string
	if strings.TrimSpace(req.FirstName) == "" {
		msgs = append(msgs, MsgFirstNameBlank)
	}
	if strings.TrimSpace(req.LastName) == "" {
		msgs = append(msgs, MsgLastNameBlank)
	}
	if strings.TrimSpace(req.EmailAddress) == "" {
		msgs = append(msgs, MsgEmailRequired)
	} else if !emailPattern.MatchString(req.EmailAddress) {
		msgs = append(msgs, MsgEmailInvalid)
	}
	if req.Password == "" {
		msgs = append(msgs, MsgPasswordBlank)
	}
	return msgs
}

// ValidateCoursePayload checks a course create/update body and returns
// every field failure message in field order (title, description).
func ValidateCoursePayload(req *CoursePayload) []string {
	var msgs []string
	if strings.TrimSpace(req.Title) == "" {
		msgs = append(msgs, MsgTitleBlank)
	}
	if strings.TrimSpace(req.Description) == "" {
		msgs = append(msgs, MsgDescBlank)
	}
	return msgs
}
