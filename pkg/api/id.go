package api

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	idLength = 24
	charset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	userIDPrefix   = "user_"
	courseIDPrefix = "course_"
)

var (
	userIDPattern   = regexp.MustCompile(`^user_[a-zA-Z0-9]{24}$`)
	courseIDPattern = regexp.MustCompile(`^course_[a-zA-Z0-9]{24}$`)
)

// NewUserID generates a new user ID with the "user_" prefix followed by
// 24 cryptographically random alphanumeric characters.
func NewUserID() string {
	return userIDPrefix + randomAlphanumeric(idLength)
}

// NewCourseID generates a new course ID with the "course_" prefix followed
// by 24 cryptographically random alphanumeric characters.
func NewCourseID() string {
	return courseIDPrefix + randomAlphanumeric(idLength)
}

// ValidateUserID checks whether the given string is a valid user ID.
func ValidateUserID(id string) bool {
	return userIDPattern.MatchString(id)
}

// ValidateCourseID checks whether the given string is a valid course ID.
func ValidateCourseID(id string) bool {
	return courseIDPattern.MatchString(id)
}

func randomAlphanumeric(n int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b)
}
