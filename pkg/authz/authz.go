// Package authz makes ownership-based authorization decisions: a course
// may be mutated only by the principal recorded as its owner. The decision
// is all-or-nothing; there is no field-level authorization.
package authz

import (
	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/auth"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	// Authorized means the identity owns the course and the mutation may proceed.
	Authorized Decision = iota

	// NotFound means the course does not exist. Checked before ownership so
	// non-existence never reveals who owns what.
	NotFound

	// Forbidden means the course exists but the identity is not its owner.
	Forbidden
)

// Decide compares an authenticated identity against a fetched course.
// The course is nil when the lookup found nothing. Calling Decide without
// a prior successful authentication is a programming error; it panics
// rather than degrading into an unauthenticated grant.
func Decide(id *auth.Identity, course *api.Course) Decision {
	if id == nil {
		panic("authz: Decide called without an authenticated identity")
	}
	if course == nil {
		return NotFound
	}
	if id.PrincipalID == course.UserID {
		return Authorized
	}
	return Forbidden
}
