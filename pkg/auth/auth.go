// Package auth authenticates inbound requests. Authenticators vote on a
// request with a three-outcome decision; the chain stops at the first
// definitive vote. A successful vote yields an Identity that the middleware
// places in request context for downstream handlers and the ownership gate.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// Decision represents the three possible outcomes of authentication.
type Decision int

const (
	// Yes means credentials are valid. The chain stops and the identity is used.
	Yes Decision = iota

	// No means credentials are present but invalid. The chain stops and the
	// request is rejected.
	No

	// Abstain means this authenticator cannot handle the credentials type.
	// The chain continues to the next authenticator.
	Abstain
)

// Result carries the outcome of an authentication attempt. Err holds the
// internal rejection reason for logging; it must never reach the response
// body, which is identical for every rejection.
type Result struct {
	Decision Decision
	Identity *Identity // populated only when Decision == Yes
	Err      error     // populated only when Decision == No
}

// Identity is the authenticated principal for one request. It is placed in
// the request context by the middleware and discarded at request end.
type Identity struct {
	PrincipalID  string
	FirstName    string
	LastName     string
	EmailAddress string
}

// Authenticator examines request credentials and returns a three-outcome vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

// Sentinel errors. ErrMalformedCredentials and the lookup/verification
// failures all surface as ErrUnauthenticated externally; the distinction
// exists for logs only.
var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrMalformedCredentials = errors.New("malformed credentials")
	ErrForbidden            = errors.New("access denied")
)

// Chain evaluates authenticators in order. Stops on the first Yes or No;
// if all abstain the request is rejected.
type Chain struct {
	Authenticators []Authenticator
}

// Authenticate runs the chain.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) Result {
	for _, authn := range c.Authenticators {
		result := authn.Authenticate(ctx, r)
		if result.Decision != Abstain {
			return result
		}
	}
	return Result{
		Decision: No,
		Err:      ErrUnauthenticated,
	}
}
