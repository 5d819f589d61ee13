package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coursewise/coursewise/pkg/auth/password"
	"github.com/coursewise/coursewise/pkg/storage"
)

// BasicAuthenticator validates Basic credentials against the user store.
// An unknown email and a wrong password produce the same Result; which one
// happened is visible in Err (for logs) but not in the response.
type BasicAuthenticator struct {
	principals storage.PrincipalStore
	hasher     *password.Hasher
}

// NewBasicAuthenticator creates a Basic authenticator backed by the given
// principal store and hasher.
func NewBasicAuthenticator(principals storage.PrincipalStore, hasher *password.Hasher) *BasicAuthenticator {
	return &BasicAuthenticator{principals: principals, hasher: hasher}
}

// Authenticate extracts Basic credentials and validates them.
// Returns Yes if valid, No if credentials are present but invalid or
// malformed, Abstain if no Authorization header or a different scheme.
func (a *BasicAuthenticator) Authenticate(ctx context.Context, r *http.Request) Result {
	email, secret, err := extractBasic(r)
	if err != nil {
		if errors.Is(err, errNoCredentials) {
			return Result{Decision: Abstain}
		}
		return Result{Decision: No, Err: fmt.Errorf("%w: %w", ErrUnauthenticated, err)}
	}

	user, err := a.principals.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Result{Decision: No, Err: fmt.Errorf("%w: unknown email %q", ErrUnauthenticated, email)}
		}
		return Result{Decision: No, Err: fmt.Errorf("looking up principal: %w", err)}
	}

	ok, err := a.hasher.Verify(ctx, secret, user.PasswordHash)
	if err != nil {
		return Result{Decision: No, Err: fmt.Errorf("verifying password: %w", err)}
	}
	if !ok {
		return Result{Decision: No, Err: fmt.Errorf("%w: password mismatch for %q", ErrUnauthenticated, email)}
	}

	return Result{
		Decision: Yes,
		Identity: &Identity{
			PrincipalID:  user.ID,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			EmailAddress: user.EmailAddress,
		},
	}
}

// errNoCredentials distinguishes an absent header (Abstain) from a present
// but unparseable one (No).
var errNoCredentials = errors.New("no credentials")

// extractBasic parses an Authorization header of the form
// "Basic base64(email:secret)". Pure parsing, no side effects.
func extractBasic(r *http.Request) (email, secret string, err error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "", errNoCredentials
	}

	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", errNoCredentials
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid base64", ErrMalformedCredentials)
	}

	email, secret, found := strings.Cut(string(decoded), ":")
	if !found || email == "" {
		return "", "", fmt.Errorf("%w: missing email or separator", ErrMalformedCredentials)
	}

	return email, secret, nil
}
