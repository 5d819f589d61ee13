package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/auth/password"
	"github.com/coursewise/coursewise/pkg/storage/memory"
)

func basicHeader(email, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+secret))
}

func seedAuthenticator(t *testing.T) (*BasicAuthenticator, *api.User) {
	t.Helper()

	store := memory.New()
	hasher := password.NewHasher(bcrypt.MinCost, 2)

	hash, err := hasher.Hash(context.Background(), "password1")
	if err != nil {
		t.Fatalf("hashing seed password: %v", err)
	}

	user := &api.User{
		ID:           api.NewUserID(),
		FirstName:    "Alice",
		LastName:     "Jones",
		EmailAddress: "alice@example.com",
		PasswordHash: hash,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	return NewBasicAuthenticator(store, hasher), user
}

func TestBasicAuthenticate_Valid(t *testing.T) {
	a, user := seedAuthenticator(t)

	r := httptest.NewRequest("GET", "/api/users", nil)
	r.Header.Set("Authorization", basicHeader("alice@example.com", "password1"))

	result := a.Authenticate(r.Context(), r)
	if result.Decision != Yes {
		t.Fatalf("Decision = %v, want Yes (err: %v)", result.Decision, result.Err)
	}
	if result.Identity == nil || result.Identity.PrincipalID != user.ID {
		t.Errorf("Identity = %+v, want principal %s", result.Identity, user.ID)
	}
	if result.Identity.EmailAddress != "alice@example.com" {
		t.Errorf("Identity.EmailAddress = %q, want alice@example.com", result.Identity.EmailAddress)
	}
}

func TestBasicAuthenticate_WrongPasswordAndUnknownEmailConverge(t *testing.T) {
	a, _ := seedAuthenticator(t)

	wrongPass := httptest.NewRequest("GET", "/api/users", nil)
	wrongPass.Header.Set("Authorization", basicHeader("alice@example.com", "wrongpass1"))

	unknown := httptest.NewRequest("GET", "/api/users", nil)
	unknown.Header.Set("Authorization", basicHeader("nobody@example.com", "password1"))

	rp := a.Authenticate(wrongPass.Context(), wrongPass)
	ru := a.Authenticate(unknown.Context(), unknown)

	// Both must reject through the same externally observable path.
	if rp.Decision != No || ru.Decision != No {
		t.Fatalf("decisions = %v, %v, want No, No", rp.Decision, ru.Decision)
	}
	if !errors.Is(rp.Err, ErrUnauthenticated) || !errors.Is(ru.Err, ErrUnauthenticated) {
		t.Errorf("errors = %v, %v, want both ErrUnauthenticated", rp.Err, ru.Err)
	}
}

func TestBasicAuthenticate_AbstainWithoutBasicCredentials(t *testing.T) {
	a, _ := seedAuthenticator(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "bearer scheme", header: "Bearer sometoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/users", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if result := a.Authenticate(r.Context(), r); result.Decision != Abstain {
				t.Errorf("Decision = %v, want Abstain", result.Decision)
			}
		})
	}
}

func TestBasicAuthenticate_MalformedHeader(t *testing.T) {
	a, _ := seedAuthenticator(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "bad base64", header: "Basic %%%not-base64%%%"},
		{name: "no colon", header: "Basic " + base64.StdEncoding.EncodeToString([]byte("alice-no-separator"))},
		{name: "empty email", header: "Basic " + base64.StdEncoding.EncodeToString([]byte(":password1"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/users", nil)
			r.Header.Set("Authorization", tt.header)

			result := a.Authenticate(r.Context(), r)
			if result.Decision != No {
				t.Fatalf("Decision = %v, want No", result.Decision)
			}
			if !errors.Is(result.Err, ErrUnauthenticated) {
				t.Errorf("Err = %v, want wrapped ErrUnauthenticated", result.Err)
			}
		})
	}
}

func TestChain_AllAbstainRejects(t *testing.T) {
	a, _ := seedAuthenticator(t)
	chain := &Chain{Authenticators: []Authenticator{a}}

	r := httptest.NewRequest("GET", "/api/users", nil)
	result := chain.Authenticate(r.Context(), r)
	if result.Decision != No {
		t.Errorf("Decision = %v, want No when every authenticator abstains", result.Decision)
	}
	if !errors.Is(result.Err, ErrUnauthenticated) {
		t.Errorf("Err = %v, want ErrUnauthenticated", result.Err)
	}
}
