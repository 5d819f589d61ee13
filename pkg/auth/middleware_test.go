package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubAuthenticator returns a fixed result.
type stubAuthenticator struct {
	result Result
}

func (s *stubAuthenticator) Authenticate(_ context.Context, _ *http.Request) Result {
	return s.result
}

func TestRequire_RejectionBodyIsUniform(t *testing.T) {
	// Malformed header, unknown email, and wrong password all look the same
	// from outside: 401 with the identical body.
	rejections := map[string]Result{
		"malformed":      {Decision: No, Err: ErrMalformedCredentials},
		"unknown email":  {Decision: No, Err: ErrUnauthenticated},
		"wrong password": {Decision: No, Err: ErrUnauthenticated},
	}

	var bodies []string
	for name, result := range rejections {
		t.Run(name, func(t *testing.T) {
			chain := &Chain{Authenticators: []Authenticator{&stubAuthenticator{result: result}}}
			handler := Require(chain)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler ran for a rejected request")
			}))

			req := httptest.NewRequest("GET", "/api/users", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}

			var body struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Message != "Access Denied" {
				t.Errorf("message = %q, want %q", body.Message, "Access Denied")
			}
			bodies = append(bodies, rec.Body.String())
		})
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestRequire_InjectsIdentity(t *testing.T) {
	identity := &Identity{PrincipalID: "user_abc", EmailAddress: "alice@example.com"}
	chain := &Chain{Authenticators: []Authenticator{
		&stubAuthenticator{result: Result{Decision: Yes, Identity: identity}},
	}}

	var got *Identity
	handler := Require(chain)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.PrincipalID != "user_abc" {
		t.Errorf("identity in context = %+v, want principal user_abc", got)
	}
}

func TestIdentityFromContext_UnsetReturnsNil(t *testing.T) {
	if id := IdentityFromContext(context.Background()); id != nil {
		t.Errorf("IdentityFromContext(empty) = %+v, want nil", id)
	}
}
