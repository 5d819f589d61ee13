package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coursewise/coursewise/pkg/observability"
)

// accessDenied is the single rejection body for every authentication
// failure. Malformed header, unknown email, and wrong password are
// indistinguishable to the client.
const accessDenied = `{"message":"Access Denied"}`

// Require wraps a handler so it only runs for successfully authenticated
// requests. The identity is injected into the request context. Routes that
// do not need authentication are simply not wrapped.
func Require(chain *Chain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := chain.Authenticate(r.Context(), r)

			if result.Decision != Yes || result.Identity == nil {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", result.Err,
				)
				observability.AuthFailuresTotal.WithLabelValues(failureReason(result.Err)).Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(accessDenied))
				return
			}

			slog.Debug("authentication succeeded",
				"principal_id", result.Identity.PrincipalID,
				"path", r.URL.Path,
			)

			ctx := SetIdentity(r.Context(), result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// failureReason classifies a rejection for the metrics label. The label
// never reaches the client.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedCredentials):
		return "malformed_credentials"
	case errors.Is(err, ErrUnauthenticated):
		return "invalid_credentials"
	default:
		return "internal"
	}
}
