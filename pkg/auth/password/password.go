// Package password implements the write-time and verify-time secret
// contracts: length validation, bcrypt hashing with a fixed work factor,
// and verification against stored hashes. Hashing and verification are
// CPU-bound by design, so both run through a bounded lane that caps the
// number of concurrent bcrypt computations.
package password

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/storage"
)

const (
	// MinLength and MaxLength bound acceptable secrets, in characters.
	MinLength = 8
	MaxLength = 20

	// DefaultCost is the bcrypt work factor.
	DefaultCost = 10
)

// Validate applies the write-time length contract to a candidate secret.
// It returns a ValidationError batch, or nil when the secret is acceptable.
func Validate(secret string) *storage.ValidationError {
	if secret == "" {
		return storage.NewValidationError(storage.KindRequired, "password", api.MsgPasswordBlank)
	}
	if n := len([]rune(secret)); n < MinLength || n > MaxLength {
		return storage.NewValidationError(storage.KindFormat, "password", api.MsgPasswordLength)
	}
	return nil
}

// Hasher derives and verifies bcrypt hashes through a bounded lane of
// slots. Acquisition respects context cancellation, so a caller whose
// request is gone does not occupy a slot.
type Hasher struct {
	cost     int
	slots    chan struct{}
	inFlight atomic.Int64
}

// NewHasher creates a Hasher with the given bcrypt cost and number of
// concurrent slots. Zero values select DefaultCost and GOMAXPROCS.
func NewHasher(cost, slots int) *Hasher {
	if cost == 0 {
		cost = DefaultCost
	}
	if slots <= 0 {
		slots = runtime.GOMAXPROCS(0)
	}
	return &Hasher{
		cost:  cost,
		slots: make(chan struct{}, slots),
	}
}

// Hash derives a salted hash of the secret. The raw secret is not retained.
// Callers are expected to have run Validate first; Hash enforces it again
// so an unvalidated secret can never reach the store.
func (h *Hasher) Hash(ctx context.Context, secret string) (string, error) {
	if ve := Validate(secret); ve != nil {
		return "", ve
	}
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the secret matches the stored hash. A mismatch is
// a normal false outcome, not an error; the error return covers only
// context cancellation and corrupt stored hashes. The comparison is
// constant-time over the derived hash.
func (h *Hasher) Verify(ctx context.Context, secret, storedHash string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.release()

	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// InFlight returns the number of bcrypt computations currently waiting for
// or holding a slot. Exposed for the hash-lane depth gauge.
func (h *Hasher) InFlight() int64 {
	return h.inFlight.Load()
}

func (h *Hasher) acquire(ctx context.Context) error {
	h.inFlight.Add(1)
	select {
	case h.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		h.inFlight.Add(-1)
		return ctx.Err()
	}
}

func (h *Hasher) release() {
	<-h.slots
	h.inFlight.Add(-1)
}
