package auth

import (
	"fmt"

	"github.com/dmitrijs2005/usermanagement/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 10

// maxPasswordBytes is the longest input bcrypt accepts without truncation.
const maxPasswordBytes = 72

// Hasher produces and checks salted one-way password digests.
type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt Hasher with the given cost. Costs outside
// bcrypt's range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a bcrypt digest of plaintext with a fresh random salt, so two
// calls on the same input never return the same digest.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("%w: more than %d bytes", common.ErrPasswordTooLong, maxPasswordBytes)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests simply
// do not match.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
