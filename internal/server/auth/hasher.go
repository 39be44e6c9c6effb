package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher turns plaintext passwords into one-way digests and checks candidates
// against them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	DummyVerify(plaintext string)
}

// BcryptHasher is the production Hasher. Digests embed their own salt and cost.
type BcryptHasher struct {
	cost  int
	dummy []byte
}

// NewBcryptHasher returns a hasher using cost, falling back to bcrypt.DefaultCost
// when cost is outside bcrypt's accepted range. It panics if the digest used
// by DummyVerify cannot be generated.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("contactbook-dummy-password"), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt hasher: dummy digest: %v", err))
	}
	return &BcryptHasher{cost: cost, dummy: dummy}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrValidation)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password too long", common.ErrValidation)
		}
		return "", fmt.Errorf("hash error: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is a
// mismatch.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// DummyVerify spends the same work as Verify against a throwaway digest so that
// unknown accounts are not distinguishable by response time.
func (h *BcryptHasher) DummyVerify(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
