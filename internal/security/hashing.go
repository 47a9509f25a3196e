package security

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies operator passwords with bcrypt. Every path that
// stores or checks a credential (seed, login, password change, bootstrap
// command) goes through the same Hasher.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given bcrypt cost clamped to the range
// bcrypt accepts. A non-positive cost selects bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash produces a bcrypt hash of password suitable for the users.password column.
func (h *Hasher) Hash(password []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(password, h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare verifies password against a stored hash. It returns nil on a match
// and bcrypt.ErrMismatchedHashAndPassword (or a malformed-hash error) otherwise.
func (h *Hasher) Compare(hash string, password []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), password)
}

// Matches is Compare reduced to a boolean.
func (h *Hasher) Matches(hash string, password []byte) bool {
	return h.Compare(hash, password) == nil
}
