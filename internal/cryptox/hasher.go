// Package cryptox isolates password handling behind Hasher so the storage
// policy can be changed without touching the call sites.
//
// Three policies are available:
//
//   - plain:  stores the password as given and compares exactly. This keeps
//     parity with snapshots that ship clear-text passwords.
//   - bcrypt: golang.org/x/crypto/bcrypt.
//   - argon2: argon2id with a random 16-byte salt, encoded as
//     "argon2id$<salt>$<key>" (raw std base64).
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	HasherPlain  = "plain"
	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

// Hasher turns a clear-text password into its stored form and checks a
// candidate against a stored value.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// NewHasher returns the Hasher registered under name.
func NewHasher(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", HasherPlain:
		return PlainHasher{}, nil
	case HasherBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case HasherArgon2:
		return Argon2Hasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownHasher, name)
	}
}

// PlainHasher stores passwords verbatim.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return password, nil }

func (PlainHasher) Verify(stored, password string) bool { return stored == password }

// BcryptHasher hashes with bcrypt at Cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (BcryptHasher) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

const argon2Prefix = "argon2id"

// Argon2Hasher derives a 32-byte argon2id key per password.
type Argon2Hasher struct{}

// DeriveKey runs argon2id with the parameters used for stored passwords.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func (Argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(16)
	key := DeriveKey([]byte(password), salt)
	enc := base64.RawStdEncoding
	return argon2Prefix + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key), nil
}

func (Argon2Hasher) Verify(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != argon2Prefix {
		return false
	}
	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil {
		return false
	}
	got := DeriveKey([]byte(password), salt)
	return subtle.ConstantTimeCompare(want, got) == 1
}
