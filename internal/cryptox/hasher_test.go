package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher(t *testing.T) {
	tests := []struct {
		name string
		want Hasher
	}{
		{"", PlainHasher{}},
		{"plain", PlainHasher{}},
		{"BCRYPT", BcryptHasher{Cost: bcrypt.DefaultCost}},
		{"argon2", Argon2Hasher{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHasher(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
		})
	}

	_, err := NewHasher("md5")
	require.ErrorIs(t, err, common.ErrUnknownHasher)
}

func TestPlainHasher_ExactMatch(t *testing.T) {
	h := PlainHasher{}
	stored, err := h.Hash("p")
	require.NoError(t, err)
	assert.Equal(t, "p", stored)
	assert.True(t, h.Verify(stored, "p"))
	assert.False(t, h.Verify(stored, "P"))
	assert.False(t, h.Verify(stored, "p "))
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	stored, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored)
	assert.True(t, h.Verify(stored, "secret"))
	assert.False(t, h.Verify(stored, "secreT"))
	assert.False(t, h.Verify("not-a-hash", "secret"))
}

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h := Argon2Hasher{}
	stored, err := h.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "argon2id$"))
	assert.True(t, h.Verify(stored, "secret"))
	assert.False(t, h.Verify(stored, "secret1"))

	other, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, stored, other, "salt must differ per hash")
}

func TestArgon2Hasher_RejectsMalformed(t *testing.T) {
	h := Argon2Hasher{}
	for _, s := range []string{"", "secret", "argon2id$", "argon2id$!!$!!", "bcrypt$a$b"} {
		assert.False(t, h.Verify(s, "secret"), s)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("pw"), []byte("salt-1"))
	k2 := DeriveKey([]byte("pw"), []byte("salt-1"))
	k3 := DeriveKey([]byte("pw"), []byte("salt-2"))

	assert.True(t, bytes.Equal(k1, k2))
	assert.False(t, bytes.Equal(k1, k3))
	assert.Len(t, k1, 32)
}
