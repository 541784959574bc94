package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carlot/inventory-api/internal/core/domain"
)

func newTestHasher(t *testing.T, scheme HashScheme) *Hasher {
	t.Helper()
	h, err := NewHasher(Config{HashScheme: scheme, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return h
}

func TestHasher_RoundTrip(t *testing.T) {
	for _, scheme := range []HashScheme{SchemeBcrypt, SchemeArgon2id} {
		t.Run(string(scheme), func(t *testing.T) {
			h := newTestHasher(t, scheme)

			first, err := h.Hash("s3cret-pass")
			require.NoError(t, err)
			second, err := h.Hash("s3cret-pass")
			require.NoError(t, err)

			assert.NotEqual(t, "s3cret-pass", first)
			assert.NotEqual(t, first, second, "hashes of the same password must be salted")

			for _, stored := range []string{first, second} {
				ok, err := h.Verify("s3cret-pass", stored)
				require.NoError(t, err)
				assert.True(t, ok)
			}
		})
	}
}

func TestHasher_Mismatch(t *testing.T) {
	for _, scheme := range []HashScheme{SchemeBcrypt, SchemeArgon2id} {
		t.Run(string(scheme), func(t *testing.T) {
			h := newTestHasher(t, scheme)
			stored, err := h.Hash("right")
			require.NoError(t, err)

			ok, err := h.Verify("wrong", stored)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHasher_VerifiesAcrossSchemes(t *testing.T) {
	bc := newTestHasher(t, SchemeBcrypt)
	ar := newTestHasher(t, SchemeArgon2id)

	stored, err := bc.Hash("legacy")
	require.NoError(t, err)

	ok, err := ar.Verify("legacy", stored)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	h := newTestHasher(t, SchemeBcrypt)
	valid, err := h.Hash("pw")
	require.NoError(t, err)

	cases := map[string]string{
		"empty":            "",
		"plaintext":        "pw",
		"truncated bcrypt": valid[:20],
		"bad bcrypt cost":  "$2a$99$" + strings.Repeat("a", 53),
		"argon2 segments":  "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA",
		"argon2 version":   "$argon2id$v=1$m=65536,t=1,p=4$c2FsdHNhbHQ$a2V5a2V5a2V5",
		"argon2 params":    "$argon2id$v=19$m=0,t=0,p=0$c2FsdHNhbHQ$a2V5a2V5a2V5",
		"argon2 salt":      "$argon2id$v=19$m=65536,t=1,p=4$!!!$a2V5a2V5a2V5",
	}

	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("pw", stored)
			assert.False(t, ok, "malformed hash must never match")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrBadRequest))
			assert.True(t, errors.Is(err, domain.ErrMalformedHash))
		})
	}
}

func TestHasher_PasswordTooLong(t *testing.T) {
	h := newTestHasher(t, SchemeBcrypt)
	_, err := h.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestNewHasher_RejectsUnknownScheme(t *testing.T) {
	_, err := NewHasher(Config{HashScheme: "md5"})
	require.Error(t, err)

	_, err = NewHasher(Config{BcryptCost: 99})
	require.Error(t, err)
}
