package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// HashScheme selects the algorithm used for new password hashes.
type HashScheme string

const (
	SchemeBcrypt   HashScheme = "bcrypt"
	SchemeArgon2id HashScheme = "argon2id"
)

// argon2id parameters for newly created hashes. Verification reads the
// parameters encoded in the stored hash instead.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16

	argonMaxMemory = 1 << 20
)

// Hasher hashes and verifies passwords. Verify recognises every supported
// scheme regardless of which one Hash currently produces, so switching the
// configured scheme does not lock out existing identities.
type Hasher struct {
	scheme HashScheme
	cost   int
}

func NewHasher(cfg Config) (*Hasher, error) {
	scheme := cfg.HashScheme
	if scheme == "" {
		scheme = SchemeBcrypt
	}
	if scheme != SchemeBcrypt && scheme != SchemeArgon2id {
		return nil, fmt.Errorf("auth: unsupported hash scheme %q", scheme)
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost %d out of range", cost)
	}

	return &Hasher{scheme: scheme, cost: cost}, nil
}

// Hash returns a salted, self-describing encoding of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if h.scheme == SchemeArgon2id {
		return hashArgon2id(plain)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.BadRequest("password must be at most 72 bytes").Wrap(err)
		}
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hashed. A mismatch is (false, nil).
// A stored hash that cannot be parsed is reported as a bad-request error so
// that corrupted input is never mistaken for a wrong password.
func (h *Hasher) Verify(plain, hashed string) (bool, error) {
	switch {
	case strings.HasPrefix(hashed, "$2a$"), strings.HasPrefix(hashed, "$2b$"), strings.HasPrefix(hashed, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, malformedHash(err)
		}
	case strings.HasPrefix(hashed, "$argon2id$"):
		return verifyArgon2id(plain, hashed)
	default:
		return false, malformedHash(errors.New("unknown hash prefix"))
	}
}

func malformedHash(cause error) error {
	return domain.BadRequest("invalid request").Wrap(fmt.Errorf("%w: %v", domain.ErrMalformedHash, cause))
}

// hashArgon2id encodes as $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func hashArgon2id(plain string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2id(plain, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, malformedHash(errors.New("argon2id: wrong number of segments"))
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, malformedHash(err)
	}
	if version != argon2.Version {
		return false, malformedHash(fmt.Errorf("argon2id: unsupported version %d", version))
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, malformedHash(err)
	}
	if iterations == 0 || threads == 0 || memory < 8*uint32(threads) || memory > argonMaxMemory {
		return false, malformedHash(errors.New("argon2id: parameters out of range"))
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false, malformedHash(fmt.Errorf("argon2id: salt: %v", err))
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) < 4 {
		return false, malformedHash(fmt.Errorf("argon2id: key: %v", err))
	}

	got := argon2.IDKey([]byte(plain), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
