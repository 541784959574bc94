package ports

import "time"

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify returns (false, nil) on mismatch and a bad-request error when the
	// stored hash cannot be parsed.
	Verify(plain, hashed string) (bool, error)
}

// TokenIssuer issues and verifies bearer tokens bound to a username.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
	IssueDefault(subject string) (string, error)
	Verify(token string) (string, error)
}
