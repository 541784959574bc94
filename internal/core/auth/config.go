// Package auth holds the stateless security primitives of the API: password
// hashing, bearer token issuance/verification and the role access policy.
//
// Nothing in this package touches storage. Process-wide parameters (signing
// key, default token lifetime, hash scheme) are passed in once through Config
// and stay fixed for the lifetime of the process.
package auth

import "time"

// DefaultTokenTTL is used when Config.TokenTTLDefault is not set.
const DefaultTokenTTL = 30 * time.Minute

// Config carries the static security parameters of the process.
type Config struct {
	SigningKey      []byte
	Issuer          string
	TokenTTLDefault time.Duration
	HashScheme      HashScheme
	// BcryptCost is only read by the bcrypt scheme. Zero means bcrypt.DefaultCost.
	BcryptCost int
}
