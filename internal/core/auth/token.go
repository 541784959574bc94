package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// Detail messages for the three token failure kinds.
const (
	DetailTokenExpired   = "token has expired"
	DetailTokenInvalid   = "invalid token"
	DetailTokenMalformed = "could not validate credentials"
)

// TokenService issues and verifies HS256 bearer tokens whose subject is the
// username. Tokens are self-contained; nothing is stored server side.
type TokenService struct {
	key        []byte
	issuer     string
	defaultTTL time.Duration
	parser     *jwt.Parser
}

func NewTokenService(cfg Config) (*TokenService, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("auth: signing key must not be empty")
	}

	ttl := cfg.TokenTTLDefault
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &TokenService{
		key:        cfg.SigningKey,
		issuer:     cfg.Issuer,
		defaultTTL: ttl,
		parser:     jwt.NewParser(opts...),
	}, nil
}

// DefaultTTL is the lifetime used by IssueDefault.
func (s *TokenService) DefaultTTL() time.Duration { return s.defaultTTL }

// IssueDefault issues a token for subject with the configured default lifetime.
func (s *TokenService) IssueDefault(subject string) (string, error) {
	return s.Issue(subject, s.defaultTTL)
}

// Issue signs a token for subject that expires at now+ttl. A ttl <= 0 yields
// a token that is already expired.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject. Failures are
// unauthorized errors whose cause is one of domain.ErrTokenExpired,
// domain.ErrTokenInvalid or domain.ErrTokenMalformed.
func (s *TokenService) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return "", classifyTokenError(err)
	}

	if claims.Subject == "" {
		return "", domain.Unauthorized(DetailTokenMalformed).
			Wrap(fmt.Errorf("%w: missing subject", domain.ErrTokenMalformed))
	}
	return claims.Subject, nil
}

// classifyTokenError relies on jwt checking the signature before the claims,
// so a forged token that is also past its expiry reports as invalid.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Unauthorized(DetailTokenExpired).Wrap(fmt.Errorf("%w: %v", domain.ErrTokenExpired, err))
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.Unauthorized(DetailTokenInvalid).Wrap(fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err))
	default:
		return domain.Unauthorized(DetailTokenMalformed).Wrap(fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err))
	}
}
