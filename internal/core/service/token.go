package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenConfig holds the signing key and lifetime of issued tokens.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	// Now overrides the clock, mainly for tests. Defaults to time.Now.
	Now func() time.Time
}

// JWTIssuer issues and validates HS256-signed bearer tokens whose subject is
// a username. Tokens are stateless and cannot be revoked before expiry.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(cfg TokenConfig) *JWTIssuer {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &JWTIssuer{secret: []byte(cfg.Secret), ttl: cfg.TTL, now: cfg.Now}
}

// Issue signs a token for subject valid for the configured TTL.
func (j *JWTIssuer) Issue(subject string) (string, error) {
	if subject == "" {
		return "", domain.ErrTokenClaimsEmpty
	}
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry of token. The returned error is
// one of the domain.ErrToken* values.
func (j *JWTIssuer) Validate(token string) error {
	_, err := j.parse(token)
	return err
}

// SubjectOf returns the username carried by a valid token.
func (j *JWTIssuer) SubjectOf(token string) (string, error) {
	claims, err := j.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (j *JWTIssuer) parse(token string) (*jwt.RegisteredClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrTokenClaimsEmpty
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenClaimsEmpty
	}
	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", domain.ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", domain.ErrTokenUnsupported, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", domain.ErrTokenClaimsEmpty, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
}
