package utils

import (
	"fmt"     // Error wrapping
	"strconv" // Subject formatting
	"time"    // Time for token expiration

	"jwt_pizza_service/internal/domain" // Domain models

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token id (jti)
)

// Claims carried by a pizza token
type Claims struct {
	UserID               uint                    `json:"id"`    // Identity claim
	Name                 string                  `json:"name"`  // Name at issuance
	Email                string                  `json:"email"` // Email at issuance
	Roles                []domain.RoleAssignment `json:"roles"` // Roles at issuance
	Nonce                string                  `json:"nonce"` // Binds the token to one user record
	jwt.RegisteredClaims                         // Standard JWT claims
}

// TokenCodec signs and verifies stateless bearer tokens. It holds no state
// besides its key, so verification says nothing about revocation.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec builds a codec; a zero ttl issues tokens that never expire
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to issued tokens
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue creates a signed token for the user. Every call carries a fresh jti,
// so two tokens for the same identity never collide.
func (c *TokenCodec) Issue(user domain.User) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  user.Roles,
		Nonce:  user.Nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl)) // Expiry when configured
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString(c.secret)                // Sign the token with the secret
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Any parse, signature or expiry
// failure is reported as domain.ErrMalformedToken.
func (c *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return c.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, domain.ErrMalformedToken
	}
	return claims, nil
}
