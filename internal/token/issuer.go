// Package token issues and verifies the signed bearer tokens handed out at login.
package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
	"github.com/ovaphlow/pitchfork/service-goods/pkg/utilities"
)

// ErrInvalidToken is returned for any token that fails parsing or validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an access token. The subject is the user id.
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Issuer mints and verifies stateless bearer tokens.
type Issuer struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	kid       string
	issuer    string
	ttl       time.Duration
	ids       *utilities.IDGenerator
	now       func() time.Time
}

// NewHMACIssuer signs tokens with HS256 using secret.
func NewHMACIssuer(secret []byte, issuer string, ttl time.Duration, ids *utilities.IDGenerator) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	return &Issuer{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		issuer:    issuer,
		ttl:       ttl,
		ids:       ids,
		now:       time.Now,
	}, nil
}

// NewEphemeralIssuer generates an in-memory RSA key and signs with RS256.
// Tokens do not survive a restart.
func NewEphemeralIssuer(issuer string, ttl time.Duration, ids *utilities.IDGenerator) (*Issuer, error) {
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	// kid is base64 of the first bytes of the SHA256 of the public key
	pubBytes, _ := json.Marshal(k.PublicKey)
	h := sha256.Sum256(pubBytes)
	return &Issuer{
		method:    jwt.SigningMethodRS256,
		signKey:   k,
		verifyKey: &k.PublicKey,
		kid:       base64.RawURLEncoding.EncodeToString(h[:8]),
		issuer:    issuer,
		ttl:       ttl,
		ids:       ids,
		now:       time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *Issuer) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for the identity.
func (s *Issuer) Issue(identity *auth.Identity) (string, error) {
	if identity == nil {
		return "", auth.ErrUnauthorized
	}
	now := s.now()
	claims := Claims{
		Email: identity.Email,
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ids.Next(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(identity.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	tok := jwt.NewWithClaims(s.method, claims)
	if s.kid != "" {
		tok.Header["kid"] = s.kid
	}
	signed, err := tok.SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses raw and checks signature, issuer and expiry.
func (s *Issuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.verifyKey, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}
