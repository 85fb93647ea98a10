package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
	"github.com/ovaphlow/pitchfork/service-goods/pkg/utilities"
)

var ann = &auth.Identity{ID: 7, Email: "a@b.com", Name: "Ann", Roles: []string{auth.RoleUser}}

func newHMAC(t *testing.T, secret string, ttl time.Duration) *Issuer {
	t.Helper()
	iss, err := NewHMACIssuer([]byte(secret), "service-goods", ttl, utilities.NewIDGenerator(1))
	require.NoError(t, err)
	return iss
}

func TestHMACRoundTrip(t *testing.T) {
	iss := newHMAC(t, "s3cret", time.Hour)

	raw, err := iss.Issue(ann)
	require.NoError(t, err)

	claims, err := iss.Verify(raw)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, []string{auth.RoleUser}, claims.Roles)
	assert.Equal(t, "service-goods", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestIssueUniqueIDs(t *testing.T) {
	iss := newHMAC(t, "s3cret", time.Hour)
	a, err := iss.Issue(ann)
	require.NoError(t, err)
	b, err := iss.Issue(ann)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEphemeralRoundTrip(t *testing.T) {
	iss, err := NewEphemeralIssuer("service-goods", time.Minute, utilities.NewIDGenerator(2))
	require.NoError(t, err)

	raw, err := iss.Issue(ann)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(raw, &Claims{})
	require.NoError(t, err)
	assert.Equal(t, "RS256", parsed.Header["alg"])
	assert.NotEmpty(t, parsed.Header["kid"])

	_, err = iss.Verify(raw)
	assert.NoError(t, err)
}

func TestVerifyRejects(t *testing.T) {
	iss := newHMAC(t, "s3cret", time.Hour)
	good, err := iss.Issue(ann)
	require.NoError(t, err)

	expired := newHMAC(t, "s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(ann)
	require.NoError(t, err)

	other := newHMAC(t, "another", time.Hour)
	foreign, err := other.Issue(ann)
	require.NoError(t, err)

	wrongIss, err := NewHMACIssuer([]byte("s3cret"), "someone-else", time.Hour, nil)
	require.NoError(t, err)
	misissued, err := wrongIss.Issue(ann)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	cases := map[string]string{
		"expired":       stale,
		"wrong secret":  foreign,
		"wrong issuer":  misissued,
		"malformed":     "not-a-token",
		"tampered body": tampered,
		"empty":         "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Verify(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyRejectsOtherAlgorithm(t *testing.T) {
	hmacIss := newHMAC(t, "s3cret", time.Hour)
	rsaIss, err := NewEphemeralIssuer("service-goods", time.Hour, nil)
	require.NoError(t, err)

	raw, err := rsaIss.Issue(ann)
	require.NoError(t, err)
	_, err = hmacIss.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueNilIdentity(t *testing.T) {
	_, err := newHMAC(t, "s3cret", time.Hour).Issue(nil)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestNewHMACIssuerRequiresSecret(t *testing.T) {
	_, err := NewHMACIssuer(nil, "service-goods", time.Hour, nil)
	assert.Error(t, err)
}
