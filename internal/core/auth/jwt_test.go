package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketplace-console/internal/core/auth"
)

func newJWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte("unit-test-secret"),
		Issuer: "marketplace-console",
		TTL:    time.Hour,
	}
}

func TestJWTer_IssueAndParse(t *testing.T) {
	j := newJWTer()

	tok, jti, err := j.Issue("u1", "owner", "boss@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.NotEmpty(t, jti)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UID)
	require.Equal(t, "owner", claims.Role)
	require.Equal(t, "boss@example.com", claims.Email)
	require.True(t, claims.Super)
	require.Equal(t, jti, claims.ID)
}

func TestJWTer_Parse_Rejects(t *testing.T) {
	j := newJWTer()

	t.Run("garbage token", func(t *testing.T) {
		_, err := j.Parse("not.a.token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &auth.JWTer{Secret: []byte("different"), Issuer: j.Issuer, TTL: j.TTL}
		tok, _, err := other.Issue("u1", "vendor", "v@example.com", false)
		require.NoError(t, err)
		_, err = j.Parse(tok)
		require.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := &auth.JWTer{Secret: j.Secret, Issuer: "someone-else", TTL: j.TTL}
		tok, _, err := other.Issue("u1", "vendor", "v@example.com", false)
		require.NoError(t, err)
		_, err = j.Parse(tok)
		require.Error(t, err)
	})

	t.Run("expired beyond leeway", func(t *testing.T) {
		other := &auth.JWTer{Secret: j.Secret, Issuer: j.Issuer, TTL: -2 * time.Minute}
		tok, _, err := other.Issue("u1", "vendor", "v@example.com", false)
		require.NoError(t, err)
		_, err = j.Parse(tok)
		require.Error(t, err)
	})
}
