package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ConversationViewer/internal/config"
	"ConversationViewer/internal/domain"
)

var testAuth = config.AuthConfig{TokenSecret: "s3cret", Issuer: "viewer", Audience: "viewer-api"}

func TestVerifyAcceptsSignedToken(t *testing.T) {
	t.Parallel()

	token, err := Sign(testAuth, "alice", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	userID, err := NewJWTVerifier(testAuth, nil).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	sign := func(cfg config.AuthConfig, claims jwt.RegisteredClaims) string {
		token, err := Sign(cfg, "alice", claims)
		require.NoError(t, err)
		return token
	}

	otherSecret := testAuth
	otherSecret.TokenSecret = "different"
	otherIssuer := testAuth
	otherIssuer.Issuer = "someone-else"
	otherAudience := testAuth
	otherAudience.Audience = "another-api"

	cases := map[string]string{
		"garbage":        "not-a-token",
		"empty":          "",
		"wrong secret":   sign(otherSecret, jwt.RegisteredClaims{}),
		"wrong issuer":   sign(otherIssuer, jwt.RegisteredClaims{}),
		"wrong audience": sign(otherAudience, jwt.RegisteredClaims{}),
		"expired":        sign(testAuth, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}),
	}

	verifier := NewJWTVerifier(testAuth, nil)
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTVerifier(testAuth, nil).Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyWithoutSecret(t *testing.T) {
	t.Parallel()

	token, err := Sign(testAuth, "alice", jwt.RegisteredClaims{})
	require.NoError(t, err)

	_, err = NewJWTVerifier(config.AuthConfig{}, nil).Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyOptionalIssuerAndAudience(t *testing.T) {
	t.Parallel()

	loose := config.AuthConfig{TokenSecret: testAuth.TokenSecret}
	token, err := Sign(testAuth, "bob", jwt.RegisteredClaims{})
	require.NoError(t, err)

	userID, err := NewJWTVerifier(loose, nil).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "bob", userID)
}
