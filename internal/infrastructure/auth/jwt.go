package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/golang-jwt/jwt/v5"

	"ConversationViewer/internal/config"
	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

var (
	errMissingSecret   = errors.New("token secret not configured")
	errMissingSubject  = errors.New("token has no subject")
	errInvalidIssuer   = errors.New("invalid issuer")
	errInvalidAudience = errors.New("invalid audience")
)

// JWTVerifier checks HMAC-signed bearer tokens and yields the subject as user id.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
	logger   *slog.Logger
}

var _ ports.TokenVerifier = (*JWTVerifier)(nil)

// NewJWTVerifier builds a verifier; without a secret every token is rejected.
func NewJWTVerifier(cfg config.AuthConfig, logger *slog.Logger) *JWTVerifier {
	if cfg.TokenSecret == "" && logger != nil {
		logger.Warn("AUTH_TOKEN_SECRET not set, all requests will be rejected")
	}
	return &JWTVerifier{
		secret:   []byte(cfg.TokenSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		logger:   logger,
	}
}

// Verify returns the user id carried by token or an error wrapping domain.ErrUnauthorized.
func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	userID, err := v.verify(token)
	if err != nil {
		if v.logger != nil {
			v.logger.Debug("token rejected", "error", err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return userID, nil
}

func (v *JWTVerifier) verify(token string) (string, error) {
	if len(v.secret) == 0 {
		return "", errMissingSecret
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("token not valid")
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return "", errInvalidIssuer
	}
	if v.audience != "" && !slices.Contains(claims.Audience, v.audience) {
		return "", errInvalidAudience
	}
	if claims.Subject == "" {
		return "", errMissingSubject
	}
	return claims.Subject, nil
}

// Sign issues a token for userID; used by the CLI and tests.
func Sign(cfg config.AuthConfig, userID string, claims jwt.RegisteredClaims) (string, error) {
	if cfg.TokenSecret == "" {
		return "", errMissingSecret
	}
	claims.Subject = userID
	if claims.Issuer == "" {
		claims.Issuer = cfg.Issuer
	}
	if len(claims.Audience) == 0 && cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.TokenSecret))
}
