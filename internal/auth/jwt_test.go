package auth

import (
	"testing"
	"time"

	"carty/config"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "s3cret", AccessExpiry: time.Hour, Issuer: "carty"}
	tok, err := GenerateAccessToken(cfg, 42, "08012345678")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, tok)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "08012345678", claims.Phone)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "s3cret", AccessExpiry: time.Hour, Issuer: "carty"}
	tok, err := GenerateAccessToken(cfg, 42, "x")
	require.NoError(t, err)

	_, err = ParseAccessToken(&config.JWTConfig{AccessSecret: "other"}, tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := &config.JWTConfig{AccessSecret: "s3cret", AccessExpiry: -time.Minute}
	tok, err = GenerateAccessToken(expired, 42, "x")
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken(cfg, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}
