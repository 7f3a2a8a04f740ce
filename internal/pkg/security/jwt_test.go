package security

import (
	"Influence/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJWTConfig(t *testing.T, secret, issuer string) {
	prev := config.Cfg
	config.Cfg = &config.Config{JWT: config.JWTConfig{Secret: secret, Issuer: issuer}}
	t.Cleanup(func() { config.Cfg = prev })
}

func TestTokenRoundTrip(t *testing.T) {
	withJWTConfig(t, "secret", "influence")

	token, err := GenerateToken(7, []string{"admin"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	withJWTConfig(t, "secret", "influence")
	token, err := GenerateToken(7, []string{"subscribed"})
	require.NoError(t, err)

	config.Cfg.JWT.Secret = "other"
	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
