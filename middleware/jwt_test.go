package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lms/config"
)

func setTestConfig(key string) {
	config.AppConfig = &config.Config{AppName: "LearnSphere", JWTKey: key}
}

func TestTokenRoundTrip(t *testing.T) {
	setTestConfig("test-secret")

	token, err := GenerateJWT(42, "Ada", "USER", "ada@example.com")
	assert.NoError(t, err)

	claims, err := parseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "LearnSphere", claims.Issuer)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	setTestConfig("test-secret")

	token, err := GenerateJWT(42, "Ada", "USER", "ada@example.com")
	assert.NoError(t, err)

	_, err = parseToken(token + "x")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	setTestConfig("test-secret")
	token, err := GenerateJWT(42, "Ada", "USER", "ada@example.com")
	assert.NoError(t, err)

	setTestConfig("other-secret")
	_, err = parseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRequiresUserIdentity(t *testing.T) {
	setTestConfig("test-secret")

	token, err := GenerateJWT(0, "", "USER", "")
	assert.NoError(t, err)

	_, err = parseToken(token)
	assert.Error(t, err)
}
