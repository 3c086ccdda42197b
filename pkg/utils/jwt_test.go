package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseToken(t *testing.T, tokenStr string, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)

	return claims
}

func TestCreateJWTTokenClaims(t *testing.T) {
	tokenStr, err := CreateJWTToken(42, "Jane Doe", "jane@school.test", "Teacher",
		"test-secret", "schoolapp", "schoolapp-clients", 30, "key-1")
	require.NoError(t, err)

	claims := parseToken(t, tokenStr, "test-secret")

	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "jane@school.test", claims["email"])
	assert.Equal(t, "Teacher", claims["role"])
	assert.Equal(t, "Jane Doe", claims["name"])
	assert.Equal(t, "schoolapp", claims["iss"])
	assert.Equal(t, "schoolapp-clients", claims["aud"])
}

func TestCreateJWTTokenExpiry(t *testing.T) {
	before := time.Now()

	tokenStr, err := CreateJWTToken(1, "a", "a@school.test", "Student",
		"test-secret", "schoolapp", "schoolapp-clients", 30, "")
	require.NoError(t, err)

	claims := parseToken(t, tokenStr, "test-secret")

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)

	expected := before.Add(30 * time.Minute).Unix()
	assert.InDelta(t, expected, int64(exp), 2)
}

func TestCreateJWTTokenRejectsWrongSecret(t *testing.T) {
	tokenStr, err := CreateJWTToken(1, "a", "a@school.test", "Student",
		"test-secret", "schoolapp", "schoolapp-clients", 30, "")
	require.NoError(t, err)

	_, err = jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
