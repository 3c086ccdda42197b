package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

// CreateJWTToken signs an HS256 bearer token for a verified identity. The
// claims carry the subject id, email, role and display name so a downstream
// gate can do role checks without a session lookup.
func CreateJWTToken(userID int64, userName string, email string, role string, jwtSecretKey string, issuer string, audience string, expiryMinutes int, jwtKid string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{}
	claims["sub"] = userID
	claims["email"] = email
	claims["role"] = role
	claims["name"] = userName
	claims["iss"] = issuer
	claims["aud"] = audience
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(time.Duration(expiryMinutes) * time.Minute).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if jwtKid != "" {
		token.Header["kid"] = jwtKid
	}

	return token.SignedString([]byte(jwtSecretKey))
}

// ExtractTokenUser pulls the identity claims out of the token the auth
// middleware stored on the request context.
func ExtractTokenUser(c echo.Context) (int64, string, string) {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok || !user.Valid {
		return 0, "", ""
	}

	claims, ok := user.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ""
	}

	userID, _ := claims["sub"].(float64)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return int64(userID), role, email
}
