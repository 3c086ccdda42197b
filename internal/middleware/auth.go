package middleware

import (
	"strings"

	"github.com/Mohanapriya2828/schoolapp-ado/pkg/errs"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/response"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates the bearer token and stores it on the context for the
// handlers. The service core stays policy-free; role decisions happen here.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errs.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			c.Set("user", token)

			return next(c)
		}
	}
}

// RequireRole gates a route on the role claim set by JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok || !token.Valid {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			role, _ := claims["role"].(string)
			if _, ok := allowed[role]; !ok {
				return response.WriteErrorResponse(c, errs.ErrForbidden, nil)
			}

			return next(c)
		}
	}
}
