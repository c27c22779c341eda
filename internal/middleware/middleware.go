package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo"
)

const (
	// UserIDKey is the echo context key the authenticated user id is stored under.
	UserIDKey = "userId"

	tokenTTL = 24 * time.Hour
)

// JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"reason": "Missing token"})
			}

			if len(header) < 8 || header[:7] != "Bearer " {
				return c.JSON(http.StatusUnauthorized, map[string]string{"reason": "Invalid token format"})
			}

			claims, err := ParseToken(header[7:], secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"reason": "Invalid token"})
			}

			c.Set(UserIDKey, claims.UserID)

			return next(c)
		}
	}
}

func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized: invalid token")
	}

	return claims, nil
}

func NewToken(userID string, name string, secret []byte) (string, error) {
	claims := Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}
