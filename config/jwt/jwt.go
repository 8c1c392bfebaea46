package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	secret = []byte("wardcare360-dev-secret")
	issuer = "wardcare360"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	Code     string `json:"code"`
	Name     string `json:"name"`
	UserType string `json:"usertype"`
}

// Configure replaces the signing secret and issuer. An empty secret keeps the development default.
func Configure(signingSecret string, tokenIssuer string) {
	if signingSecret != "" {
		secret = []byte(signingSecret)
	}
	if tokenIssuer != "" {
		issuer = tokenIssuer
	}
}

func GenerateToken(code string, name string, usertype string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   code,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Code:     code,
		Name:     name,
		UserType: usertype,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Code == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
