package pkg

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "blockgen"

type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// GenerateToken signs an access token valid for expiration minutes
func GenerateToken(userID uint, email, role, secret string, expiration int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiration) * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GenerateRefreshToken signs a refresh token valid for days days
func GenerateRefreshToken(userID uint, secret string, days int) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{"refresh"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.AddDate(0, 0, days)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ValidateToken(token, secret string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(token, secret, claims); err != nil {
		return nil, err
	}
	if slices.Contains(claims.Audience, "refresh") {
		return nil, errors.New("invalid token: refresh token used as access token")
	}
	return claims, nil
}

func ValidateRefreshToken(token, secret string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(token, secret, claims, jwt.WithAudience("refresh")); err != nil {
		return nil, err
	}
	return claims, nil
}

func parse(token, secret string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}
	return nil
}
