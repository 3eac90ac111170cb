package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"oms-backend/pkg/config"
)

var (
	signingKey = []byte("oms-secret-key")
	expiration = 24 * time.Hour
)

// Initialize sets the signing key and token lifetime from configuration.
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expiration = cfg.ExpirationTime
}

// UserClaims represents the JWT claims for an authenticated user.
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token carrying the user's identity and role.
func GenerateToken(userID uint, username, role string) (string, error) {
	claims := UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
