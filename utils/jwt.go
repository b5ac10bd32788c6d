package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleOwner = "owner"
	RoleUser  = "user"
)

var (
	jwtSecret   = []byte("dev-secret-change-me")
	tokenTTL    = 72 * time.Hour
	jwtConfigMu sync.RWMutex
)

// ConfigureJWT sets the signing secret and token lifetime.
func ConfigureJWT(secret string, ttl time.Duration) {
	jwtConfigMu.Lock()
	defer jwtConfigMu.Unlock()
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

func signingKey() []byte {
	jwtConfigMu.RLock()
	defer jwtConfigMu.RUnlock()
	return jwtSecret
}

type CustomClaims struct {
	AccountID uint   `json:"account_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(accountID uint, name, role string) (string, error) {
	jwtConfigMu.RLock()
	ttl := tokenTTL
	jwtConfigMu.RUnlock()

	claims := &CustomClaims{
		AccountID: accountID,
		Name:      name,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "BookAhead",
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(signingKey())
	if err != nil {
		ErrorLogger.Printf("Error generating token: %v", err)
		return "", err
	}
	return tokenString, nil
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
