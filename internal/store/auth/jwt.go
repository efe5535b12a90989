package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/toxidity-18/Veritas/internal/common"
)

// Claims carries the standard registered claims plus the principal id.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string
}

// GenerateToken mints an HS256 access token for the principal.
func GenerateToken(principalID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		PrincipalID: principalID,
	})

	return token.SignedString(secretKey)
}

// GetPrincipalIDFromToken verifies the token signature and returns the
// embedded principal id.
func GetPrincipalIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.PrincipalID, nil
}
