package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtKey is loaded from JWT_SECRET at startup.
var JwtKey []byte

// Claims is the bearer credential payload: which user, and which role the
// access policy should apply.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// GenerateJWT signs a credential for a user id and role.
func GenerateJWT(userID, role string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}
