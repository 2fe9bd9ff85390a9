package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crimesafenet/models"
)

// GenerateToken mints a signed bearer token carrying the caller's identity
// and role. Citizen and officer tokens share one shape; the role claim is
// what authorization gates inspect.
func GenerateToken(user *models.User, secret []byte, expiresInHours int) (string, error) {
	expiresAt := time.Now().Add(time.Duration(expiresInHours) * time.Hour)

	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  string(user.Role),
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
