package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"crimesafenet/models"
	"crimesafenet/repository"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Claims is the authenticated caller identity extracted from a bearer token.
type Claims struct {
	UserID int64
	Email  string
	Name   string
	Role   models.Role
}

// ClaimsFromContext returns the caller identity set by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// AuthMiddleware validates bearer tokens and loads caller claims
type AuthMiddleware struct {
	users     *repository.UserRepository
	jwtSecret []byte
}

// NewAuthMiddleware creates a new auth middleware. users may be nil to skip
// the store-backed existence check (tests).
func NewAuthMiddleware(users *repository.UserRepository, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

// RequireAuth validates the Authorization header and puts the caller's
// claims into the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(w, "Invalid authorization format. Expected: Bearer <token>")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondUnauthorized(w, "Invalid or expired token")
			return
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondUnauthorized(w, "Invalid token claims")
			return
		}

		userIDFloat, ok := mapClaims["id"].(float64)
		if !ok {
			respondUnauthorized(w, "Invalid token: id not found")
			return
		}
		role, _ := mapClaims["role"].(string)
		if !models.Role(role).Valid() {
			respondUnauthorized(w, "Invalid token: unknown role")
			return
		}

		claims := &Claims{
			UserID: int64(userIDFloat),
			Role:   models.Role(role),
		}
		claims.Email, _ = mapClaims["email"].(string)
		claims.Name, _ = mapClaims["name"].(string)

		if m.users != nil {
			exists, err := m.users.Exists(claims.UserID)
			if err != nil || !exists {
				respondUnauthorized(w, "User not found")
				return
			}
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOfficer gates a RequireAuth-wrapped handler to officer tokens.
func (m *AuthMiddleware) RequireOfficer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			respondUnauthorized(w, "Authentication required")
			return
		}
		if claims.Role != models.RoleOfficer {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(models.ErrorResponse{
				Error:   "Forbidden",
				Message: "Officer role required",
				Code:    http.StatusForbidden,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
		Code:    http.StatusUnauthorized,
	})
}
