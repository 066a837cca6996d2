package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/service"
	"github.com/golang-jwt/jwt/v5"
)

// respondError mirrors the handlers' error envelope so clients decode the
// same shape whether a request fails in middleware or in a handler.
func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// JWTAuth validates the Bearer token and resolves the full user record into
// the request context. Requests without a valid token are rejected with 401.
func JWTAuth(jwtSecret string, users service.UserService, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := &service.Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				log.Warnf("auth: token for unknown user %s: %v", claims.UserID, err)
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// AdminOnly must run after JWTAuth.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin && user.Role != entity.RoleAdmin {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
