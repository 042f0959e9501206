package middleware

import (
	"net/http"
	"strings"

	"goal-planner/planner-service/logging"
	"goal-planner/planner-service/utils"
)

// JWTAuthMiddleware validira Bearer token i upisuje korisničko ime iz
// claim-ova u Username header za downstream handlere.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		// Klijent ne sme sam da postavi Username header
		r.Header.Set("Username", claims.Username)
		next.ServeHTTP(w, r)
	})
}
