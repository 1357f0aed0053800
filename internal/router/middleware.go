package router

import (
	"net/http"
	"strings"

	"github.com/Luck-shya/WorkIndia/internal/auth"
	"github.com/gorilla/mux"
)

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + message + `"}`))
}

// authMiddleware verifies the Bearer token and puts its claims on the
// request context.
func authMiddleware(tokens *auth.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				respondUnauthorized(w, "Unauthorized")
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				respondUnauthorized(w, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// apiKeyMiddleware guards administrative endpoints with a static API key.
func apiKeyMiddleware(adminAPIKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if adminAPIKey == "" || apiKey != adminAPIKey {
				respondUnauthorized(w, "Unauthorized: Invalid API Key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
