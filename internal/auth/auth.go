package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Auth guards the operational endpoints with an API key or, when enabled,
// OIDC bearer tokens. Webhook ingestion itself stays unauthenticated: the
// endpoints exist to receive third-party callbacks.
type Auth struct {
	AdminKey     string
	OIDCEnabled  bool
	OIDCVerifier *OIDCVerifier
}

func (a Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If OIDC is enabled, try JWT first, then fall back to API key
		if a.OIDCEnabled && a.OIDCVerifier != nil {
			if a.verifyJWT(r) {
				log.Debug().
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("auth_type", "jwt").
					Msg("Admin authentication successful via JWT")
				next(w, r)
				return
			}
		}

		if a.AdminKey != "" && r.Header.Get("X-Admin-Key") == a.AdminKey {
			log.Debug().
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Str("auth_type", "api_key").
				Msg("Admin authentication successful via API key")
			next(w, r)
			return
		}

		log.Warn().
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Str("remote_addr", r.RemoteAddr).
			Msg("Admin authentication failed")
		http.Error(w, "unauthorized (admin)", http.StatusUnauthorized)
	}
}

// verifyJWT validates the bearer token and checks the admin role claim.
func (a Auth) verifyJWT(r *http.Request) bool {
	token := ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return false
	}

	idToken, err := a.OIDCVerifier.VerifyToken(r.Context(), token)
	if err != nil {
		log.Warn().
			Err(err).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("JWT verification failed")
		return false
	}

	hasRole, err := a.OIDCVerifier.HasRole(idToken, a.OIDCVerifier.adminRole)
	if err != nil {
		log.Error().
			Err(err).
			Str("required_role", a.OIDCVerifier.adminRole).
			Msg("Failed to check role in JWT")
		return false
	}
	if !hasRole && a.OIDCVerifier.adminRole != "" {
		log.Warn().
			Str("required_role", a.OIDCVerifier.adminRole).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("User missing required role")
		return false
	}
	return true
}

// ExtractBearerToken is a helper to extract Bearer token from Authorization header
func ExtractBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}
