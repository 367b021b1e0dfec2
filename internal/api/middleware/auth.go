package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/firedintern/meta-fgi/internal/api/response"
	"github.com/firedintern/meta-fgi/internal/core"
)

// AdminAuth returns middleware that validates the shared admin secret,
// supplied either as a ?secret= query parameter or an X-Admin-Secret
// header. If secret is empty, the route is disabled outright: an admin
// surface must never be reachable without a configured secret.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrUnauthorized, nil))
				return
			}

			provided := r.URL.Query().Get("secret")
			if provided == "" {
				provided = r.Header.Get("X-Admin-Secret")
			}

			// Constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrUnauthorized, nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CronAuth returns middleware that validates the X-Cron-Secret header on
// scheduler-triggered routes. If secret is empty, authentication is
// disabled, matching local development where no scheduler exists.
func CronAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-Cron-Secret")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrUnauthorized, nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
