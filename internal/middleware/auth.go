package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/eindr/labeld/internal/auth"
)

// AdminBasicAuth creates middleware that protects admin routes with HTTP
// Basic authentication. The expected password is supplied as an argon2id
// hash so the plaintext never lives beyond startup.
func AdminBasicAuth(adminEmail, passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				requireAuth(w)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(adminEmail)) == 1

			// Always run the password check so timing does not leak
			// whether the username matched.
			passMatch, err := auth.CheckPassword(pass, passwordHash)
			if err != nil {
				slog.Error("admin auth password check failed", "error", err)
				WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Authentication check failed", nil)
				return
			}

			if !userMatch || !passMatch {
				slog.Warn("admin authentication rejected", "ip", getClientIP(r), "path", r.URL.Path)
				requireAuth(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="labeld admin", charset="UTF-8"`)
	WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Admin credentials required", nil)
}
