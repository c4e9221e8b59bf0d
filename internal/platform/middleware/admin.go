package middleware

import (
	"log/slog"
	"net/http"

	"vaultly/pkg/platform/secrets"
	"vaultly/pkg/requestcontext"
)

// RequireAdminToken guards administrative routes. The expected token is held
// at rest only as a bcrypt hash; bcrypt comparison is constant-time.
func RequireAdminToken(expectedTokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if expectedTokenHash == "" || token == "" || secrets.Verify(token, expectedTokenHash) != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
