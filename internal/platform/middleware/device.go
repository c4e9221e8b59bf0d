package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"vaultly/pkg/requestcontext"
)

// Device parses the User-Agent header into a short human-readable summary
// ("Chrome 120 / Android") and stores it in the request context. Audit
// events record the summary so reviewers can spot verification attempts from
// unexpected devices without storing raw UA strings.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := requestcontext.WithDevice(r.Context(), summarizeUserAgent(raw))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func summarizeUserAgent(raw string) string {
	ua := useragent.New(raw)
	name, version := ua.Browser()

	parts := make([]string, 0, 2)
	if name != "" {
		if idx := strings.Index(version, "."); idx > 0 {
			version = version[:idx]
		}
		parts = append(parts, strings.TrimSpace(name+" "+version))
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, os)
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, " / ")
}
