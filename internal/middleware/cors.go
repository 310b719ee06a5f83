package middleware

import (
	"net/http"
	"strings"
)

// OriginMatcher reports whether a non-empty Origin header is on the allow
// list. "*" in origins matches any caller.
func OriginMatcher(origins []string) func(origin string) bool {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(origin string) bool {
		return origin != "" && (allowAll || allowed[origin])
	}
}

// CORS allows the dashboard origin to call the API with its device cookie.
// "*" in origins reflects any caller.
func CORS(origins []string) func(http.Handler) http.Handler {
	match := OriginMatcher(origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if match(origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, "+DeviceHeader)
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
