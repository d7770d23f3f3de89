package middleware

import (
	"fintrack-server/src/util"
	"net/http"
)

// DemoModeMiddleware makes the API read-only, except for signing in.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/api/auth/login":    true,
		"/api/auth/register": true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isDemo && r.Method != http.MethodGet && r.Method != http.MethodOptions {
				if r.Method == http.MethodPost && allowedPosts[r.URL.Path] {
					next.ServeHTTP(w, r)
					return
				}
				util.WriteError(w, r, util.Forbidden("Demo mode: only GET requests are allowed"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
