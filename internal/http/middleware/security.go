package middleware

import "net/http"

// SecurityHeaders adds standard security headers to responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Remove headers that leak server information
		w.Header().Del("X-Powered-By")
		w.Header().Del("Server")

		next.ServeHTTP(w, r)
	})
}
