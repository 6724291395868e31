package api

import "net/http"

// allowedHeaders mirrors what the dashboard and third-party callers send.
const allowedHeaders = "authorization, x-client-info, apikey, content-type, x-admin-key"

// CORSMiddleware applies the permissive policy the webhook endpoints need and
// answers preflight requests with an empty 200 before any handler runs.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
