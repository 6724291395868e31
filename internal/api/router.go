package api

import (
	"net/http"

	"crm-webhook-api/internal/api/handlers"
	"crm-webhook-api/internal/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires HTTP routes to handlers.
func NewRouter(wh *handlers.WebhookHandler, rh *handlers.ReportsHandler, lh *handlers.LogsHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", handlers.Health)
	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/api/webhooks/lead", wh.Lead)
	mux.HandleFunc("/api/webhooks/client", wh.Client)
	mux.HandleFunc("/api/webhooks/property", wh.Property)

	mux.HandleFunc("/api/reports", rh.Generate)
	mux.HandleFunc("/api/webhook-logs", lh.List)

	// Swagger UI at /swagger/index.html
	mux.HandleFunc("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}
