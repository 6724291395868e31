package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"crm-webhook-api/internal/api"
	"crm-webhook-api/internal/api/handlers"
	"crm-webhook-api/internal/audit"
	"crm-webhook-api/internal/auth"
	"crm-webhook-api/internal/config"
	"crm-webhook-api/internal/crm"
	"crm-webhook-api/internal/logging"
	"crm-webhook-api/internal/metrics"
	"crm-webhook-api/internal/report"
	"crm-webhook-api/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := os.Getenv("CRM_CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}

	// Initialize logger
	if err := logging.Setup(cfg); err != nil {
		log.Fatal().Err(err).Msg("Logger setup failed")
	}

	log.Info().
		Str("version", "1.0.0").
		Str("listen_addr", cfg.ListenAddr).
		Str("store_url", cfg.Store.URL).
		Msg("CRM Webhook API starting")

	// Hosted data platform client
	storeClient := store.New(cfg.Store.URL, cfg.Store.ServiceKey, time.Duration(cfg.Store.TimeoutSec)*time.Second)

	// Audit + entity layer
	recorder := &audit.Recorder{Store: storeClient}
	repo := &crm.Repo{Store: storeClient}

	// Report layer
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("No completion API key configured; report generation will fail until CRM_AI_API_KEY is set")
	}
	reportSvc := &report.Service{
		Client: &report.Client{
			APIBase:     cfg.AI.APIBase,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
			HTTPClient:  &http.Client{Timeout: time.Duration(cfg.AI.TimeoutSec) * time.Second},
		},
	}

	// Initialize OIDC verifier if enabled
	var oidcVerifier *auth.OIDCVerifier
	if cfg.OIDC.Enabled {
		log.Info().Str("issuer", cfg.OIDC.IssuerURL).Msg("Initializing OIDC authentication")
		oidcVerifier, err = auth.NewOIDCVerifier(
			context.Background(),
			cfg.OIDC.IssuerURL,
			cfg.OIDC.ClientID,
			cfg.OIDC.Audience,
			cfg.OIDC.AdminRole,
		)
		if err != nil {
			log.Warn().
				Err(err).
				Msg("OIDC enabled but failed to initialize, falling back to API key authentication only")
			cfg.OIDC.Enabled = false
		} else {
			log.Info().
				Str("issuer", cfg.OIDC.IssuerURL).
				Str("client_id", cfg.OIDC.ClientID).
				Str("admin_role", cfg.OIDC.AdminRole).
				Msg("OIDC authentication enabled")
		}
	}

	authHandler := auth.Auth{
		AdminKey:     cfg.AdminKey,
		OIDCEnabled:  cfg.OIDC.Enabled,
		OIDCVerifier: oidcVerifier,
	}

	whHandler := &handlers.WebhookHandler{Audit: recorder, Repo: repo}
	rpHandler := &handlers.ReportsHandler{Service: reportSvc}
	lgHandler := &handlers.LogsHandler{Auth: authHandler, Audit: recorder}

	router := api.NewRouter(whHandler, rpHandler, lgHandler)

	// Middlewares: metrics innermost, then request logging, CORS outermost so
	// preflight never reaches the handlers.
	handler := metrics.Middleware(router)
	handler = logging.HTTPLogger(handler)
	handler = api.CORSMiddleware(handler)

	log.Info().
		Str("listen_addr", cfg.ListenAddr).
		Msg("CRM Webhook API listening")

	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
}
