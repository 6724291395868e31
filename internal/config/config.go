package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains all runtime settings.
// Load order: defaults -> YAML (optional) -> env overrides.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	AdminKey string `yaml:"admin_key"`

	// Hosted data platform (all persistence lives there).
	Store struct {
		URL        string `yaml:"url"`
		ServiceKey string `yaml:"service_key"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"store"`

	// Completion API used by the report generator.
	AI struct {
		APIKey      string  `yaml:"api_key"`
		APIBase     string  `yaml:"api_base"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		TimeoutSec  int     `yaml:"timeout_sec"`
	} `yaml:"ai"`

	// Logging configuration
	Logging struct {
		Level      string `yaml:"level"`        // trace, debug, info, warn, error, fatal, panic
		Format     string `yaml:"format"`       // json, console
		Output     string `yaml:"output"`       // stdout, file, syslog, multi
		FilePath   string `yaml:"file_path"`    // path to log file (if output=file or multi)
		MaxSizeMB  int    `yaml:"max_size_mb"`  // max size before rotation
		MaxBackups int    `yaml:"max_backups"`  // max number of old log files
		MaxAgeDays int    `yaml:"max_age_days"` // max age in days
		Compress   bool   `yaml:"compress"`     // compress rotated files
		SyslogAddr string `yaml:"syslog_addr"`  // syslog server address (if output=syslog or multi)
		SyslogNet  string `yaml:"syslog_net"`   // tcp, udp, or empty for local
	} `yaml:"logging"`

	// OIDC extension point for the operational endpoints. Off by default.
	OIDC struct {
		Enabled   bool   `yaml:"enabled"`
		IssuerURL string `yaml:"issuer_url"`
		ClientID  string `yaml:"client_id"`
		Audience  string `yaml:"audience"`
		AdminRole string `yaml:"admin_role"`
	} `yaml:"oidc"`
}

// Load reads YAML if path is non-empty, then applies env overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.validate()
}

func defaults() Config {
	var c Config
	c.ListenAddr = ":8080"

	c.Store.TimeoutSec = 10

	c.AI.APIBase = "https://api.openai.com"
	c.AI.Model = "gpt-4o-mini"
	c.AI.MaxTokens = 2000
	c.AI.Temperature = 0.7
	c.AI.TimeoutSec = 60

	c.Logging.Level = "info"
	c.Logging.Format = "json"
	c.Logging.Output = "stdout"
	c.Logging.FilePath = "/var/log/crm-webhook-api/app.log"
	c.Logging.MaxSizeMB = 100
	c.Logging.MaxBackups = 3
	c.Logging.MaxAgeDays = 28
	c.Logging.Compress = true
	c.Logging.SyslogNet = "udp"

	c.OIDC.Enabled = false
	return c
}

// validate rejects configurations that cannot serve a single request.
// The AI key is intentionally not required here: webhook ingestion must keep
// working even when report generation is unconfigured.
func (c Config) validate() error {
	if strings.TrimSpace(c.Store.URL) == "" {
		return errors.New("store.url is required (CRM_STORE_URL)")
	}
	if strings.TrimSpace(c.Store.ServiceKey) == "" {
		return errors.New("store.service_key is required (CRM_STORE_SERVICE_KEY)")
	}
	return nil
}

func applyEnv(cfg *Config) {
	setStr(&cfg.ListenAddr, "CRM_LISTEN_ADDR")
	setStr(&cfg.AdminKey, "CRM_ADMIN_KEY")

	setStr(&cfg.Store.URL, "CRM_STORE_URL")
	setStr(&cfg.Store.ServiceKey, "CRM_STORE_SERVICE_KEY")
	setInt(&cfg.Store.TimeoutSec, "CRM_STORE_TIMEOUT_SEC")

	setStr(&cfg.AI.APIKey, "CRM_AI_API_KEY")
	setStr(&cfg.AI.APIBase, "CRM_AI_API_BASE")
	setStr(&cfg.AI.Model, "CRM_AI_MODEL")
	setInt(&cfg.AI.MaxTokens, "CRM_AI_MAX_TOKENS")
	setInt(&cfg.AI.TimeoutSec, "CRM_AI_TIMEOUT_SEC")
	if v := os.Getenv("CRM_AI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.AI.Temperature = f
		}
	}

	if v := os.Getenv("CRM_OIDC_ENABLED"); v != "" {
		cfg.OIDC.Enabled = v == "1" || strings.ToLower(v) == "true"
	}
	setStr(&cfg.OIDC.IssuerURL, "CRM_OIDC_ISSUER_URL")
	setStr(&cfg.OIDC.ClientID, "CRM_OIDC_CLIENT_ID")
	setStr(&cfg.OIDC.Audience, "CRM_OIDC_AUDIENCE")
	setStr(&cfg.OIDC.AdminRole, "CRM_OIDC_ADMIN_ROLE")

	setStr(&cfg.Logging.Level, "CRM_LOG_LEVEL")
	setStr(&cfg.Logging.Format, "CRM_LOG_FORMAT")
	setStr(&cfg.Logging.Output, "CRM_LOG_OUTPUT")
	setStr(&cfg.Logging.FilePath, "CRM_LOG_FILE_PATH")
	setStr(&cfg.Logging.SyslogAddr, "CRM_LOG_SYSLOG_ADDR")
	setStr(&cfg.Logging.SyslogNet, "CRM_LOG_SYSLOG_NET")
	setInt(&cfg.Logging.MaxSizeMB, "CRM_LOG_MAX_SIZE_MB")
	setInt(&cfg.Logging.MaxBackups, "CRM_LOG_MAX_BACKUPS")
	setInt(&cfg.Logging.MaxAgeDays, "CRM_LOG_MAX_AGE_DAYS")
	if v := os.Getenv("CRM_LOG_COMPRESS"); v != "" {
		cfg.Logging.Compress = v == "1" || strings.ToLower(v) == "true"
	}
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
