package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Langflow connection
	LangflowBaseURL string
	// Process-wide default API key; request-supplied keys take precedence.
	LangflowAPIKey string
	// Default flow to run when the request does not name one.
	FlowID string
	// Static assets
	StaticDir string
	// Tweaks block forwarded to Langflow on every run
	TweaksFile string
	// Logging
	LogLevel string
	LogFile  string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:            getEnvDefault("PORT", "8000"),
		AllowedOrigin:   getEnvDefault("ALLOWED_ORIGIN", "*"),
		LangflowBaseURL: getEnvDefault("LANGFLOW_BASE_URL", "http://langflow:7860"),
		LangflowAPIKey:  os.Getenv("LANGFLOW_API_KEY"),
		FlowID:          os.Getenv("FLOW_ID"),
		StaticDir:       getEnvDefault("STATIC_DIR", "./static"),
		TweaksFile:      getEnvDefault("TWEAKS_FILE", "./tweaks.yaml"),
		LogLevel:        getEnvDefault("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
	}
	if cfg.LangflowAPIKey == "" {
		slog.Warn("LANGFLOW_API_KEY is not set; requests must supply api_key when Langflow requires auth")
	}
	if cfg.FlowID == "" {
		slog.Warn("FLOW_ID is not set; requests must supply flow_id")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
