package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/rizvand/scraper-langflow/internal/config"
	"github.com/rizvand/scraper-langflow/internal/logging"
	"github.com/rizvand/scraper-langflow/internal/server"
)

func main() {
	cfg := config.Load()
	cleanup, err := logging.Setup(logging.Config{Level: cfg.LogLevel, FilePath: cfg.LogFile})
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer func() { _ = cleanup() }()

	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	slog.Info("langflow chatbot server listening", "addr", addr, "langflow_url", cfg.LangflowBaseURL)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
