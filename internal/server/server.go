package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rizvand/scraper-langflow/internal/config"
	"github.com/rizvand/scraper-langflow/internal/extract"
	"github.com/rizvand/scraper-langflow/internal/langflow"
	"github.com/rizvand/scraper-langflow/internal/types"
)

// defaultSessionID is echoed back when the client sends no session ID.
const defaultSessionID = "default"

type Server struct {
	router *chi.Mux
	client *langflow.Client
	cfg    config.Config
}

func NewServer(cfg config.Config) (*Server, error) {
	tweaks, err := langflow.LoadTweaks(cfg.TweaksFile)
	if err != nil {
		return nil, err
	}
	client := langflow.NewClient(cfg.LangflowBaseURL, cfg.LangflowAPIKey, cfg.FlowID, tweaks)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	s := &Server{
		router: r,
		client: client,
		cfg:    cfg,
	}
	r.Use(s.recoverer)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/", s.handleIndex)
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	s.router.Post("/chat", s.handleChat)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/debug/flows", s.handleDebugFlows)
	s.router.Post("/debug/test-flow", s.handleDebugTestFlow)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "index.html"))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sid := req.SessionID
	if sid == "" {
		sid = defaultSessionID
	}

	flowID, err := s.client.ResolveFlowID(req.FlowID)
	if err != nil {
		s.writeRelayError(w, err)
		return
	}

	v, err := s.client.RunFlow(r.Context(), flowID, req.APIKey, req.Message)
	if err != nil {
		slog.Error("flow run failed", "flow_id", flowID, "err", err)
		s.writeRelayError(w, err)
		return
	}
	reply, ok := extract.Reply(v)
	if !ok {
		// An unrecognized response shape is not a failure; answer with the
		// fixed fallback.
		slog.Warn("no reply text found in langflow response", "flow_id", flowID)
		reply = extract.FallbackReply
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.ChatResponse{Response: reply, SessionID: sid})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	connection := "connected"
	if err := s.client.Health(r.Context()); err != nil {
		slog.Warn("langflow health probe failed", "err", err)
		connection = "disconnected"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.HealthResponse{
		Status:             "healthy",
		LangflowConnection: connection,
		LangflowURL:        s.client.BaseURL(),
	})
}

// handleDebugFlows relays the Langflow projects listing verbatim.
func (s *Server) handleDebugFlows(w http.ResponseWriter, r *http.Request) {
	apiKey := r.URL.Query().Get("api_key")
	resp, err := s.client.ListProjects(r.Context(), apiKey)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":        err.Error(),
			"langflow_url": s.client.BaseURL(),
		})
		return
	}
	var data any
	if resp.StatusCode == http.StatusOK {
		_ = json.Unmarshal(resp.Body, &data)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status_code":  resp.StatusCode,
		"headers":      resp.Headers,
		"data":         data,
		"raw_text":     truncate(string(resp.Body), 1000),
		"langflow_url": s.client.BaseURL(),
	})
}

// handleDebugTestFlow runs a flow once with a fixed test message and relays
// the raw outcome.
func (s *Server) handleDebugTestFlow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	flowID, err := s.client.ResolveFlowID(r.URL.Query().Get("flow_id"))
	if err != nil {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": "No flow ID provided and no FLOW_ID environment variable set",
		})
		return
	}
	result, err := s.client.TestFlow(r.Context(), flowID, r.URL.Query().Get("api_key"))
	if err != nil {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}
	resp := result.Response
	out := map[string]any{
		"flow_id":          flowID,
		"request_url":      result.URL,
		"request_payload":  result.Payload,
		"response_status":  resp.StatusCode,
		"response_headers": resp.Headers,
		"response_text":    truncate(string(resp.Body), 2000),
	}
	if resp.StatusCode == http.StatusOK && strings.TrimSpace(string(resp.Body)) != "" {
		var parsed any
		if err := json.Unmarshal(resp.Body, &parsed); err != nil {
			out["json_parse_error"] = "Could not parse response as JSON"
		} else {
			out["response_json"] = parsed
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

// writeRelayError maps every relay failure category to its HTTP status.
func (s *Server) writeRelayError(w http.ResponseWriter, err error) {
	var le *langflow.Error
	if !errors.As(err, &le) {
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	switch le.Kind {
	case langflow.KindNoFlow:
		s.writeError(w, http.StatusBadRequest, le.Message)
	case langflow.KindUnreachable:
		s.writeError(w, http.StatusServiceUnavailable, le.Error())
	case langflow.KindUpstreamStatus:
		// Surface the upstream status and body verbatim.
		s.writeError(w, le.Status, le.Message)
	case langflow.KindEmptyBody, langflow.KindMalformedBody:
		s.writeError(w, http.StatusBadGateway, le.Message)
	default:
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}

// recoverer turns panics into a generic internal-error response instead of
// killing the connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while serving request", "path", r.URL.Path, "panic", rec)
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
