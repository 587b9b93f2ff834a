package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/testsabirweb/slack_extract/internal/config"
	"github.com/testsabirweb/slack_extract/pkg/extraction"
	"github.com/testsabirweb/slack_extract/pkg/slack"
)

// Server represents the API server
type Server struct {
	cfg *config.Config
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Router returns the HTTP handler for the server
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/extract", s.handleExtract)

	return s.withMiddleware(mux)
}

// withMiddleware wraps the handler with common middleware
func (s *Server) withMiddleware(h http.Handler) http.Handler {
	// Add CORS headers
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// handleHealth returns the health status of the server
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "slack-extract",
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// handleExtract runs one extraction and returns the records. Request
// validation fails fast with a 400 before any Slack call is made; fetch
// failures during the run do not fail the request, they surface through
// the run descriptor's status.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token := req.Token
	if token == "" {
		token = s.cfg.Slack.Token
	}
	if token == "" {
		writeError(w, http.StatusBadRequest, ErrMissingToken.Error())
		return
	}

	oldest, latest, err := req.Bounds()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client := slack.NewClient(token, slack.ClientConfig{
		BaseURL:        s.cfg.Slack.BaseURL,
		MaxRetries:     s.cfg.Extract.MaxRetries,
		InitialBackoff: s.cfg.Extract.InitialBackoff,
		PageSize:       s.cfg.Extract.PageSize,
	})
	extractor := extraction.New(client, extraction.Config{ReplyCap: s.cfg.Extract.ReplyCap})

	log.Printf("Extracting channel %s between %s and %s (token %s)",
		req.ChannelID, req.StartDate, req.EndDate, config.MaskToken(token))

	result, err := extractor.Run(r.Context(), extraction.Request{
		Channel:    req.ChannelID,
		Oldest:     oldest,
		Latest:     latest,
		MaxThreads: req.MaxThreads,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Run %s finished with status %s: %d threads, %d replies, %d fetch errors",
		result.Run.ID, result.Run.Status, result.Stats.Threads,
		result.Stats.Replies, len(result.Stats.FetchErrors))

	resp := ExtractResponse{
		Records: result.Records,
		Run:     result.Run,
		Stats:   result.Stats.Summary(),
		Errors:  result.Stats.ErrorStrings(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
