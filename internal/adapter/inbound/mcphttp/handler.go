package mcphttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/usecase"
)

// Generator is the part of the generate use case the admin endpoints call.
type Generator interface {
	ListGroupings(ctx context.Context, source string) ([]string, error)
	Execute(ctx context.Context, source string, opts domain.GenerationOptions, sink usecase.OutputSink) ([]domain.GeneratedFile, error)
}

// Handlers struct holds dependencies for the HTTP handlers.
type Handlers struct {
	generator     Generator
	sink          usecase.OutputSink
	defaults      domain.GenerationOptions
	defaultSource string
	logger        *slog.Logger
}

// NewHandlers creates a new Handlers struct. Generated files go to sink.
func NewHandlers(
	generator Generator,
	sink usecase.OutputSink,
	defaults domain.GenerationOptions,
	defaultSource string,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		generator:     generator,
		sink:          sink,
		defaults:      defaults,
		defaultSource: defaultSource,
		logger:        logger.With("component", "mcphttp_handler"),
	}
}

// RegisterAdminRoutes sets up the HTTP routes for admin endpoints.
func (h *Handlers) RegisterAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/generate", h.handleGenerate)
	mux.HandleFunc("GET /admin/groupings", h.handleListGroupings)
}

// GenerateRequest defines the expected JSON body for the /admin/generate
// endpoint. Empty fields fall back to the configured values.
type GenerateRequest struct {
	Source    string   `json:"source"`
	Groupings []string `json:"groupings"`
}

// GenerateResponse lists the written files.
type GenerateResponse struct {
	Source string   `json:"source"`
	Files  []string `json:"files"`
}

// handleGenerate implements POST /admin/generate
func (h *Handlers) handleGenerate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode generate request body", slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = h.defaultSource
	}
	if req.Source == "" {
		h.logger.Warn("Generate request missing source field")
		http.Error(w, "Missing 'source' field in request body", http.StatusBadRequest)
		return
	}

	opts := h.defaults
	if len(req.Groupings) > 0 {
		opts.Groupings = req.Groupings
	}

	log := h.logger.With(slog.String("source", req.Source))
	log.Info("Received generate request", slog.Any("groupings", opts.Groupings))

	files, err := h.generator.Execute(r.Context(), req.Source, opts, h.sink)
	if err != nil {
		log.Error("Failed to generate modules", slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Failed to generate modules: %v", err), statusFor(err))
		return
	}

	resp := GenerateResponse{Source: req.Source, Files: make([]string, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, f.Path)
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("Generate request completed", slog.Int("files", len(files)))
}

// handleListGroupings implements GET /admin/groupings?source=...
func (h *Handlers) handleListGroupings(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = h.defaultSource
	}
	if source == "" {
		http.Error(w, "Missing 'source' query parameter", http.StatusBadRequest)
		return
	}

	groupings, err := h.generator.ListGroupings(r.Context(), source)
	if err != nil {
		h.logger.Error("Failed to list groupings", slog.String("source", source), slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Failed to list groupings: %v", err), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"source": source, "groupings": groupings})
}

// statusFor maps configuration errors, which the caller can fix in the
// document or request, to 422.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrConfiguration) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
