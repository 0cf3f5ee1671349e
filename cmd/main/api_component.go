package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/CTAG07/docmarkup/pkg/components"
)

// ComponentAPI holds the dependencies for the component rendering handlers.
type ComponentAPI struct {
	config *ConfigManager
	stats  *StatsAPI
	logger *slog.Logger
}

// ComponentCatalog describes every component and the style tables they use.
type ComponentCatalog struct {
	Components    []string                                       `json:"components"`
	StatusColors  map[components.Status]string                   `json:"status_colors"`
	DefaultStatus string                                         `json:"default_status_color"`
	AlertStyles   map[components.AlertType]components.AlertStyle `json:"alert_styles"`
}

// RenderResponse is returned by the render endpoint when JSON output is requested.
type RenderResponse struct {
	Component string `json:"component"`
	HTML      string `json:"html"`
}

func NewComponentAPI(config *ConfigManager, stats *StatsAPI, logger *slog.Logger) *ComponentAPI {
	return &ComponentAPI{
		config: config,
		stats:  stats,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api/components endpoints.
func (c *ComponentAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/components", c.handleList)
	mux.HandleFunc("/api/components/", c.handleRender)
}

func newComponentCatalog() ComponentCatalog {
	catalog := ComponentCatalog{
		Components:    components.Names(),
		StatusColors:  make(map[components.Status]string),
		DefaultStatus: components.DefaultStatusColor,
		AlertStyles:   make(map[components.AlertType]components.AlertStyle),
	}
	for _, s := range components.Statuses() {
		catalog.StatusColors[s] = components.StatusColor(s)
	}
	for _, t := range components.AlertTypes() {
		catalog.AlertStyles[t] = components.AlertStyleFor(t)
	}
	return catalog
}

func (c *ComponentAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, newComponentCatalog())
}

// handleRender renders one component from the props in the request body.
// The body is JSON unless the Content-Type names YAML. With ?format=json the
// fragment is wrapped in a RenderResponse.
func (c *ComponentAPI) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !requireScope(w, r, scopeComponentsRender) {
		return
	}

	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/components/"), "/")
	if name == "" {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.config.Get().Server.MaxPropsBytes)
	props, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Props exceed %d bytes", maxErr.Limit))
			return
		}
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	out, err := components.Render(name, props, decoderFor(mediaType))
	if errors.Is(err, components.ErrUnknownComponent) {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Component '%s' not found", name))
		return
	}
	if statErr := c.stats.RecordRender(r.Context(), name, len(out), err); statErr != nil {
		c.logger.Warn("Failed to record render", "component", name, "error", statErr)
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.logger.Debug("Rendered component", "component", name, "bytes", len(out))
	if r.URL.Query().Get("format") == "json" {
		respondWithJSON(w, http.StatusOK, RenderResponse{Component: name, HTML: string(out)})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, string(out))
}
