package main

import (
	"database/sql"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/CTAG07/docmarkup/pkg/components"
	"github.com/CTAG07/docmarkup/pkg/templating"
)

type Server struct {
	config       *ConfigManager
	db           *sql.DB
	logger       *slog.Logger
	tm           *templating.TemplateManager
	authAPI      *AuthAPI
	componentAPI *ComponentAPI
	templateAPI  *TemplateAPI
	statsAPI     *StatsAPI
	serverAPI    *ServerAPI
	mux          *http.ServeMux
}

// GalleryData is the data the gallery page is rendered with.
type GalleryData struct {
	Version    VersionInfo
	Statuses   []components.Status
	AlertTypes []components.AlertType
	Features   []components.FeatureItem
}

var galleryTemplate = template.Must(template.New("gallery").Funcs(components.FuncMap()).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>docmarkup {{.Version.Version}}</title></head>
<body>
<h1>docmarkup components</h1>
{{alertBox "info" "Gallery" "Every component rendered with sample props."}}
<h2>infoCard</h2>
{{infoCard "Fast" "Renders in microseconds" "⚡"}}
{{infoCard "Safe" "Escapes all props" "🔒" "rgb(37, 99, 235)"}}
<h2>featureGrid</h2>
{{featureGrid .Features 2}}
<h2>statusBadge</h2>
{{range .Statuses}}{{statusBadge .}} {{end}}
<h2>codeBlock</h2>
{{codeBlock "bash" "curl -X POST localhost:7280/api/components/statusBadge -d '{\"status\":\"RUNNING\"}'" "Render over HTTP"}}
<h2>alertBox</h2>
{{range .AlertTypes}}{{alertBox . (print .) "Sample message."}}{{end}}
</body>
</html>
`))

func NewServer(config *ConfigManager, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {
	cfg := config.Get()

	tm, err := templating.NewTemplateManager(logger, cfg.Templates, cfg.Server.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}
	config.SetTemplateManager(tm)
	config.SetLogger(logger)

	statsAPI := NewStatsAPI(db, config, logger)

	server := &Server{
		config:       config,
		db:           db,
		logger:       logger,
		tm:           tm,
		authAPI:      NewAuthAPI(db, logger),
		componentAPI: NewComponentAPI(config, statsAPI, logger),
		templateAPI:  NewTemplateAPI(tm, logger),
		statsAPI:     statsAPI,
		serverAPI:    NewServerAPI(config, actionChan, logger),
		mux:          http.NewServeMux(),
	}

	apiMux := http.NewServeMux()

	server.authAPI.RegisterRoutes(apiMux)
	server.componentAPI.RegisterRoutes(apiMux)
	server.templateAPI.RegisterRoutes(apiMux)
	server.statsAPI.RegisterRoutes(apiMux)
	server.serverAPI.RegisterRoutes(apiMux)

	// Make sure api functions must pass through authentication first
	authedAPI := server.authAPI.Authenticate(apiMux)
	// ... except for the health check, which is unauthed so something like docker can use it
	server.mux.HandleFunc("/api/health", server.serverAPI.handleHealthCheck)
	server.mux.Handle("/api/", authedAPI)
	server.mux.HandleFunc("/", server.handleGallery)

	return server, nil
}

// Handler returns the root handler with the configured response headers applied.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range s.config.Get().Server.Headers {
			w.Header().Set(k, v)
		}
		s.mux.ServeHTTP(w, r)
	})
}

// handleGallery renders every component with sample props.
func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	// Simple check to avoid serving the gallery for non-root paths like /favicon.ico
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := GalleryData{
		Version:    currentVersion(),
		Statuses:   components.Statuses(),
		AlertTypes: components.AlertTypes(),
		Features: []components.FeatureItem{
			{Title: "Cards", Description: "Callouts with an icon", Icon: "🃏"},
			{Title: "Badges", Description: "Colored by status", Icon: "🏷️", Color: "#ea580c"},
			{Title: "Code", Description: "Escaped and labeled", Icon: "💻"},
			{Title: "Alerts", Description: "Four severities", Icon: "🚨", Color: "#dc2626"},
		},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := galleryTemplate.Execute(w, data); err != nil {
		s.logger.Error("Failed to render gallery", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
