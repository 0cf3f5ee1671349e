package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const statsSchema = `
CREATE TABLE IF NOT EXISTS stats_component (
    component     TEXT PRIMARY KEY,
    total_renders INTEGER NOT NULL DEFAULT 1,
    total_bytes   INTEGER NOT NULL DEFAULT 0,
    total_errors  INTEGER NOT NULL DEFAULT 0,
    first_seen    DATETIME NOT NULL,
    last_seen     DATETIME NOT NULL
);
`

// ComponentStats is the usage record of one component.
type ComponentStats struct {
	Component    string    `json:"component"`
	TotalRenders int64     `json:"total_renders"`
	TotalBytes   int64     `json:"total_bytes"`
	TotalErrors  int64     `json:"total_errors"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
}

// GlobalStatsSummary provides a high-level overview of all collected stats.
type GlobalStatsSummary struct {
	TotalRenders     int64 `json:"total_renders"`
	TotalBytes       int64 `json:"total_bytes"`
	TotalErrors      int64 `json:"total_errors"`
	UniqueComponents int64 `json:"unique_components"`
}

// StatsAPI holds the dependencies for the statistics handlers.
type StatsAPI struct {
	db     *sql.DB
	config *ConfigManager
	logger *slog.Logger
}

func setupStatsSchema(db *sql.DB) error {
	_, err := db.Exec(statsSchema)
	return err
}

func NewStatsAPI(db *sql.DB, config *ConfigManager, logger *slog.Logger) *StatsAPI {
	return &StatsAPI{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (s *StatsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats/summary", s.handleSummary)
	mux.HandleFunc("/api/stats/components", s.handleComponents)
}

// RecordRender counts one render of component. A failed render counts as an
// error and adds no bytes. Nothing is written when stats are disabled.
func (s *StatsAPI) RecordRender(ctx context.Context, component string, size int, renderErr error) error {
	if !s.config.Get().Server.StatsConfig.Enabled {
		return nil
	}

	renders, errs := 1, 0
	if renderErr != nil {
		renders, errs, size = 0, 1, 0
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO stats_component (component, total_renders, total_bytes, total_errors, first_seen, last_seen)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(component) DO UPDATE SET
            total_renders = total_renders + excluded.total_renders,
            total_bytes   = total_bytes + excluded.total_bytes,
            total_errors  = total_errors + excluded.total_errors,
            last_seen     = excluded.last_seen
    `, component, renders, size, errs, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert stats_component: %w", err)
	}
	return nil
}

// Summary aggregates the counters of every component.
func (s *StatsAPI) Summary(ctx context.Context) (GlobalStatsSummary, error) {
	var summary GlobalStatsSummary
	err := s.db.QueryRowContext(ctx, `
        SELECT COALESCE(SUM(total_renders), 0), COALESCE(SUM(total_bytes), 0),
               COALESCE(SUM(total_errors), 0), COUNT(*)
        FROM stats_component
    `).Scan(&summary.TotalRenders, &summary.TotalBytes, &summary.TotalErrors, &summary.UniqueComponents)
	if err != nil {
		return summary, fmt.Errorf("failed to query stats summary: %w", err)
	}
	return summary, nil
}

// TopComponents returns up to limit components ordered by render count.
func (s *StatsAPI) TopComponents(ctx context.Context, limit int) ([]ComponentStats, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT component, total_renders, total_bytes, total_errors, first_seen, last_seen
        FROM stats_component ORDER BY total_renders DESC, component LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query component stats: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	results := []ComponentStats{}
	for rows.Next() {
		var cs ComponentStats
		if err = rows.Scan(&cs.Component, &cs.TotalRenders, &cs.TotalBytes, &cs.TotalErrors, &cs.FirstSeen, &cs.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan component stats: %w", err)
		}
		results = append(results, cs)
	}
	return results, rows.Err()
}

func (s *StatsAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, scopeStatsRead) {
		return
	}
	summary, err := s.Summary(r.Context())
	if err != nil {
		s.logger.Error("Failed to query stats summary", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (s *StatsAPI) handleComponents(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, scopeStatsRead) {
		return
	}
	results, err := s.TopComponents(r.Context(), s.config.Get().Server.StatsConfig.TopLimit)
	if err != nil {
		s.logger.Error("Failed to query component stats", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}
