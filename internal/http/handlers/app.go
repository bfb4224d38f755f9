package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/cache"
	"server/internal/infra"
	"server/internal/usage"
)

// App carries the dependencies shared by the HTTP handlers.
type App struct {
	Config *infra.Config
	Logger infra.Logger
	Cache  cache.Store
	Usage  usage.Tracker
}

func NewApp(cfg *infra.Config, logger infra.Logger, store cache.Store, tracker usage.Tracker) *App {
	return &App{Config: cfg, Logger: logger, Cache: store, Usage: tracker}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusNotFound, "not_found", "resource not found")
}

func (a *App) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}
