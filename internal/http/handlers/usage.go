package handlers

import (
	"net/http"
)

// UsageReset zeroes the usage counters and reports the state before the reset.
func (a *App) UsageReset(w http.ResponseWriter, r *http.Request) {
	before := a.Usage.Snapshot()
	a.Usage.Reset()

	a.Logger.Info().
		Int64("requests", before.TotalRequests).
		Int64("tokens", before.TotalTokens).
		Int64("images", before.TotalImages).
		Msg("usage counters reset")

	a.json(w, http.StatusOK, map[string]any{
		"status": "reset",
		"before": before,
		"usage":  a.Usage.Snapshot(),
	})
}

// CacheClear drops every cached generation result.
func (a *App) CacheClear(w http.ResponseWriter, r *http.Request) {
	a.Cache.Clear(r.Context())
	a.json(w, http.StatusOK, map[string]string{"status": "cleared"})
}
