package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"api_configured": a.Config.APIConfigured(),
		"cache_entries":  a.Cache.Len(r.Context()),
		"usage":          a.Usage.Snapshot(),
		"config": map[string]bool{
			"image_generation_enabled": a.Config.EnableImageGeneration,
			"caching_enabled":          a.Config.EnableCaching,
		},
	})
}
