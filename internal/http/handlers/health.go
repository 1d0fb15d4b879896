package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status answers GET / and GET /api/transform-image for uptime probes.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

// TransformProbe answers HEAD /api/transform-image with an empty 200.
func (a *App) TransformProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
