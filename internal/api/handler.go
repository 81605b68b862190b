package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/event"
	"github.com/driftwatch/driftwatch/internal/fingerprint"
	"github.com/driftwatch/driftwatch/internal/metrics"
	"github.com/driftwatch/driftwatch/internal/store"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	store  *store.Store
	drift  *drift.Scorer
	fp     *fingerprint.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes. loader may be nil
// when no config file backs the process (reload then returns 503).
func New(st *store.Store, ds *drift.Scorer, fp *fingerprint.Engine, loader *config.Loader) http.Handler {
	h := &Handler{store: st, drift: ds, fp: fp, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /{$}", h.root)
	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("POST /ingest", h.ingest)
	h.mux.HandleFunc("GET /profiles", h.profiles)
	h.mux.HandleFunc("GET /timeline/{user}", h.timeline)
	h.mux.HandleFunc("GET /drift/{user}", h.driftScore)
	h.mux.HandleFunc("GET /fingerprint/{user}", h.fingerprintProfile)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(h.mux))
}

// POST /ingest — append one event to the caller's history.
func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if ev.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if ev.Kind == "" {
		writeError(w, http.StatusBadRequest, "kind is required")
		return
	}
	if ev.Meta == nil {
		ev.Meta = map[string]any{}
	}

	h.store.Append(ev)
	metrics.EventsIngested.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"stored": true,
	})
}

// GET /profiles — every known user with its event count.
func (h *Handler) profiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"profiles": h.store.Counts(),
	})
}

// GET /timeline/{user} — the user's full event history in insertion order.
func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	events, ok := h.store.Events(r.PathValue("user"))
	if !ok {
		writeUserNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"events": events,
	})
}

// GET /drift/{user} — risk of the latest transition.
func (h *Handler) driftScore(w http.ResponseWriter, r *http.Request) {
	events, ok := h.store.Events(r.PathValue("user"))
	if !ok {
		writeUserNotFound(w)
		return
	}
	res := h.drift.Score(events)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"risk":    res.Risk,
		"score":   res.Score,
		"reasons": res.Reasons,
	})
}

// GET /fingerprint/{user} — device signature and stability.
func (h *Handler) fingerprintProfile(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	events, ok := h.store.Events(user)
	if !ok {
		writeUserNotFound(w)
		return
	}
	p := h.fp.Profile(user, events)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"user_id":     p.UserID,
		"fingerprint": p.Fingerprint,
		"tokens":      p.Tokens,
		"stability":   p.Stability,
		"history":     p.History,
	})
}

// POST /v1/config/reload — force a config re-read without waiting for the
// file watcher.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusServiceUnavailable, "no config file loaded")
		return
	}
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded": true,
		"scoring":  cfg.Scoring,
	})
}

// GET / — banner for humans poking the port.
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Engine Running"))
}

// GET /health — liveness probe.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}
