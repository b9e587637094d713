// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Check names a dependency probed by readiness. A nil Checker is skipped.
type Check struct {
	Name    string
	Checker Checker
}

type Handler struct {
	checks   []Check
	ready    atomic.Bool
	shutdown atomic.Bool
	now      func() time.Time
}

func NewHandler(checks ...Check) *Handler {
	h := &Handler{now: time.Now}
	for _, c := range checks {
		if c.Checker != nil {
			h.checks = append(h.checks, c)
		}
	}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Liveness)
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// Liveness reports that the process is serving. It never touches a store.
func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, h.status("shutting_down"))
		return
	}
	h.writeStatus(w, http.StatusOK, h.status("ok"))
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.shutdown.Load():
		h.writeStatus(w, http.StatusServiceUnavailable, h.status("shutting_down"))
		return
	case !h.ready.Load():
		h.writeStatus(w, http.StatusServiceUnavailable, h.status("not_ready"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := h.probeAll(ctx)

	resp := ReadinessResponse{StatusResponse: h.status("ok"), Checks: checks}
	code := http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	h.writeStatus(w, code, resp)
}

// probeAll pings every dependency concurrently. A failing probe is reported,
// not propagated, so every check always gets a result.
func (h *Handler) probeAll(ctx context.Context) []HealthCheck {
	results := make([]HealthCheck, len(h.checks))

	var g errgroup.Group
	for i, c := range h.checks {
		g.Go(func() error {
			results[i] = probe(ctx, c)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes never return errors

	return results
}

func probe(ctx context.Context, c Check) HealthCheck {
	start := time.Now()
	err := c.Checker.Ping(ctx)

	check := HealthCheck{
		Name:    c.Name,
		Healthy: err == nil,
		Latency: time.Since(start).String(),
	}
	if err != nil {
		check.Message = "ping failed"
		slog.WarnContext(ctx, "readiness probe failed",
			"check", c.Name,
			"error", err,
		)
	}
	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) status(s string) StatusResponse {
	return StatusResponse{
		Status:    s,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ReadinessResponse struct {
	StatusResponse
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
