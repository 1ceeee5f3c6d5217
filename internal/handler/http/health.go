// Package http provides HTTP handlers and middleware for the summarization API.
// It includes health check endpoints, metrics collection, request logging,
// panic recovery, per-IP rate limiting, input validation and timeouts.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
	statusDisabled = "disabled"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "degraded"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy", "degraded" or "disabled"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// UpstreamHealth reports the state of the upstream summarizer chain.
type UpstreamHealth interface {
	Name() string
	Len() int
	Health() map[string]string
	Available() bool
}

// CacheStats reports the size of the summary cache.
type CacheStats interface {
	Len() int
}

// HealthHandler handles health check endpoint requests.
// The extractive fallback needs no external dependency, so the service can
// always answer; an unavailable upstream only makes it "degraded".
type HealthHandler struct {
	Version     string
	Upstream    UpstreamHealth // optional
	Cache       CacheStats     // optional
	RateLimiter *RateLimiter   // optional
}

// ServeHTTP reports the application health status. It always answers 200 OK.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{
		"extractive": {Status: statusHealthy},
	}
	status := statusHealthy

	upstream := h.checkUpstream()
	checks["upstream"] = upstream
	if upstream.Status == statusDegraded {
		status = statusDegraded
	}

	if h.Cache != nil {
		checks["cache"] = CheckStatus{
			Status:  statusHealthy,
			Details: map[string]any{"entries": h.Cache.Len()},
		}
	}

	if h.RateLimiter != nil {
		checks["rate_limiter"] = CheckStatus{
			Status:  statusHealthy,
			Details: map[string]any{"active_keys": h.RateLimiter.ActiveKeys()},
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// checkUpstream reports the provider chain and each provider's circuit state.
func (h *HealthHandler) checkUpstream() CheckStatus {
	if h.Upstream == nil || h.Upstream.Len() == 0 {
		return CheckStatus{Status: statusDisabled, Message: "extractive only"}
	}

	details := map[string]any{
		"chain":     h.Upstream.Name(),
		"providers": h.Upstream.Health(),
	}
	if !h.Upstream.Available() {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "all upstream circuits open, serving extractive summaries",
			Details: details,
		}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

// ReadyHandler handles Kubernetes readiness probe requests.
// The server reports ready once startup completes and stops being ready
// when shutdown begins, so load balancers drain it first.
type ReadyHandler struct {
	ready atomic.Bool
}

// SetReady marks the server as ready or not ready.
func (h *ReadyHandler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// ServeHTTP returns 200 OK if ready, or 503 Service Unavailable otherwise.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		slog.Default().Error("ready: failed to write response", slog.Any("error", err))
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK if the application is able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Error("alive: failed to write response", slog.Any("error", err))
	}
}
