// Package grpc exposes the standard gRPC health service (grpc.health.v1) so
// that orchestrators and service meshes can probe the summarizer.
package grpc

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	// ServiceSummaries is SERVING whenever the process can answer summary
	// requests. The extractive fallback has no dependencies, so it always is.
	ServiceSummaries = "summaries"

	// ServiceUpstream reflects whether any upstream summarizer can be called.
	ServiceUpstream = "upstream"

	// DefaultRefreshInterval is how often upstream status is re-evaluated.
	DefaultRefreshInterval = 10 * time.Second
)

// UpstreamProbe reports the state of the upstream summarizer chain.
type UpstreamProbe interface {
	Len() int
	Available() bool
}

// HealthServer serves grpc.health.v1.Health.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	upstream UpstreamProbe
	interval time.Duration
	logger   *slog.Logger

	mu           sync.Mutex
	lastUpstream healthpb.HealthCheckResponse_ServingStatus
}

// NewHealthServer creates a HealthServer. upstream may be nil when only the
// extractive summarizer is configured. A non-positive interval uses
// DefaultRefreshInterval.
func NewHealthServer(upstream UpstreamProbe, interval time.Duration, logger *slog.Logger) *HealthServer {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &HealthServer{
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		upstream: upstream,
		interval: interval,
		logger:   logger,
	}
	healthpb.RegisterHealthServer(s.server, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceSummaries, healthpb.HealthCheckResponse_SERVING)
	s.Refresh()
	return s
}

// Refresh re-evaluates the upstream status and logs transitions.
func (s *HealthServer) Refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if s.upstream != nil && s.upstream.Len() > 0 && s.upstream.Available() {
		status = healthpb.HealthCheckResponse_SERVING
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if status != s.lastUpstream {
		s.logger.Info("upstream health changed",
			slog.String("from", s.lastUpstream.String()),
			slog.String("to", status.String()))
		s.lastUpstream = status
	}
	s.health.SetServingStatus(ServiceUpstream, status)
}

// Run refreshes the upstream status every interval until ctx is cancelled.
func (s *HealthServer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}

// Serve accepts connections on lis until Shutdown is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Info("gRPC health server listening", slog.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

// Shutdown marks every service NOT_SERVING, so watchers see the drain, and
// then stops the server gracefully.
func (s *HealthServer) Shutdown() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
