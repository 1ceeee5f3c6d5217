package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakeProbe struct {
	providers int
	available atomic.Bool
}

func (f *fakeProbe) Len() int        { return f.providers }
func (f *fakeProbe) Available() bool { return f.available.Load() }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startServer serves s over an in-memory listener and returns a health client.
func startServer(t *testing.T, s *HealthServer) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Shutdown)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

/* ───────── Check ───────── */

func TestHealthServer_Check(t *testing.T) {
	tests := []struct {
		name         string
		probe        UpstreamProbe
		wantUpstream healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			name:         "extractive only",
			probe:        nil,
			wantUpstream: healthpb.HealthCheckResponse_NOT_SERVING,
		},
		{
			name:         "empty chain",
			probe:        &fakeProbe{},
			wantUpstream: healthpb.HealthCheckResponse_NOT_SERVING,
		},
		{
			name: "upstream available",
			probe: func() UpstreamProbe {
				p := &fakeProbe{providers: 2}
				p.available.Store(true)
				return p
			}(),
			wantUpstream: healthpb.HealthCheckResponse_SERVING,
		},
		{
			name:         "all circuits open",
			probe:        &fakeProbe{providers: 1},
			wantUpstream: healthpb.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := startServer(t, NewHealthServer(tt.probe, time.Hour, quietLogger()))

			assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
			assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ServiceSummaries))
			assert.Equal(t, tt.wantUpstream, check(t, client, ServiceUpstream))
		})
	}
}

func TestHealthServer_UnknownService(t *testing.T) {
	client := startServer(t, NewHealthServer(nil, time.Hour, quietLogger()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown"})

	require.Error(t, err)
}

/* ───────── Refresh ───────── */

func TestHealthServer_RefreshTracksUpstream(t *testing.T) {
	probe := &fakeProbe{providers: 1}
	probe.available.Store(true)
	s := NewHealthServer(probe, time.Hour, quietLogger())
	client := startServer(t, s)

	require.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ServiceUpstream))

	probe.available.Store(false)
	s.Refresh()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ServiceUpstream))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ServiceSummaries))

	probe.available.Store(true)
	s.Refresh()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ServiceUpstream))
}

func TestHealthServer_RunRefreshesPeriodically(t *testing.T) {
	probe := &fakeProbe{providers: 1}
	s := NewHealthServer(probe, 10*time.Millisecond, quietLogger())
	client := startServer(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	probe.available.Store(true)
	assert.Eventually(t, func() bool {
		return check(t, client, ServiceUpstream) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewHealthServer_DefaultInterval(t *testing.T) {
	s := NewHealthServer(nil, 0, nil)

	assert.Equal(t, DefaultRefreshInterval, s.interval)
}
