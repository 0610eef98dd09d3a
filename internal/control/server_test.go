package control

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/daemon"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/monitoring"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
	"github.com/eliteGoblin/focusd/smartfreeze/test/fixtures"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubController struct {
	status  domain.DaemonStatus
	enabled bool
	err     error
}

func (s *stubController) Status(ctx context.Context) (domain.DaemonStatus, error) {
	return s.status, s.err
}

func (s *stubController) ToggleEnabled(ctx context.Context) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.enabled = !s.enabled
	return s.enabled, nil
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Status(t *testing.T) {
	ctrl := &stubController{status: domain.DaemonStatus{
		State:        domain.StateGameActive,
		Enabled:      true,
		GameDetected: true,
		FrozenPIDs:   []int{10, 11},
	}}
	s := NewServer(ctrl, nil, nil, zap.NewNop())

	w := do(t, s.Handler(), http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.DaemonStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, ctrl.status, got)
}

func TestServer_Toggle(t *testing.T) {
	ctrl := &stubController{enabled: true}
	s := NewServer(ctrl, nil, nil, zap.NewNop())

	w := do(t, s.Handler(), http.MethodPost, "/toggle")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enabled":false}`, w.Body.String())

	w = do(t, s.Handler(), http.MethodGet, "/toggle")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Quit(t *testing.T) {
	var called atomic.Bool
	s := NewServer(&stubController{}, func() { called.Store(true) }, nil, zap.NewNop())

	w := do(t, s.Handler(), http.MethodPost, "/quit")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, called.Load())
}

func TestServer_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not running", daemon.ErrNotRunning, http.StatusServiceUnavailable},
		{"canceled", context.Canceled, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&stubController{err: tt.err}, nil, nil, zap.NewNop())
			w := do(t, s.Handler(), http.MethodGet, "/status")
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	m := monitoring.NewMetrics()
	s := NewServer(&stubController{}, nil, m, zap.NewNop())

	do(t, s.Handler(), http.MethodGet, "/status")
	w := do(t, s.Handler(), http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "smartfreeze_http_requests_total")
}

func TestServer_NoMetricsRouteWithoutMetrics(t *testing.T) {
	s := NewServer(&stubController{}, nil, nil, zap.NewNop())
	w := do(t, s.Handler(), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClient_AgainstRunningDaemon(t *testing.T) {
	port := fixtures.NewFakePort(1)
	engine := usecase.NewEngine(port, domain.DefaultSelectionConfig(), zap.NewNop())
	cfg := daemon.DefaultConfig()
	cfg.PollInterval = time.Hour
	d := daemon.New(cfg, engine, fixtures.NewMemoryStateStore(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx) }()

	srv := httptest.NewServer(NewServer(d, cancel, nil, zap.NewNop()).Handler())
	defer srv.Close()

	client := NewClient(strings.TrimPrefix(srv.URL, "http://"))

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, domain.StateIdle, status.State)

	enabled, err := client.ToggleEnabled(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)

	status, err = client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateDisabled, status.State)

	require.NoError(t, client.Quit(context.Background()))
	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after quit")
	}

	_, err = client.Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	_, err := NewClient(addr).Status(context.Background())
	assert.ErrorIs(t, err, ErrDaemonUnreachable)
}
