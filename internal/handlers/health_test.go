package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/storefront/internal/handlers"
	"github.com/ammerola/storefront/test/helpers"
	"github.com/ammerola/storefront/test/mocks"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type fakeInspector struct {
	queues []string
	err    error
}

func (f fakeInspector) Queues() ([]string, error) { return f.queues, f.err }

func (f fakeInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return &asynq.QueueInfo{Queue: queue, Size: 2, Pending: 2}, nil
}

func TestHealthHandler_Health(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name          string
		backend       handlers.Pinger
		sessionErr    error
		inspector     handlers.QueueInspector
		wantStatus    int
		wantHealth    string
		wantUnhealthy string
	}{
		{
			name:       "all_healthy",
			backend:    ok,
			inspector:  fakeInspector{queues: []string{"default"}},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:          "backend_down",
			backend:       down,
			wantStatus:    http.StatusServiceUnavailable,
			wantHealth:    "degraded",
			wantUnhealthy: "backend",
		},
		{
			name:          "session_store_down",
			backend:       ok,
			sessionErr:    errors.New("redis down"),
			wantStatus:    http.StatusServiceUnavailable,
			wantHealth:    "degraded",
			wantUnhealthy: "sessions",
		},
		{
			name:          "asynq_down",
			backend:       ok,
			inspector:     fakeInspector{err: errors.New("no redis")},
			wantStatus:    http.StatusServiceUnavailable,
			wantHealth:    "degraded",
			wantUnhealthy: "asynq",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := gomock.NewController(t)
			sessions := mocks.NewMockSessionStore(mc)
			sessions.EXPECT().Ping(gomock.Any()).Return(tt.sessionErr)

			h := handlers.NewHealthHandler(tt.backend, sessions, tt.inspector, helpers.LoadTestConfig(), helpers.TestLogger())
			mux := http.NewServeMux()
			h.Register(mux)

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, w.Code)

			var status handlers.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.wantHealth, status.Status)
			assert.Equal(t, "test", status.Environment)
			if tt.wantUnhealthy != "" {
				assert.Equal(t, "unhealthy", status.Services[tt.wantUnhealthy].Status)
				assert.NotEmpty(t, status.Services[tt.wantUnhealthy].Message)
			}
			if tt.inspector == nil {
				assert.NotContains(t, status.Services, "asynq")
			}
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	mc := gomock.NewController(t)
	sessions := mocks.NewMockSessionStore(mc)
	sessions.EXPECT().Ping(gomock.Any()).Return(nil).Times(2)

	backendUp := true
	backend := pingFunc(func(context.Context) error {
		if backendUp {
			return nil
		}
		return errors.New("down")
	})

	h := handlers.NewHealthHandler(backend, sessions, nil, helpers.LoadTestConfig(), helpers.TestLogger())

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ready":true`)

	backendUp = false
	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"backend":"not ready"`)
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handlers.NewHealthHandler(pingFunc(func(context.Context) error { return nil }), nil, nil, helpers.LoadTestConfig(), helpers.TestLogger())

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}
