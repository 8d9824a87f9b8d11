package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	method string
	route  string
	status int
}

type recordingMetrics struct {
	mu   sync.Mutex
	seen []observed
}

func (m *recordingMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, observed{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	metrics := &recordingMetrics{}

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(metrics))
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	api.HandleFunc("/settings", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}).Methods(http.MethodGet)

	for _, path := range []string{"/api/v1/bookings/12", "/api/v1/bookings/13", "/api/v1/settings"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, metrics.seen, 3)
	assert.Equal(t, observed{method: "GET", route: "/api/v1/bookings/{bookingId:[0-9]+}", status: http.StatusNotFound}, metrics.seen[0])
	assert.Equal(t, metrics.seen[0], metrics.seen[1])
	assert.Equal(t, observed{method: "GET", route: "/api/v1/settings", status: http.StatusOK}, metrics.seen[2])
}

func TestMetricsMiddleware_KeepsFlusher(t *testing.T) {
	metrics := &recordingMetrics{}

	var flushed bool
	h := MetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data: 1\n\n"))
		flushed = http.NewResponseController(w).Flush() == nil
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.True(t, flushed)
	assert.True(t, rec.Flushed)
	require.Len(t, metrics.seen, 1)
	assert.Equal(t, "unmatched", metrics.seen[0].route)
}
