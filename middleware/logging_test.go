package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"contentlib/pkg/logger"
	"contentlib/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	var seenID string
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)
	r.HandleFunc("/content/{id}", func(w http.ResponseWriter, req *http.Request) {
		seenID = RequestID(req.Context())
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/content/{id}", "404"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/content/12", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/content/{id}", "404")))

	entries := logs.FilterMessage("Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/content/12", fields["path"])
	assert.Equal(t, int64(404), fields["status"])
}

func TestLoggingMiddlewareKeepsIncomingRequestID(t *testing.T) {
	h := LoggingMiddleware(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/graphql", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}
