package router

import (
	"net/http"
	"time"

	"contentlib/config"
	handler "contentlib/internal/content"
	"contentlib/middleware"
	"contentlib/socket"
	"contentlib/web"

	"github.com/gorilla/mux"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Deps struct {
	Schema    *graphql.Schema
	Pages     *web.Pages
	Hub       *socket.Hub // nil disables /ws
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Gatherer  prometheus.Gatherer
}

func Setup(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	// mux skips middleware for unmatched requests
	r.NotFoundHandler = middleware.LoggingMiddleware(http.NotFoundHandler())
	r.MethodNotAllowedHandler = middleware.LoggingMiddleware(http.HandlerFunc(methodNotAllowed))

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// GraphQL API
	api := r.PathPrefix("/api").Subrouter()
	if d.RateLimit.Enabled {
		window := time.Duration(d.RateLimit.WindowSeconds) * time.Second
		api.Use(middleware.RedisRateLimitMiddleware(d.Redis, d.RateLimit.RPS, d.RateLimit.Burst, window))
	}
	api.Handle("/graphql", handler.NewGraphQLHandler(d.Schema)).Methods(http.MethodGet, http.MethodPost)

	// Change feed
	if d.Hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
			socket.ServeWs(d.Hub, w, req)
		}).Methods(http.MethodGet)
	}

	// Web pages
	if d.Pages != nil {
		d.Pages.Register(r)
	}

	return middleware.CORSMiddleware(r)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "contentlib"}`))
}
