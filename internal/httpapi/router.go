package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/twweather/taiwan-weather-mcp/internal/observability"
)

// NewRouter mounts the SSE transport alongside the operational endpoints.
// The MCP endpoints (/sse for the event stream, /message for client posts)
// are served by the given handler; /health and /metrics are plain HTTP.
func NewRouter(sse http.Handler, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(CorrelationIDMiddleware(logger))
	r.Use(MetricsMiddleware)

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)
	r.PathPrefix("/sse").Handler(sse)
	r.PathPrefix("/message").Handler(sse)

	return r
}

// HealthHandler reports liveness. The server holds no state and opens no
// connections at rest, so healthy means the process is serving.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
