// Package api exposes the intent resolution engine over HTTP.
package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/steward-ai/steward/internal/aggregate"
	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/intent"
	"github.com/steward-ai/steward/internal/registry"
	"github.com/steward-ai/steward/internal/storage"
)

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Registry        *registry.Registry
	Mapper          *intent.Mapper
	Dispatcher      *dispatch.Dispatcher
	Aggregator      *aggregate.Aggregator
	Writer          storage.EventWriter
	Logger          *zap.Logger
	APIKeyHash      string // bcrypt hash; empty disables auth
	DefaultListPath string
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/message", deps.authMiddleware(deps.handleMessage))
	mux.HandleFunc("POST /v1/invoke", deps.authMiddleware(deps.handleInvoke))

	mux.HandleFunc("GET /v1/tools", deps.authMiddleware(deps.handleTools))
	mux.HandleFunc("GET /v1/providers", deps.authMiddleware(deps.handleProviders))

	mux.HandleFunc("GET /v1/files", deps.authMiddleware(deps.handleListFiles))
	mux.HandleFunc("GET /v1/files/read", deps.authMiddleware(deps.handleReadFile))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return corsMiddleware(requestLogging(mux, deps.Logger))
}
