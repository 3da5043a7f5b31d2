package api

import (
	"net/http"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/registry"
)

// handleListFiles implements GET /v1/files?path=. Without a path the
// configured default root is listed.
func (d *Dependencies) handleListFiles(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = d.DefaultListPath
	}
	if path == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "path is required"})
		return
	}

	res := d.Dispatcher.Dispatch(r.Context(), dispatch.Invocation{
		Provider:  registry.ProviderFilesystem,
		Operation: registry.OpListDirectory,
		Params:    map[string]any{"path": path},
	})
	writeJSON(w, statusForKind(res), res)
}

// handleReadFile implements GET /v1/files/read?path=.
func (d *Dependencies) handleReadFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "path is required"})
		return
	}

	res := d.Dispatcher.Dispatch(r.Context(), dispatch.Invocation{
		Provider:  registry.ProviderFilesystem,
		Operation: registry.OpReadFile,
		Params:    map[string]any{"path": path},
	})
	writeJSON(w, statusForKind(res), res)
}
