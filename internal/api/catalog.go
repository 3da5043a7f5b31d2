package api

import "net/http"

// handleTools implements GET /v1/tools: the operations of every enabled
// provider, keyed by provider id.
func (d *Dependencies) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": d.Registry.Catalog()})
}

// handleProviders implements GET /v1/providers: every registered provider,
// disabled ones included, without parameter detail.
func (d *Dependencies) handleProviders(w http.ResponseWriter, _ *http.Request) {
	providers := d.Registry.Providers()
	out := make([]ProviderResp, 0, len(providers))
	for _, p := range providers {
		names := make([]string, 0, len(p.Operations))
		for _, op := range p.Operations {
			names = append(names, op.Name)
		}
		out = append(out, ProviderResp{
			ID:               p.ID,
			Disabled:         p.Disabled,
			DefaultOperation: p.DefaultOperation,
			Operations:       names,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": out})
}
