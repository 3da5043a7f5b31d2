package registry

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// OverlayDoc is the external provider configuration document. A non-empty
// provider map replaces the compiled-in default set wholesale; an empty or
// missing document leaves the defaults untouched. Fields are never merged
// entry by entry with the defaults.
type OverlayDoc struct {
	Providers map[string]OverlayEntry `json:"providers"`
}

// OverlayEntry configures one provider in the overlay.
type OverlayEntry struct {
	Disabled bool `json:"disabled"`
}

// LoadOverlayFile reads an overlay document from path. A missing file is not
// an error; it yields a nil document.
func LoadOverlayFile(path string, logger *zap.Logger) (*OverlayDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("provider overlay file not found, keeping defaults",
				zap.String("path", path),
			)
			return nil, nil
		}
		return nil, err
	}
	var doc OverlayDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Apply resolves the effective provider set for the given overlay. When the
// overlay names at least one provider, the result contains exactly those
// ids: ids matching a compiled-in provider keep its operations and default
// operation, unknown ids carry no operations and fail at dispatch. An empty
// or nil overlay returns the defaults unchanged.
func Apply(doc *OverlayDoc, logger *zap.Logger) []Provider {
	defaults := Defaults()
	if doc == nil || len(doc.Providers) == 0 {
		if doc != nil {
			logger.Warn("provider overlay present but empty, keeping built-in defaults")
		}
		return defaults
	}

	byID := make(map[string]Provider, len(defaults))
	for _, p := range defaults {
		byID[p.ID] = p
	}

	// Defaults first, in their canonical order, then unknown overlay ids.
	out := make([]Provider, 0, len(doc.Providers))
	seen := make(map[string]bool, len(doc.Providers))
	for _, def := range defaults {
		entry, ok := doc.Providers[def.ID]
		if !ok {
			continue
		}
		def.Disabled = entry.Disabled
		out = append(out, def)
		seen[def.ID] = true
	}
	for id, entry := range doc.Providers {
		if seen[id] {
			continue
		}
		logger.Warn("overlay names a provider with no built-in operations",
			zap.String("provider", id),
		)
		out = append(out, Provider{ID: id, Disabled: entry.Disabled})
	}

	logger.Info("provider overlay applied", zap.Int("providers", len(out)))
	return out
}
