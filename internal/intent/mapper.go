package intent

import (
	"sort"
	"strings"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/registry"
	"go.uber.org/zap"
)

// providerSynonyms normalizes provider identifiers from natural language or
// structured payloads to canonical registry ids.
var providerSynonyms = map[string]string{
	"filesystem": registry.ProviderFilesystem,
	"file":       registry.ProviderFilesystem,
	"fs":         registry.ProviderFilesystem,
	"web_search": registry.ProviderWebSearch,
	"web":        registry.ProviderWebSearch,
	"internet":   registry.ProviderWebSearch,
	"search":     registry.ProviderWebSearch,
	"deepwiki":   registry.ProviderDeepWiki,
	"wiki":       registry.ProviderDeepWiki,
	"n8n":        registry.ProviderWorkflow,
	"n8n-mcp":    registry.ProviderWorkflow,
	"workflow":   registry.ProviderWorkflow,
	"memory":     registry.ProviderMemory,
	"mem":        registry.ProviderMemory,
	"remember":   registry.ProviderMemory,
}

// actionSynonyms maps action words to operation names within a provider. An
// action missing from its provider's table falls back to the provider's
// default operation.
var actionSynonyms = map[string]map[string]string{
	registry.ProviderFilesystem: {
		"list": registry.OpListDirectory, "ls": registry.OpListDirectory,
		"dir": registry.OpListDirectory, "list_directory": registry.OpListDirectory,
		"read": registry.OpReadFile, "open": registry.OpReadFile,
		"cat": registry.OpReadFile, "read_file": registry.OpReadFile,
		"search": registry.OpSearchFiles, "find": registry.OpSearchFiles,
		"search_files": registry.OpSearchFiles,
	},
	registry.ProviderWebSearch: {
		"search": registry.OpSearchWeb, "search_web": registry.OpSearchWeb,
	},
	registry.ProviderDeepWiki: {
		"search": registry.OpSearchWiki, "wiki": registry.OpSearchWiki,
		"search_wiki": registry.OpSearchWiki,
	},
	registry.ProviderWorkflow: {
		"list": registry.OpListWorkflows, "list_workflows": registry.OpListWorkflows,
		"create": registry.OpCreateWorkflow, "create_workflow": registry.OpCreateWorkflow,
	},
	registry.ProviderMemory: {
		"store": registry.OpStoreMemory, "save": registry.OpStoreMemory,
		"remember": registry.OpStoreMemory, "store_memory": registry.OpStoreMemory,
		"retrieve": registry.OpRetrieveMemory, "recall": registry.OpRetrieveMemory,
		"get": registry.OpRetrieveMemory, "retrieve_memory": registry.OpRetrieveMemory,
	},
}

// actionOnlyTargets resolves action words to a full (provider, operation)
// pair when the payload names no provider at all.
var actionOnlyTargets = map[string]dispatch.Invocation{
	"fs_search":      {Provider: registry.ProviderFilesystem, Operation: registry.OpSearchFiles},
	"search":         {Provider: registry.ProviderFilesystem, Operation: registry.OpSearchFiles},
	"find":           {Provider: registry.ProviderFilesystem, Operation: registry.OpSearchFiles},
	"search_files":   {Provider: registry.ProviderFilesystem, Operation: registry.OpSearchFiles},
	"fs_list":        {Provider: registry.ProviderFilesystem, Operation: registry.OpListDirectory},
	"list":           {Provider: registry.ProviderFilesystem, Operation: registry.OpListDirectory},
	"ls":             {Provider: registry.ProviderFilesystem, Operation: registry.OpListDirectory},
	"dir":            {Provider: registry.ProviderFilesystem, Operation: registry.OpListDirectory},
	"list_directory": {Provider: registry.ProviderFilesystem, Operation: registry.OpListDirectory},
	"fs_read":        {Provider: registry.ProviderFilesystem, Operation: registry.OpReadFile},
	"read":           {Provider: registry.ProviderFilesystem, Operation: registry.OpReadFile},
	"open":           {Provider: registry.ProviderFilesystem, Operation: registry.OpReadFile},
	"cat":            {Provider: registry.ProviderFilesystem, Operation: registry.OpReadFile},
	"read_file":      {Provider: registry.ProviderFilesystem, Operation: registry.OpReadFile},
}

// paramAliases maps alternate parameter spellings to their canonical names.
// The alias is applied only when the canonical name is absent.
var paramAliases = map[string]string{
	"search_path": "path",
}

// CanonicalProvider maps a provider name or synonym to its registry id.
func CanonicalProvider(hint string) (string, bool) {
	id, ok := providerSynonyms[strings.ToLower(strings.TrimSpace(hint))]
	return id, ok
}

// Mapper resolves a (possibly partial) payload into a validated invocation
// against a fixed registry.
type Mapper struct {
	registry        *registry.Registry
	defaultListPath string
	logger          *zap.Logger
}

// NewMapper builds a Mapper. defaultListPath is substituted for filesystem
// list/search calls that arrive without a path.
func NewMapper(reg *registry.Registry, defaultListPath string, logger *zap.Logger) *Mapper {
	return &Mapper{registry: reg, defaultListPath: defaultListPath, logger: logger}
}

// Resolve normalizes the payload's provider and action, fills allowed
// defaults, and validates required parameters against the operation's
// compiled schema. On failure it returns a ResultError of kind not_found
// (unknown provider/operation) or validation (bad parameters).
func (m *Mapper) Resolve(p *Payload) (dispatch.Invocation, *dispatch.ResultError) {
	providerHint := strings.ToLower(strings.TrimSpace(p.ProviderHint()))
	action := strings.ToLower(strings.TrimSpace(p.Action))

	var inv dispatch.Invocation
	switch {
	case providerHint == "" && action != "":
		target, ok := actionOnlyTargets[action]
		if !ok {
			return dispatch.Invocation{}, &dispatch.ResultError{
				Kind:    dispatch.KindNotFound,
				Message: "no provider specified and action " + action + " is not recognized",
			}
		}
		inv = target
	case providerHint == "":
		return dispatch.Invocation{}, &dispatch.ResultError{
			Kind:    dispatch.KindNotFound,
			Message: "payload names no provider or action",
		}
	default:
		canonical, ok := providerSynonyms[providerHint]
		if !ok {
			return dispatch.Invocation{}, &dispatch.ResultError{
				Kind:    dispatch.KindNotFound,
				Message: "unknown provider: " + providerHint,
			}
		}
		inv.Provider = canonical
		if op, ok := actionSynonyms[canonical][action]; ok {
			inv.Operation = op
		}
	}

	prov, ok := m.registry.Lookup(inv.Provider)
	if !ok {
		return dispatch.Invocation{}, &dispatch.ResultError{
			Kind:    dispatch.KindNotFound,
			Message: "provider not registered: " + inv.Provider,
		}
	}
	if inv.Operation == "" {
		inv.Operation = prov.DefaultOperation
	}
	op, ok := prov.Operation(inv.Operation)
	if !ok {
		return dispatch.Invocation{}, &dispatch.ResultError{
			Kind:    dispatch.KindNotFound,
			Message: "provider " + inv.Provider + " has no operation " + inv.Operation,
		}
	}

	inv.Params = normalizeParams(p.Parameters)
	m.applyDefaults(&inv)

	if missing := missingRequired(op, inv.Params); len(missing) > 0 {
		return dispatch.Invocation{}, &dispatch.ResultError{
			Kind:    dispatch.KindValidation,
			Message: "missing required parameter(s): " + strings.Join(missing, ", "),
		}
	}
	if sch := m.registry.ParamSchema(inv.Provider, inv.Operation); sch != nil {
		if err := sch.Validate(inv.Params); err != nil {
			return dispatch.Invocation{}, &dispatch.ResultError{
				Kind:    dispatch.KindValidation,
				Message: "invalid parameters: " + err.Error(),
			}
		}
	}

	return inv, nil
}

// normalizeParams copies the parameter map and applies known aliases.
func normalizeParams(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	for alias, canonical := range paramAliases {
		if v, ok := out[alias]; ok {
			if _, exists := out[canonical]; !exists {
				out[canonical] = v
			}
			delete(out, alias)
		}
	}
	return out
}

// applyDefaults substitutes the defaults the design explicitly allows:
// a default root for directory listing and file search without a path, and
// a match-all pattern for searches without one.
func (m *Mapper) applyDefaults(inv *dispatch.Invocation) {
	if inv.Provider != registry.ProviderFilesystem {
		return
	}
	switch inv.Operation {
	case registry.OpListDirectory:
		if _, ok := inv.Params["path"]; !ok && m.defaultListPath != "" {
			inv.Params["path"] = m.defaultListPath
		}
	case registry.OpSearchFiles:
		if _, ok := inv.Params["path"]; !ok && m.defaultListPath != "" {
			inv.Params["path"] = m.defaultListPath
		}
		if _, ok := inv.Params["pattern"]; !ok {
			inv.Params["pattern"] = "*"
		}
	}
}

func missingRequired(op *registry.Operation, params map[string]any) []string {
	var missing []string
	for _, name := range op.RequiredParams() {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
