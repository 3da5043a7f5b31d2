package registry

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Registry holds the provider set for the process lifetime. It is built once
// at startup and is safe for concurrent read access; there is no mutation
// path after construction.
type Registry struct {
	providers map[string]*Provider
	order     []string
	schemas   map[string]*jsonschema.Schema // "<provider>/<operation>" → compiled params schema
}

// New builds a Registry from the given providers, compiling each operation's
// parameter schema. A provider set with a duplicate id or an uncompilable
// schema is a construction error.
func New(providers []Provider) (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*Provider, len(providers)),
		schemas:   make(map[string]*jsonschema.Schema),
	}
	for i := range providers {
		p := providers[i]
		if _, dup := r.providers[p.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		r.providers[p.ID] = &p
		r.order = append(r.order, p.ID)

		for _, op := range p.Operations {
			key := p.ID + "/" + op.Name
			sch, err := compileSchema(key, op.Schema())
			if err != nil {
				return nil, fmt.Errorf("compile schema for %s: %w", key, err)
			}
			r.schemas[key] = sch
		}
	}
	return r, nil
}

func compileSchema(name string, doc map[string]any) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	url := name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
}

// Lookup returns the provider for the given id.
func (r *Registry) Lookup(id string) (*Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// ParamSchema returns the compiled parameter schema for a provider/operation
// pair, or nil if the pair is unknown.
func (r *Registry) ParamSchema(providerID, opName string) *jsonschema.Schema {
	return r.schemas[providerID+"/"+opName]
}

// Providers returns all providers in registration order, including disabled
// ones.
func (r *Registry) Providers() []*Provider {
	out := make([]*Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}

// Catalog returns the operations of every enabled provider, keyed by
// provider id. Disabled providers are excluded entirely.
func (r *Registry) Catalog() map[string][]Operation {
	out := make(map[string][]Operation)
	for _, id := range r.order {
		p := r.providers[id]
		if p.Disabled {
			continue
		}
		ops := make([]Operation, len(p.Operations))
		copy(ops, p.Operations)
		out[id] = ops
	}
	return out
}
