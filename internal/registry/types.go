package registry

// ParamSpec describes a single operation parameter.
type ParamSpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Operation is a single named action a provider supports.
type Operation struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Params      map[string]ParamSpec `json:"parameters"`
}

// Schema renders the operation's parameter specs as a JSON Schema document
// suitable for compilation. Values use the JSON-native Go types the schema
// compiler expects.
func (o Operation) Schema() map[string]any {
	props := make(map[string]any, len(o.Params))
	required := make([]any, 0, len(o.Params))
	for name, spec := range o.Params {
		prop := map[string]any{"type": spec.Type}
		if spec.Description != "" {
			prop["description"] = spec.Description
		}
		props[name] = prop
		if spec.Required {
			required = append(required, name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// RequiredParams returns the names of required parameters.
func (o Operation) RequiredParams() []string {
	var out []string
	for name, spec := range o.Params {
		if spec.Required {
			out = append(out, name)
		}
	}
	return out
}

// Provider is a named external capability with a fixed operation set.
// Providers are immutable once the registry is built.
type Provider struct {
	ID               string      `json:"id"`
	Disabled         bool        `json:"disabled,omitempty"`
	DefaultOperation string      `json:"default_operation,omitempty"`
	Operations       []Operation `json:"operations"`
}

// Operation looks up an operation by name.
func (p *Provider) Operation(name string) (*Operation, bool) {
	for i := range p.Operations {
		if p.Operations[i].Name == name {
			return &p.Operations[i], true
		}
	}
	return nil, false
}
