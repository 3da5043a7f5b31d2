package intent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Payload is a structured tool call pulled out of (or synthesized from) a
// user message. Either Tool or Server may name the provider; Action and
// Parameters are optional.
type Payload struct {
	Tool       string
	Server     string
	Action     string
	Parameters map[string]any
}

// ProviderHint returns the provider identifier the payload names, preferring
// the tool key over the server key.
func (p *Payload) ProviderHint() string {
	if p.Tool != "" {
		return p.Tool
	}
	return p.Server
}

var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\n(.*?)```")

// Extract scans free-form text for an embedded JSON tool call. A fenced code
// block, when present, narrows the search window; within the window the
// first JSON object is decoded and accepted only if it carries a tool,
// server, or action key. Extract never fails: malformed or irrelevant JSON
// simply yields nil so heuristic detectors can take over.
func Extract(text string) *Payload {
	window := text
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		window = m[1]
	}

	start := strings.IndexByte(window, '{')
	if start < 0 {
		return nil
	}

	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(window[start:]))
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	_, hasTool := raw["tool"]
	_, hasServer := raw["server"]
	_, hasAction := raw["action"]
	if !hasTool && !hasServer && !hasAction {
		return nil
	}

	p := &Payload{
		Tool:   stringField(raw, "tool"),
		Server: stringField(raw, "server"),
		Action: stringField(raw, "action"),
	}
	if params, ok := raw["parameters"].(map[string]any); ok {
		p.Parameters = params
	}
	return p
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
