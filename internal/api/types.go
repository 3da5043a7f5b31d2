package api

import "github.com/steward-ai/steward/internal/dispatch"

// MessageRequest is the body of POST /v1/message.
type MessageRequest struct {
	Message string `json:"message"`
}

// MessageResponse carries one aggregation pass. Results maps provider id to
// either operation fields or {"error", "error_kind"}.
type MessageResponse struct {
	RequestID string                     `json:"request_id"`
	Results   map[string]dispatch.Result `json:"results"`
	ToolsUsed []string                   `json:"tools_used"`
	LatencyMs float64                    `json:"latency_ms"`
}

// InvokeRequest is the body of POST /v1/invoke. Tool and Server are
// synonyms; Tool wins when both are set.
type InvokeRequest struct {
	Tool       string         `json:"tool,omitempty"`
	Server     string         `json:"server,omitempty"`
	Action     string         `json:"action,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// InvokeResponse is a single invocation outcome.
type InvokeResponse struct {
	RequestID string          `json:"request_id"`
	Provider  string          `json:"provider,omitempty"`
	Operation string          `json:"operation,omitempty"`
	Result    dispatch.Result `json:"result"`
	LatencyMs float64         `json:"latency_ms"`
}

// ProviderResp describes one registered provider for GET /v1/providers.
type ProviderResp struct {
	ID               string   `json:"id"`
	Disabled         bool     `json:"disabled"`
	DefaultOperation string   `json:"default_operation,omitempty"`
	Operations       []string `json:"operations"`
}

// ErrorResp is the generic error body.
type ErrorResp struct {
	Detail string `json:"detail"`
}
