package providers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/registry"
)

type workflowRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Workflow serves create_workflow and list_workflows against an in-memory
// table. Workflows do not survive a restart.
type Workflow struct {
	mu        sync.Mutex
	workflows []workflowRecord
}

func NewWorkflow() *Workflow { return &Workflow{} }

func (w *Workflow) Provider() string { return registry.ProviderWorkflow }

func (w *Workflow) Invoke(ctx context.Context, op string, params map[string]any) dispatch.Result {
	switch op {
	case registry.OpCreateWorkflow:
		return w.create(stringParam(params, "name"), stringParam(params, "description"))
	case registry.OpListWorkflows:
		return w.list()
	default:
		return dispatch.Errorf(dispatch.KindNotFound, "unknown n8n-mcp operation: %s", op)
	}
}

func (w *Workflow) create(name, description string) dispatch.Result {
	rec := workflowRecord{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Status:      "created",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	w.mu.Lock()
	w.workflows = append(w.workflows, rec)
	w.mu.Unlock()

	return dispatch.OK(map[string]any{
		"workflow_id": rec.ID,
		"name":        rec.Name,
		"description": rec.Description,
		"status":      rec.Status,
	})
}

func (w *Workflow) list() dispatch.Result {
	w.mu.Lock()
	out := make([]map[string]any, 0, len(w.workflows))
	for _, rec := range w.workflows {
		out = append(out, map[string]any{
			"id":     rec.ID,
			"name":   rec.Name,
			"status": rec.Status,
		})
	}
	w.mu.Unlock()

	return dispatch.OK(map[string]any{"workflows": out})
}
