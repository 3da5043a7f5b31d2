package providers

import (
	"context"
	"fmt"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/registry"
)

// DeepWiki serves search_wiki. The upstream documentation service is not
// wired yet; results are a canned placeholder until it is.
type DeepWiki struct{}

func NewDeepWiki() *DeepWiki { return &DeepWiki{} }

func (d *DeepWiki) Provider() string { return registry.ProviderDeepWiki }

func (d *DeepWiki) Invoke(ctx context.Context, op string, params map[string]any) dispatch.Result {
	if op != registry.OpSearchWiki {
		return dispatch.Errorf(dispatch.KindNotFound, "unknown deepwiki operation: %s", op)
	}
	query := stringParam(params, "query")
	return dispatch.OK(map[string]any{
		"query": query,
		"results": []map[string]any{
			{
				"title":   fmt.Sprintf("Results for: %s", query),
				"content": fmt.Sprintf("This is a placeholder for deepwiki search results for %q. In production, this would connect to the actual deepwiki MCP server.", query),
			},
		},
	})
}
