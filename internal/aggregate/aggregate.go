// Package aggregate runs the detector pipeline that turns one free-form
// message into a set of per-provider invocation results.
package aggregate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/intent"
	"github.com/steward-ai/steward/internal/registry"
)

const probeNumResults = 3

// Response is one aggregation pass. Results maps provider id to that
// provider's single outcome; ToolsUsed lists the operations dispatched, in
// detector order, as "provider/operation".
type Response struct {
	Results   map[string]dispatch.Result
	ToolsUsed []string
}

// probe is one keyword-triggered detector. Fires when any keyword is a
// substring of the lowercased message and the provider key is still free.
type probe struct {
	provider  string
	keywords  []string
	operation string // empty for advisory probes that dispatch nothing
	params    func(message string) map[string]any
}

var probes = []probe{
	{
		provider: registry.ProviderMemory,
		keywords: []string{"remember", "store", "save", "recall", "memory"},
	},
	{
		provider: registry.ProviderWebSearch,
		keywords: []string{
			"search", "google", "find online", "internet", "web",
			"look up", "what is", "who is", "when did", "where is", "how to",
		},
		operation: registry.OpSearchWeb,
		params: func(message string) map[string]any {
			return map[string]any{"query": message, "num_results": probeNumResults}
		},
	},
	{
		provider:  registry.ProviderDeepWiki,
		keywords:  []string{"help", "documentation", "docs", "wiki"},
		operation: registry.OpSearchWiki,
		params: func(message string) map[string]any {
			return map[string]any{"query": message}
		},
	},
	{
		provider:  registry.ProviderWorkflow,
		keywords:  []string{"workflow", "automation", "n8n"},
		operation: registry.OpListWorkflows,
		params:    func(string) map[string]any { return map[string]any{} },
	},
}

const memoryAdvisory = "I can help you with memory operations. What would you like me to remember?"

// Aggregator owns the fixed detector order: structured payload first, then
// the raw path detector, then the keyword probes.
type Aggregator struct {
	mapper     *intent.Mapper
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

func New(mapper *intent.Mapper, dispatcher *dispatch.Dispatcher, logger *zap.Logger) *Aggregator {
	return &Aggregator{mapper: mapper, dispatcher: dispatcher, logger: logger.Named("aggregate")}
}

// Run executes one aggregation pass over message. Each provider key is
// written at most once; a detector that fires against an occupied key is
// skipped, and one detector's failure never discards another's result.
func (a *Aggregator) Run(ctx context.Context, message string) Response {
	resp := Response{Results: make(map[string]dispatch.Result)}

	a.runStructured(ctx, message, &resp)
	a.runRawPath(ctx, message, &resp)
	a.runProbes(ctx, message, &resp)

	return resp
}

func (a *Aggregator) runStructured(ctx context.Context, message string, resp *Response) {
	payload := intent.Extract(message)
	if payload == nil {
		return
	}

	inv, rerr := a.mapper.Resolve(payload)
	if rerr != nil {
		// A resolution failure still belongs to the provider the payload
		// claimed, when that claim maps to a known id.
		if id, ok := intent.CanonicalProvider(payload.ProviderHint()); ok {
			resp.Results[id] = dispatch.Result{Err: rerr}
		} else {
			a.logger.Warn("structured payload did not resolve", zap.String("error", rerr.Message))
		}
		return
	}

	resp.Results[inv.Provider] = a.dispatcher.Dispatch(ctx, inv)
	resp.ToolsUsed = append(resp.ToolsUsed, inv.Provider+"/"+inv.Operation)
}

func (a *Aggregator) runRawPath(ctx context.Context, message string, resp *Response) {
	if _, taken := resp.Results[registry.ProviderFilesystem]; taken {
		return
	}
	path, ok := intent.DetectPath(message)
	if !ok {
		return
	}

	inv, rerr := a.mapper.Resolve(intent.PayloadForPath(path))
	if rerr != nil {
		resp.Results[registry.ProviderFilesystem] = dispatch.Result{Err: rerr}
		return
	}
	resp.Results[inv.Provider] = a.dispatcher.Dispatch(ctx, inv)
	resp.ToolsUsed = append(resp.ToolsUsed, inv.Provider+"/"+inv.Operation)
}

type probeOutput struct {
	provider  string
	operation string
	result    dispatch.Result
}

// runProbes fans the triggered probes out in parallel and collects through a
// buffered channel sized for all of them, so late finishers never block.
func (a *Aggregator) runProbes(ctx context.Context, message string, resp *Response) {
	lower := strings.ToLower(message)

	triggered := make([]probe, 0, len(probes))
	for _, p := range probes {
		if _, taken := resp.Results[p.provider]; taken {
			continue
		}
		if !anyKeyword(lower, p.keywords) {
			continue
		}
		triggered = append(triggered, p)
	}
	if len(triggered) == 0 {
		return
	}

	ch := make(chan probeOutput, len(triggered))
	for _, p := range triggered {
		go func(p probe) {
			if p.operation == "" {
				ch <- probeOutput{
					provider: p.provider,
					result:   dispatch.OK(map[string]any{"message": memoryAdvisory}),
				}
				return
			}
			inv := dispatch.Invocation{
				Provider:  p.provider,
				Operation: p.operation,
				Params:    p.params(message),
			}
			ch <- probeOutput{provider: p.provider, operation: p.operation, result: a.dispatcher.Dispatch(ctx, inv)}
		}(p)
	}

	collected := make(map[string]probeOutput, len(triggered))
	remaining := len(triggered)
	for remaining > 0 {
		select {
		case out := <-ch:
			collected[out.provider] = out
			remaining--
		case <-ctx.Done():
			a.logger.Warn("probe pass cancelled, returning partial results", zap.Error(ctx.Err()))
			remaining = 0
		}
	}

	// Merge in table order so ToolsUsed stays deterministic.
	for _, p := range triggered {
		out, ok := collected[p.provider]
		if !ok {
			continue
		}
		if _, taken := resp.Results[out.provider]; taken {
			continue
		}
		resp.Results[out.provider] = out.result
		if out.operation != "" {
			resp.ToolsUsed = append(resp.ToolsUsed, out.provider+"/"+out.operation)
		}
	}
}

func anyKeyword(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
