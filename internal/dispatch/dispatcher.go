package dispatch

import (
	"context"

	"github.com/steward-ai/steward/internal/registry"
	"go.uber.org/zap"
)

// Handler executes the operations of a single provider. Implementations must
// not panic past Invoke; the dispatcher converts panics to upstream errors as
// a safety net, but orderly failures belong in the returned Result.
type Handler interface {
	// Provider returns the canonical provider id this handler serves.
	Provider() string

	// Invoke executes one named operation. The operation name and required
	// parameters have already been validated against the registry schema.
	Invoke(ctx context.Context, op string, params map[string]any) Result
}

// Dispatcher routes resolved invocations to provider handlers. The handler
// map is built once at construction; there is no stringly-typed branching at
// dispatch time.
type Dispatcher struct {
	registry *registry.Registry
	handlers map[string]Handler
	logger   *zap.Logger
}

// New builds a Dispatcher for the given registry and handlers. Handlers for
// providers absent from the registry are kept but unreachable; registry
// providers without a handler fail at dispatch with not_found.
func New(reg *registry.Registry, logger *zap.Logger, handlers ...Handler) *Dispatcher {
	m := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		m[h.Provider()] = h
	}
	return &Dispatcher{registry: reg, handlers: m, logger: logger}
}

// Dispatch executes a resolved invocation and returns a uniform Result.
// Failures never propagate as panics or errors past this boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("handler panic",
				zap.String("provider", inv.Provider),
				zap.String("operation", inv.Operation),
				zap.Any("panic", rec),
			)
			res = Errorf(KindUpstream, "%s.%s failed: %v", inv.Provider, inv.Operation, rec)
		}
	}()

	p, ok := d.registry.Lookup(inv.Provider)
	if !ok {
		return Errorf(KindNotFound, "unknown provider: %s", inv.Provider)
	}
	if p.Disabled {
		return Errorf(KindNotFound, "provider %s is disabled", inv.Provider)
	}
	if _, ok := p.Operation(inv.Operation); !ok {
		return Errorf(KindNotFound, "unknown operation %s for provider %s", inv.Operation, inv.Provider)
	}

	h, ok := d.handlers[inv.Provider]
	if !ok {
		return Errorf(KindNotFound, "no handler registered for provider %s", inv.Provider)
	}

	return h.Invoke(ctx, inv.Operation, inv.Params)
}
