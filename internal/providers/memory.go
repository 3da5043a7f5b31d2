package providers

import (
	"context"

	"go.uber.org/zap"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/memstore"
	"github.com/steward-ai/steward/internal/registry"
)

// Memory serves store_memory and retrieve_memory against a durable Store.
type Memory struct {
	store  memstore.Store
	logger *zap.Logger
}

func NewMemory(store memstore.Store, logger *zap.Logger) *Memory {
	return &Memory{store: store, logger: logger.Named("memory")}
}

func (m *Memory) Provider() string { return registry.ProviderMemory }

func (m *Memory) Invoke(ctx context.Context, op string, params map[string]any) dispatch.Result {
	switch op {
	case registry.OpStoreMemory:
		return m.storeMemory(ctx, stringParam(params, "key"), stringParam(params, "value"))
	case registry.OpRetrieveMemory:
		return m.retrieveMemory(ctx, stringParam(params, "key"))
	default:
		return dispatch.Errorf(dispatch.KindNotFound, "unknown memory operation: %s", op)
	}
}

func (m *Memory) storeMemory(ctx context.Context, key, value string) dispatch.Result {
	if err := m.store.Set(ctx, key, value); err != nil {
		m.logger.Error("store failed", zap.String("key", key), zap.Error(err))
		return dispatch.Errorf(dispatch.KindUpstream, "failed to store memory: %v", err)
	}
	return dispatch.OK(map[string]any{
		"success": true,
		"key":     key,
		"value":   value,
	})
}

func (m *Memory) retrieveMemory(ctx context.Context, key string) dispatch.Result {
	value, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Error("retrieve failed", zap.String("key", key), zap.Error(err))
		return dispatch.Errorf(dispatch.KindUpstream, "failed to retrieve memory: %v", err)
	}
	if !ok {
		return dispatch.Errorf(dispatch.KindNotFound, "Memory key not found: %s", key)
	}
	return dispatch.OK(map[string]any{"key": key, "value": value})
}
