package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/steward-ai/steward/internal/registry"
	"go.uber.org/zap"
)

// stubHandler records invocations and returns a fixed result.
type stubHandler struct {
	provider string
	result   Result
	calls    int
	panics   bool
}

func (s *stubHandler) Provider() string { return s.provider }

func (s *stubHandler) Invoke(_ context.Context, _ string, _ map[string]any) Result {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.result
}

func testRegistry(t *testing.T, providers []registry.Provider) *registry.Registry {
	t.Helper()
	r, err := registry.New(providers)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return r
}

func TestDispatch_UnknownProviderIsNotFound(t *testing.T) {
	reg := testRegistry(t, registry.Defaults())
	h := &stubHandler{provider: registry.ProviderMemory}
	d := New(reg, zap.NewNop(), h)

	res := d.Dispatch(context.Background(), Invocation{Provider: "nonexistent", Operation: "x"})
	if !res.IsErr() || res.Err.Kind != KindNotFound {
		t.Fatalf("expected not_found, got %+v", res)
	}
	if h.calls != 0 {
		t.Errorf("handler must not be invoked for unknown provider")
	}
}

func TestDispatch_DisabledProviderIsError(t *testing.T) {
	providers := registry.Defaults()
	for i := range providers {
		if providers[i].ID == registry.ProviderWorkflow {
			providers[i].Disabled = true
		}
	}
	reg := testRegistry(t, providers)
	h := &stubHandler{provider: registry.ProviderWorkflow, result: OK(nil)}
	d := New(reg, zap.NewNop(), h)

	res := d.Dispatch(context.Background(), Invocation{
		Provider:  registry.ProviderWorkflow,
		Operation: registry.OpListWorkflows,
	})
	if !res.IsErr() {
		t.Fatalf("dispatch to a disabled provider must be an error, got %+v", res)
	}
	if h.calls != 0 {
		t.Errorf("disabled provider handler must not run")
	}
}

func TestDispatch_UnknownOperationIsNotFound(t *testing.T) {
	reg := testRegistry(t, registry.Defaults())
	h := &stubHandler{provider: registry.ProviderMemory, result: OK(nil)}
	d := New(reg, zap.NewNop(), h)

	res := d.Dispatch(context.Background(), Invocation{
		Provider:  registry.ProviderMemory,
		Operation: "forget_everything",
	})
	if !res.IsErr() || res.Err.Kind != KindNotFound {
		t.Fatalf("expected not_found for unknown operation, got %+v", res)
	}
}

func TestDispatch_MissingHandlerIsNotFound(t *testing.T) {
	reg := testRegistry(t, registry.Defaults())
	d := New(reg, zap.NewNop())

	res := d.Dispatch(context.Background(), Invocation{
		Provider:  registry.ProviderMemory,
		Operation: registry.OpRetrieveMemory,
	})
	if !res.IsErr() || res.Err.Kind != KindNotFound {
		t.Fatalf("expected not_found without a handler, got %+v", res)
	}
}

func TestDispatch_PanicBecomesUpstreamError(t *testing.T) {
	reg := testRegistry(t, registry.Defaults())
	h := &stubHandler{provider: registry.ProviderMemory, panics: true}
	d := New(reg, zap.NewNop(), h)

	res := d.Dispatch(context.Background(), Invocation{
		Provider:  registry.ProviderMemory,
		Operation: registry.OpRetrieveMemory,
		Params:    map[string]any{"key": "k"},
	})
	if !res.IsErr() || res.Err.Kind != KindUpstream {
		t.Fatalf("expected upstream error from panic, got %+v", res)
	}
}

func TestDispatch_Success(t *testing.T) {
	reg := testRegistry(t, registry.Defaults())
	h := &stubHandler{
		provider: registry.ProviderMemory,
		result:   OK(map[string]any{"key": "k", "value": "v"}),
	}
	d := New(reg, zap.NewNop(), h)

	res := d.Dispatch(context.Background(), Invocation{
		Provider:  registry.ProviderMemory,
		Operation: registry.OpRetrieveMemory,
		Params:    map[string]any{"key": "k"},
	})
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Data["value"] != "v" {
		t.Errorf("unexpected data: %+v", res.Data)
	}
	if h.calls != 1 {
		t.Errorf("expected exactly one handler call, got %d", h.calls)
	}
}

func TestResult_JSONShape(t *testing.T) {
	ok := OK(map[string]any{"path": "/data", "truncated": false})
	b, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, hasErr := m["error"]; hasErr {
		t.Errorf("success result must not carry an error field: %s", b)
	}

	bad := Errorf(KindAccessDenied, "access denied to %s", "/etc")
	b, err = json.Marshal(bad)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	m = nil
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["error"] != "access denied to /etc" {
		t.Errorf("unexpected error body: %s", b)
	}
	if m["error_kind"] != string(KindAccessDenied) {
		t.Errorf("unexpected error kind: %s", b)
	}
}
