package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/steward-ai/steward/internal/aggregate"
	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/intent"
	"github.com/steward-ai/steward/internal/storage"
)

// handleMessage implements POST /v1/message: one full aggregation pass over
// a free-form message. The response is always 200 with itemized per-provider
// outcomes; only a malformed request body is an HTTP-level error.
func (d *Dependencies) handleMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req MessageRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "message is required"})
		return
	}

	resp := d.Aggregator.Run(r.Context(), message)
	requestID := uuid.New().String()
	latencyMs := float64(time.Since(start)) / float64(time.Millisecond)

	d.writeMessageEvent(requestID, message, resp, float32(latencyMs))

	writeJSON(w, http.StatusOK, MessageResponse{
		RequestID: requestID,
		Results:   resp.Results,
		ToolsUsed: resp.ToolsUsed,
		LatencyMs: latencyMs,
	})
}

// handleInvoke implements POST /v1/invoke: the structured tool call path
// without the surrounding message heuristics.
func (d *Dependencies) handleInvoke(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req InvokeRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}

	payload := &intent.Payload{
		Tool:       req.Tool,
		Server:     req.Server,
		Action:     req.Action,
		Parameters: req.Parameters,
	}

	requestID := uuid.New().String()
	inv, rerr := d.Mapper.Resolve(payload)

	var res dispatch.Result
	if rerr != nil {
		res = dispatch.Result{Err: rerr}
	} else {
		res = d.Dispatcher.Dispatch(r.Context(), inv)
	}

	latencyMs := float64(time.Since(start)) / float64(time.Millisecond)
	d.writeInvokeEvent(requestID, inv, res, float32(latencyMs))

	writeJSON(w, statusForKind(res), InvokeResponse{
		RequestID: requestID,
		Provider:  inv.Provider,
		Operation: inv.Operation,
		Result:    res,
		LatencyMs: latencyMs,
	})
}

// writeMessageEvent fires an aggregation audit event to the async writer.
func (d *Dependencies) writeMessageEvent(requestID, message string, resp aggregate.Response, latencyMs float32) {
	event := storage.NewInvocationEvent(requestID, message, "message")
	event.LatencyMs = latencyMs
	event.Operations = resp.ToolsUsed

	providers := make([]string, 0, len(resp.Results))
	for id := range resp.Results {
		providers = append(providers, id)
	}
	sort.Strings(providers)
	kinds := make([]string, len(providers))
	for i, id := range providers {
		kinds[i] = resp.Results[id].ErrKind()
	}
	event.Providers = providers
	event.ErrorKinds = kinds

	d.Writer.Write(event)
}

func (d *Dependencies) writeInvokeEvent(requestID string, inv dispatch.Invocation, res dispatch.Result, latencyMs float32) {
	event := storage.NewInvocationEvent(requestID, "", "invoke")
	event.LatencyMs = latencyMs
	if inv.Provider != "" {
		event.Providers = []string{inv.Provider}
		event.Operations = []string{inv.Provider + "/" + inv.Operation}
		event.ErrorKinds = []string{res.ErrKind()}
	} else {
		event.ErrorKinds = []string{res.ErrKind()}
	}
	d.Writer.Write(event)
}
