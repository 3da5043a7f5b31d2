package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/registry"
)

const (
	duckDuckGoURL     = "https://api.duckduckgo.com/"
	defaultNumResults = 5
)

// instantAnswer is the subset of the DuckDuckGo Instant Answer response we
// read. Topics may nest one level under a category; nested groups are skipped.
type instantAnswer struct {
	AbstractText   string `json:"AbstractText"`
	AbstractSource string `json:"AbstractSource"`
	AbstractURL    string `json:"AbstractURL"`
	RelatedTopics  []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// WebSearch serves search_web via the DuckDuckGo Instant Answer API. Every
// request carries the client timeout; a timeout or transport failure comes
// back as an upstream error result, never a hang.
type WebSearch struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

func NewWebSearch(timeout time.Duration, logger *zap.Logger) *WebSearch {
	return &WebSearch{
		client:  &http.Client{Timeout: timeout},
		baseURL: duckDuckGoURL,
		logger:  logger.Named("web_search"),
	}
}

func (w *WebSearch) Provider() string { return registry.ProviderWebSearch }

func (w *WebSearch) Invoke(ctx context.Context, op string, params map[string]any) dispatch.Result {
	if op != registry.OpSearchWeb {
		return dispatch.Errorf(dispatch.KindNotFound, "unknown web_search operation: %s", op)
	}
	query := stringParam(params, "query")
	numResults := intParam(params, "num_results", defaultNumResults)
	return w.search(ctx, query, numResults)
}

func (w *WebSearch) search(ctx context.Context, query string, numResults int) dispatch.Result {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return dispatch.Errorf(dispatch.KindUpstream, "search request failed: %v", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Warn("duckduckgo request failed", zap.String("query", query), zap.Error(err))
		return dispatch.Errorf(dispatch.KindUpstream, "search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dispatch.Errorf(dispatch.KindUpstream, "search returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return dispatch.Errorf(dispatch.KindUpstream, "failed to decode search response: %v", err)
	}

	results := make([]map[string]any, 0, numResults)
	if answer.AbstractText != "" {
		title := answer.AbstractSource
		if title == "" {
			title = "DuckDuckGo"
		}
		results = append(results, map[string]any{
			"title":   title,
			"snippet": answer.AbstractText,
			"url":     answer.AbstractURL,
			"type":    "instant_answer",
		})
	}
	for _, topic := range answer.RelatedTopics {
		if len(results) >= numResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		results = append(results, map[string]any{
			"title":   topicTitle(topic.FirstURL),
			"snippet": topic.Text,
			"url":     topic.FirstURL,
			"type":    "related_topic",
		})
	}
	if len(results) == 0 {
		results = append(results, map[string]any{
			"title":   fmt.Sprintf("Search results for: %s", query),
			"snippet": fmt.Sprintf("I searched for %q but couldn't find specific results. You may want to try a more specific query or check the web directly.", query),
			"url":     "https://duckduckgo.com/?q=" + url.QueryEscape(query),
			"type":    "fallback",
		})
	}
	if len(results) > numResults {
		results = results[:numResults]
	}

	return dispatch.OK(map[string]any{
		"query":         query,
		"results":       results,
		"total_results": len(results),
	})
}

// topicTitle derives a readable title from the last segment of a topic URL.
func topicTitle(firstURL string) string {
	seg := firstURL
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	return strings.ReplaceAll(seg, "_", " ")
}

func intParam(params map[string]any, name string, fallback int) int {
	switch v := params[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
