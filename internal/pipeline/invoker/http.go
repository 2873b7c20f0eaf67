// Package invoker calls the serverless batch-job functions over HTTP. The
// runner depends only on the {count, total} contract; this package owns the
// transport details.
package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxlab/internal/pipeline/ports"
)

// HTTPInvoker posts invocation parameters to {baseURL}/{fn} with bearer
// auth.
type HTTPInvoker struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type Option func(*HTTPInvoker)

// WithHTTPClient overrides the default client (mainly for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(i *HTTPInvoker) { i.client = client }
}

func New(baseURL, apiKey string, opts ...Option) (*HTTPInvoker, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("functions base URL is required")
	}
	inv := &HTTPInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// invokeResponse tolerates the different count field names the functions
// use: processed, submitted, computed, or enqueued.
type invokeResponse struct {
	Processed *int `json:"processed"`
	Submitted *int `json:"submitted"`
	Computed  *int `json:"computed"`
	Enqueued  *int `json:"enqueued"`
	Total     int  `json:"total"`
}

func (r invokeResponse) count() int {
	for _, v := range []*int{r.Processed, r.Submitted, r.Computed, r.Enqueued} {
		if v != nil {
			return *v
		}
	}
	return 0
}

func (i *HTTPInvoker) Invoke(ctx context.Context, fn string, params ports.InvokeParams) (ports.InvokeResult, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return ports.InvokeResult{}, fmt.Errorf("marshal params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/"+fn, bytes.NewReader(body))
	if err != nil {
		return ports.InvokeResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if i.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+i.apiKey)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return ports.InvokeResult{}, fmt.Errorf("invoke %s: %w", fn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ports.InvokeResult{}, fmt.Errorf("invoke %s: status %d: %s", fn, resp.StatusCode, snippet)
	}

	var parsed invokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.InvokeResult{}, fmt.Errorf("decode %s response: %w", fn, err)
	}
	return ports.InvokeResult{Processed: parsed.count(), Total: parsed.Total}, nil
}
