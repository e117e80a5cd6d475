// Ollama HTTP adapter.
// OllamaProvider calls the local Ollama REST API using stdlib net/http.
// Endpoints used:
//   - POST /api/generate — non-streaming text completion
//   - GET  /api/tags     — health check (lists available models)
//
// Transport failures and 5xx responses are retried with exponential backoff
// (1s, 2s, 4s by default) before the error is surfaced to the caller.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	defaultRetries = 3
	defaultBackoff = time.Second
)

// OllamaProvider implements CompletionProvider against a running Ollama instance.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

// NewOllamaProvider creates an OllamaProvider with a 120s default timeout
// (local models can be slow on first token) and a 3-attempt retry budget.
func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		retries: defaultRetries,
		backoff: defaultBackoff,
	}
}

// SetTimeout overrides the per-request HTTP timeout.
func (p *OllamaProvider) SetTimeout(d time.Duration) {
	p.httpClient.Timeout = d
}

// SetRetries overrides the retry budget (total attempts, minimum 1).
func (p *OllamaProvider) SetRetries(n int) {
	if n >= 1 {
		p.retries = n
	}
}

// ─── internal Ollama JSON types ──────────────────────────────────────────────

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response   string `json:"response"`
	DoneReason string `json:"done_reason"`
	Done       bool   `json:"done"`
}

// ─── CompletionProvider implementation ───────────────────────────────────────

// Complete performs a non-streaming completion via POST /api/generate.
// Retries transport errors and 5xx responses up to the configured budget.
func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	format := ""
	if req.JSONMode {
		format = "json"
	}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   model,
		Prompt:  req.Prompt,
		Stream:  false,
		Format:  format,
		Options: buildGenerateOptions(req),
	})
	if err != nil {
		return nil, err
	}

	respBody, err := p.postWithRetry(ctx, "/api/generate", body)
	if err != nil {
		return nil, err
	}
	defer respBody.Close()

	var ollamaResp ollamaGenerateResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&ollamaResp); decodeErr != nil {
		return nil, fmt.Errorf("decode generate response: %w", decodeErr)
	}
	return &CompletionResponse{
		Text:       strings.TrimSpace(ollamaResp.Response),
		StopReason: ollamaResp.DoneReason,
	}, nil
}

// buildGenerateOptions converts CompletionRequest fields into Ollama options.
func buildGenerateOptions(req CompletionRequest) map[string]any {
	opts := map[string]any{}
	if req.Temperature != 0 {
		opts["temperature"] = req.Temperature
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

// ModelInfo returns static metadata for this provider/model.
func (p *OllamaProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:       p.model,
		Provider: "ollama",
		Version:  "v1",
	}
}

// HealthCheck calls GET /api/tags — returns nil if Ollama is reachable.
func (p *OllamaProvider) HealthCheck(ctx context.Context) error {
	url := p.baseURL + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ollama healthcheck: build request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// postWithRetry sends POST requests to baseURL+path until one succeeds or the
// retry budget is exhausted. Backoff doubles per attempt. The returned
// ReadCloser must be closed by the caller.
func (p *OllamaProvider) postWithRetry(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	var lastErr error

	for attempt := 0; attempt < p.retries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, p.backoff<<(attempt-1)); err != nil {
				return nil, fmt.Errorf("ollama post %s: %w", path, err)
			}
		}

		respBody, err := p.doPost(ctx, path, body)
		if err == nil {
			return respBody, nil
		}
		lastErr = err

		// Context errors are not retryable — the caller gave up.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("ollama post %s: %d attempts exhausted: %w", path, p.retries, lastErr)
}

// doPost sends a single POST request and returns the response body.
func (p *OllamaProvider) doPost(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headerContentType, mimeJSON)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
