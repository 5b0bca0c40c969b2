// Package llm contains the completion client, the prompt templates, and the
// response recovery engine that turns free-form model output into the
// application's strict data model.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/openguard/openguard/internal/core"
)

// CompletionRequest is one text-in/text-out call to the model.
type CompletionRequest struct {
	Prompt            string
	SystemInstruction string
	Temperature       float64
	MaxTokens         int
}

// Completer sends a fully-formed prompt to an LLM endpoint and returns the
// raw text of the response. No parsing happens at this layer.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ClientConfig configures the Gemini completion client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client is a Gemini REST API client implementing Completer.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Gemini client from config. A missing API key is allowed
// at construction time; Complete fails with a ServiceUnavailable error when
// called without one, so the rest of the service keeps working.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Gemini generateContent wire types, limited to the fields this client uses.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *apiErrorDetail `json:"error,omitempty"`
}

type apiErrorDetail struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Complete sends the prompt to Gemini and returns the concatenated text of
// the first candidate. The system instruction is prefixed to the user prompt.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", core.NewError(core.KindServiceUnavailable,
			"completion backend is not configured (GEMINI_API_KEY missing)", nil)
	}

	fullPrompt := req.Prompt
	if req.SystemInstruction != "" {
		fullPrompt = req.SystemInstruction + "\n\n---\n\n" + req.Prompt
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: fullPrompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
			TopP:            0.95,
			TopK:            40,
		},
	}

	c.logger.Debug("sending completion request",
		"model", c.model,
		"prompt_length", len(fullPrompt),
		"max_tokens", req.MaxTokens)

	var text string
	operation := func() error {
		var err error
		text, err = c.generate(ctx, body)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return text, nil
}

// generate performs a single generateContent call. Client-side errors (4xx
// other than 429) are wrapped in backoff.Permanent so they are not retried.
func (c *Client) generate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshalling completion request: %w", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("creating completion request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	q := httpReq.URL.Query()
	q.Add("key", c.apiKey)
	httpReq.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, truncateForLog(respBody))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return "", apiErr
		}
		return "", backoff.Permanent(core.NewError(core.KindServiceUnavailable,
			"completion backend rejected the request", apiErr))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decoding completion response: %w", err))
	}
	if parsed.Error != nil {
		return "", backoff.Permanent(core.NewError(core.KindServiceUnavailable,
			"completion backend reported an error", fmt.Errorf("%s: %s", parsed.Error.Status, parsed.Error.Message)))
	}
	if len(parsed.Candidates) == 0 {
		return "", backoff.Permanent(core.NewError(core.KindUpstream,
			"completion backend returned no candidates", nil))
	}

	var b strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

func truncateForLog(b []byte) string {
	const limit = 512
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}
