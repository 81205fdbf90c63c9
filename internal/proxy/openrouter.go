package proxy

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
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "upstage/solar-pro-3:free"

	defaultTimeout  = 60 * time.Second
	maxResponseSize = 8 << 20

	temperature = 0.3
	maxTokens   = 1024
)

// Client communicates with the OpenRouter chat completion API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	referer    string
	title      string
}

// NewClient creates an OpenRouter client with the given API key and model.
// An empty model selects DefaultModel.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		referer: "https://github.com/clipask/clipask",
		title:   "clipask",
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string { return c.model }

// Ask sends prompt as the user message under SystemPrompt in a single POST
// and returns the first choice's content. Any failure, including HTTP 429,
// is returned as an *APIError; Ask never panics on malformed input from the
// network.
func (c *Client) Ask(ctx context.Context, prompt string) (Answer, error) {
	body, err := json.Marshal(ChatRequest{
		Model:       c.model,
		Messages:    BuildMessages(prompt),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return Answer{}, transportError(fmt.Errorf("marshaling request: %w", err))
	}

	ans, apiErr := c.doAsk(ctx, body)
	if apiErr != nil {
		return Answer{}, apiErr
	}
	return ans, nil
}

func (c *Client) doAsk(ctx context.Context, body []byte) (Answer, *APIError) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Answer{}, transportError(fmt.Errorf("creating request: %w", err))
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Answer{}, transportError(fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Answer{}, transportError(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Answer{}, serviceError(resp.StatusCode, respBody)
	}

	var parsed ChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Answer{}, transportError(fmt.Errorf("decoding response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return Answer{}, &APIError{Kind: KindService, Message: errNoChoices}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return Answer{}, &APIError{Kind: KindService, Message: "empty answer"}
	}
	return Answer{Content: content}, nil
}

// serviceError prefers the structured {"error":{"message":...}} body and
// falls back to the raw body, or the status text when the body is empty.
func serviceError(status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != nil && eb.Error.Message != "" {
		msg = eb.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Kind: KindService, Code: status, Message: msg}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)
}
