package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Moonshot chat-completions endpoint.
	DefaultBaseURL = "https://api.moonshot.cn/v1/chat/completions"
	// DefaultModel is the Kimi model used for reviews.
	DefaultModel = "kimi-k2-0711-preview"
	// DefaultTemperature keeps the analysis focused and repeatable.
	DefaultTemperature = 0.3
	// DefaultTimeout bounds a single review call.
	DefaultTimeout = 120 * time.Second
)

// Options configures a ChatCompletions provider. Zero values take the defaults.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// HTTPClient replaces the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// ChatCompletions implements Reviewer for OpenAI-compatible chat-completions APIs.
type ChatCompletions struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewChatCompletions creates a provider authenticating with apiKey.
func NewChatCompletions(apiKey string, opts Options) *ChatCompletions {
	c := &ChatCompletions{
		apiKey:  apiKey,
		model:   opts.Model,
		baseURL: opts.BaseURL,
		client:  opts.HTTPClient,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	return c
}

func (c *ChatCompletions) Name() string { return "moonshot" }

// Model returns the model identifier sent with every request.
func (c *ChatCompletions) Model() string { return c.model }

func (c *ChatCompletions) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return ReviewResponse{}, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return ReviewResponse{}, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		text := "unknown error"
		if b, readErr := io.ReadAll(httpResp.Body); readErr == nil {
			text = string(b)
		}
		return ReviewResponse{}, &ServiceError{StatusCode: httpResp.StatusCode, Body: text}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return ReviewResponse{}, &TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ReviewResponse{}, &MalformedResponseError{Err: err}
	}
	// A JSON "[]" decodes to an empty non-nil slice; a missing or null field stays nil.
	if result.Choices == nil {
		return ReviewResponse{}, &MalformedResponseError{Err: errors.New(`missing "choices" field`)}
	}
	if len(result.Choices) == 0 {
		return ReviewResponse{}, ErrEmptyResponse
	}
	content := result.Choices[0].Message.Content
	if content == nil {
		return ReviewResponse{}, &MalformedResponseError{Err: errors.New("first choice has no message content")}
	}

	resp := ReviewResponse{Content: *content}
	if result.Usage != nil {
		resp.TokensUsed = result.Usage.TotalTokens
	}
	return resp, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
}

type chatUsage struct {
	TotalTokens int `json:"total_tokens"`
}
