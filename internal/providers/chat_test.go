package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *ChatCompletions {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewChatCompletions("test-key", Options{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
}

func testRequest() ReviewRequest {
	return ReviewRequest{
		SystemPrompt: "system persona",
		UserPrompt:   "### File: a.txt\n```diff\n-x\n+y\n```",
		Temperature:  DefaultTemperature,
	}
}

func TestChatCompletions_Review(t *testing.T) {
	var got map[string]any
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"## Summary\nNo breaking changes."}},{"message":{"content":"second"}}],"usage":{"total_tokens":42}}`))
	})

	resp, err := p.Review(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "## Summary\nNo breaking changes.", resp.Content)
	assert.Equal(t, 42, resp.TokensUsed)

	assert.Equal(t, DefaultModel, got["model"])
	assert.InDelta(t, 0.3, got["temperature"], 1e-9)
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	user := messages[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "system persona", system["content"])
	assert.Equal(t, "user", user["role"])
	assert.Contains(t, user["content"], "a.txt")
}

func TestChatCompletions_ServiceError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"context length exceeded"}}`))
	})

	_, err := p.Review(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrService)

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, se.Body, "context length exceeded")
	assert.False(t, IsAuthError(err))
}

func TestChatCompletions_AuthError(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			w.Write([]byte(`{"error":"invalid key"}`))
		})
		_, err := p.Review(context.Background(), testRequest())
		assert.True(t, IsAuthError(err), "status %d should be an auth error", code)
	}
}

func TestChatCompletions_NoRetry(t *testing.T) {
	attempts := 0
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.Review(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrService)
	assert.Equal(t, 1, attempts)
}

func TestChatCompletions_ServiceErrorBodyUnreadable(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		// Promise more bytes than are sent so reading the body fails.
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("short"))
	})

	_, err := p.Review(context.Background(), testRequest())
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "unknown error", se.Body)
}

func TestChatCompletions_Malformed(t *testing.T) {
	bodies := map[string]string{
		"not json":        `<html>gateway</html>`,
		"missing choices": `{"id":"abc"}`,
		"null choices":    `{"choices":null}`,
		"wrong type":      `{"choices":"nope"}`,
		"no content":      `{"choices":[{"message":{"role":"assistant"}}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := p.Review(context.Background(), testRequest())
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestChatCompletions_EmptyChoices(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := p.Review(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestChatCompletions_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewChatCompletions("test-key", Options{BaseURL: url, Timeout: 2 * time.Second})
	_, err := p.Review(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestChatCompletions_CancelledIsTransportError(t *testing.T) {
	release := make(chan struct{})
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Review(ctx, testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewChatCompletions_Defaults(t *testing.T) {
	p := NewChatCompletions("k", Options{})
	assert.Equal(t, DefaultModel, p.Model())
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultTimeout, p.client.Timeout)
	assert.Equal(t, "moonshot", p.Name())

	p = NewChatCompletions("k", Options{Model: "moonshot-v1-128k", Timeout: time.Minute})
	assert.Equal(t, "moonshot-v1-128k", p.Model())
	assert.Equal(t, time.Minute, p.client.Timeout)
}

func TestServiceError_Message(t *testing.T) {
	err := &ServiceError{StatusCode: 500, Body: "boom"}
	assert.Equal(t, "API request failed with status 500: boom", err.Error())
}
