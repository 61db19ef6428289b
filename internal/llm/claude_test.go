package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClaudeModel_Invoke(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514",
"content":[{"type":"text","text":"Narrative "},{"type":"text","text":"report"}],
"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":2}}`))
	}))
	defer srv.Close()

	m := NewClaudeModel("test-key", "claude-sonnet-4-20250514", 1024, 0, time.Second,
		zaptest.NewLogger(t), option.WithBaseURL(srv.URL))
	resp, err := m.Invoke(context.Background(), "analyze")
	require.NoError(t, err)
	assert.Equal(t, "Narrative report", resp.Content)

	assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
	assert.Equal(t, float64(1024), body["max_tokens"])
}

func TestClaudeModel_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	m := NewClaudeModel("k", "claude-sonnet-4-20250514", 0, 0, time.Second,
		zaptest.NewLogger(t), option.WithBaseURL(srv.URL))
	_, err := m.Invoke(context.Background(), "p")
	assert.Error(t, err)
}
