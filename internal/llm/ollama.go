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

	"go.uber.org/zap"
)

// OllamaModel talks to a local Ollama server through its /api/chat endpoint.
type OllamaModel struct {
	BaseURL     string
	Model       string
	Temperature float32
	Client      *http.Client
	logger      *zap.Logger
}

// NewOllamaModel creates an Ollama-backed model.
func NewOllamaModel(baseURL, model string, temperature float32, timeout time.Duration, logger *zap.Logger) *OllamaModel {
	return &OllamaModel{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Model:       model,
		Temperature: temperature,
		Client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (m *OllamaModel) Name() string { return "ollama/" + m.Model }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error"`
}

func (m *OllamaModel) Invoke(ctx context.Context, prompt string) (*Response, error) {
	payload := ollamaChatRequest{
		Model:    m.Model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
	}
	if m.Temperature > 0 {
		payload.Options = map[string]any{"temperature": m.Temperature}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	endpoint := m.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw), Endpoint: endpoint}
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("ollama decode: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama: %s", out.Error)
	}

	m.logger.Debug("model call completed",
		zap.String("model", m.Name()),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("response_len", len(out.Message.Content)),
		zap.Duration("duration", time.Since(start)))

	return &Response{Content: out.Message.Content}, nil
}
