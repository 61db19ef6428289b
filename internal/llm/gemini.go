package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiModel invokes Google Gemini through the genai SDK.
type GeminiModel struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewGeminiModel creates a Gemini-backed model.
func NewGeminiModel(ctx context.Context, apiKey, model string, maxTokens int, temperature float32, timeout time.Duration, logger *zap.Logger) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiModel{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

func (m *GeminiModel) Name() string { return "gemini/" + m.model }

func (m *GeminiModel) Invoke(ctx context.Context, prompt string) (*Response, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{}
	if m.temperature > 0 {
		cfg.Temperature = genai.Ptr(m.temperature)
	}
	if m.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(m.maxTokens)
	}

	start := time.Now()
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: empty response")
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini: empty text in response")
	}

	m.logger.Debug("model call completed",
		zap.String("model", m.Name()),
		zap.Int("response_len", len(text)),
		zap.Duration("duration", time.Since(start)))

	return &Response{Content: text}, nil
}
