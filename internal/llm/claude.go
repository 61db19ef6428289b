package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// ClaudeModel invokes Anthropic Claude through the Messages API.
type ClaudeModel struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClaudeModel creates a Claude-backed model. Extra request options are
// appended after the API key, which lets tests point the client elsewhere.
func NewClaudeModel(apiKey, model string, maxTokens int, temperature float32, timeout time.Duration, logger *zap.Logger, opts ...option.RequestOption) *ClaudeModel {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &ClaudeModel{
		client:      anthropic.NewClient(reqOpts...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

func (m *ClaudeModel) Name() string { return "claude/" + m.model }

func (m *ClaudeModel) Invoke(ctx context.Context, prompt string) (*Response, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: int64(m.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if m.temperature > 0 {
		params.Temperature = anthropic.Float(float64(m.temperature))
	}

	start := time.Now()
	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude messages: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("claude: empty response")
	}

	m.logger.Debug("model call completed",
		zap.String("model", m.Name()),
		zap.Int("response_len", text.Len()),
		zap.Duration("duration", time.Since(start)))

	return &Response{Content: text.String()}, nil
}
