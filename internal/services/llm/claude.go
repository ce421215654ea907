package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

// generateWithClaude calls the Anthropic Messages API with rate limit retry
func (f *ProviderFactory) generateWithClaude(ctx context.Context, instructions, payload string) (string, error) {
	client, err := f.getClaudeClient()
	if err != nil {
		return "", err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(f.claudeConfig.Model),
		MaxTokens: int64(f.claudeConfig.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(payload)),
		},
	}
	if instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: instructions}}
	}
	if f.claudeConfig.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(f.claudeConfig.Temperature))
	}

	retryConfig := NewDefaultRetryConfig()

	var resp *anthropic.Message
	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, err = client.Messages.New(ctx, params)
		if err == nil {
			break
		}

		if !IsRateLimitError(err) || attempt == retryConfig.MaxRetries {
			return "", fmt.Errorf("claude generation failed: %w", err)
		}

		backoff := retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(err))
		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Claude rate limited, backing off before retry")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return text, nil
}
