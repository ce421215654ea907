package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// generateWithGemini calls the Gemini API with rate limit retry
func (f *ProviderFactory) generateWithGemini(ctx context.Context, instructions, payload string) (string, error) {
	client, err := f.getGeminiClient(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(payload)},
		},
	}

	config := &genai.GenerateContentConfig{}
	if f.geminiConfig.Temperature > 0 {
		config.Temperature = genai.Ptr(f.geminiConfig.Temperature)
	}
	if instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(instructions, genai.RoleUser)
	}

	retryConfig := NewDefaultRetryConfig()

	var resp *genai.GenerateContentResponse
	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, err = client.Models.GenerateContent(ctx, f.geminiConfig.Model, contents, config)
		if err == nil {
			break
		}

		if !IsRateLimitError(err) || attempt == retryConfig.MaxRetries {
			return "", fmt.Errorf("gemini generation failed: %w", err)
		}

		backoff := retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(err))
		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Gemini rate limited, backing off before retry")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return resp.Text(), nil
}
