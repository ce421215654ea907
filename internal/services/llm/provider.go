package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/interfaces"
	"google.golang.org/genai"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// ProviderFactory creates and manages AI provider clients. It implements
// interfaces.LLMService: a fallible function from (instructions, payload)
// to text. Generate is called concurrently by the summarizer's map
// workers, so lazy client creation is serialized by clientMu.
type ProviderFactory struct {
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger
	timeout      time.Duration

	clientMu     sync.Mutex
	geminiClient *genai.Client
	claudeClient anthropic.Client
	claudeReady  bool
}

// Compile-time assertion: ProviderFactory implements LLMService
var _ interfaces.LLMService = (*ProviderFactory)(nil)

// NewProviderFactory creates a new provider factory
func NewProviderFactory(
	geminiConfig *common.GeminiConfig,
	claudeConfig *common.ClaudeConfig,
	llmConfig *common.LLMConfig,
	logger arbor.ILogger,
) (*ProviderFactory, error) {
	f := &ProviderFactory{
		geminiConfig: geminiConfig,
		claudeConfig: claudeConfig,
		llmConfig:    llmConfig,
		logger:       logger,
		timeout:      5 * time.Minute,
	}

	timeoutStr := geminiConfig.Timeout
	if ProviderType(llmConfig.DefaultProvider) == ProviderClaude {
		timeoutStr = claudeConfig.Timeout
	}
	if timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", timeoutStr, err)
		}
		f.timeout = timeout
	}

	logger.Debug().
		Str("default_provider", string(llmConfig.DefaultProvider)).
		Dur("timeout", f.timeout).
		Msg("LLM provider factory initialized")

	return f, nil
}

// Model returns the default model identifier Generate will use
func (f *ProviderFactory) Model() string {
	switch ProviderType(f.llmConfig.DefaultProvider) {
	case ProviderClaude:
		return f.claudeConfig.Model
	default:
		return f.geminiConfig.Model
	}
}

// Generate produces text for the given instructions and payload using the
// configured default provider. Empty or whitespace-only provider output is
// reported as an error; callers treat that as an expected failure mode.
func (f *ProviderFactory) Generate(ctx context.Context, instructions, payload string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", fmt.Errorf("payload cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	provider := ProviderType(f.llmConfig.DefaultProvider)
	startTime := time.Now()

	f.logger.Debug().
		Str("provider", string(provider)).
		Int("payload_length", len(payload)).
		Msg("Generating content with provider")

	var text string
	var err error
	switch provider {
	case ProviderClaude:
		text, err = f.generateWithClaude(timeoutCtx, instructions, payload)
	default:
		text, err = f.generateWithGemini(timeoutCtx, instructions, payload)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("provider %s returned empty content", provider)
	}

	f.logger.Debug().
		Str("provider", string(provider)).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Content generation completed")

	return text, nil
}

// getGeminiClient returns a Gemini client, creating one on first use
func (f *ProviderFactory) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	f.clientMu.Lock()
	defer f.clientMu.Unlock()

	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	if f.geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.geminiClient = client
	return client, nil
}

// getClaudeClient returns a Claude client, creating one on first use
func (f *ProviderFactory) getClaudeClient() (anthropic.Client, error) {
	f.clientMu.Lock()
	defer f.clientMu.Unlock()

	if f.claudeReady {
		return f.claudeClient, nil
	}

	if f.claudeConfig.APIKey == "" {
		return anthropic.Client{}, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	f.claudeClient = anthropic.NewClient(
		option.WithAPIKey(f.claudeConfig.APIKey),
	)
	f.claudeReady = true
	return f.claudeClient, nil
}

// Close releases all provider clients
func (f *ProviderFactory) Close() error {
	f.clientMu.Lock()
	defer f.clientMu.Unlock()

	f.geminiClient = nil
	f.claudeClient = anthropic.Client{}
	f.claudeReady = false
	return nil
}
