package llm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
)

func newTestFactory(t *testing.T) *ProviderFactory {
	t.Helper()

	factory, err := NewProviderFactory(
		&common.GeminiConfig{APIKey: "test-gemini-key", Model: "gemini-2.0-flash", Timeout: "5m"},
		&common.ClaudeConfig{APIKey: "test-claude-key", Model: "claude-haiku-3-5-20241022", MaxTokens: 1024, Timeout: "5m"},
		&common.LLMConfig{DefaultProvider: common.LLMProviderClaude},
		arbor.NewLogger(),
	)
	require.NoError(t, err)
	return factory
}

func TestNewProviderFactory_InvalidTimeout(t *testing.T) {
	_, err := NewProviderFactory(
		&common.GeminiConfig{Timeout: "5m"},
		&common.ClaudeConfig{Timeout: "later"},
		&common.LLMConfig{DefaultProvider: common.LLMProviderClaude},
		arbor.NewLogger(),
	)
	require.Error(t, err)
}

func TestModel_FollowsDefaultProvider(t *testing.T) {
	factory := newTestFactory(t)
	assert.Equal(t, "claude-haiku-3-5-20241022", factory.Model())

	factory.llmConfig.DefaultProvider = common.LLMProviderGemini
	assert.Equal(t, "gemini-2.0-flash", factory.Model())
}

func TestGetClaudeClient_MissingKey(t *testing.T) {
	factory := newTestFactory(t)
	factory.claudeConfig.APIKey = ""

	_, err := factory.getClaudeClient()
	require.Error(t, err)
}

// Map workers share one factory, so first-use client creation must be
// safe to race from many goroutines.
func TestGetClaudeClient_ConcurrentFirstUse(t *testing.T) {
	factory := newTestFactory(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = factory.getClaudeClient()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "goroutine %d", i)
	}
	assert.True(t, factory.claudeReady)

	require.NoError(t, factory.Close())
	assert.False(t, factory.claudeReady)
}
