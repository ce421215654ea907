package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/models"
)

// fakeLLM satisfies interfaces.LLMService without network calls
type fakeLLM struct{}

func (f *fakeLLM) Generate(ctx context.Context, instructions, payload string) (string, error) {
	return "generated: " + payload, nil
}
func (f *fakeLLM) Model() string { return "fake-model" }
func (f *fakeLLM) Close() error  { return nil }

func newTestService(t *testing.T, chunkSize, maxWorkers int) *Service {
	t.Helper()
	config := &common.SummarizerConfig{ChunkSize: chunkSize, MaxWorkers: maxWorkers}
	return NewService(&fakeLLM{}, config, arbor.NewLogger())
}

func TestSummarize_SingleChunkComplete(t *testing.T) {
	svc := newTestService(t, 8000, 2)

	artifact, err := svc.Summarize(context.Background(), "The House met at 10:00.")
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeComplete, artifact.Outcome)
	assert.Equal(t, 1, artifact.ChunkCount)
	assert.Equal(t, 1, artifact.UsedChunks)
	assert.Equal(t, "fake-model", artifact.Model)
	assert.Contains(t, artifact.Content, "The House met")
	assert.False(t, artifact.IsDegraded())
}

func TestSummarize_PreservesChunkOrder(t *testing.T) {
	svc := newTestService(t, 10, 4)

	// Later chunks finish first; collected output must still follow
	// document order.
	svc.WithMapFunc(func(ctx context.Context, chunk models.Chunk) (string, error) {
		time.Sleep(time.Duration(50-chunk.Index*10) * time.Millisecond)
		return fmt.Sprintf("part-%d", chunk.Index), nil
	})
	svc.WithReduceFunc(func(ctx context.Context, partials []models.PartialResult) (string, error) {
		parts := make([]string, len(partials))
		for i, p := range partials {
			parts[i] = p.SummaryText
		}
		return strings.Join(parts, "|"), nil
	})

	artifact, err := svc.Summarize(context.Background(), strings.Repeat("z", 45))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeComplete, artifact.Outcome)
	assert.Equal(t, "part-0|part-1|part-2|part-3|part-4", artifact.Content)
}

func TestSummarize_SingleChunkFailureDoesNotAbort(t *testing.T) {
	svc := newTestService(t, 10, 2)

	svc.WithMapFunc(func(ctx context.Context, chunk models.Chunk) (string, error) {
		if chunk.Index == 1 {
			return "", fmt.Errorf("rate limited")
		}
		return fmt.Sprintf("part-%d", chunk.Index), nil
	})
	svc.WithReduceFunc(func(ctx context.Context, partials []models.PartialResult) (string, error) {
		indices := make([]string, len(partials))
		for i, p := range partials {
			indices[i] = fmt.Sprintf("%d", p.ChunkIndex)
		}
		return strings.Join(indices, ","), nil
	})

	artifact, err := svc.Summarize(context.Background(), strings.Repeat("z", 30))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeComplete, artifact.Outcome)
	assert.Equal(t, 3, artifact.ChunkCount)
	assert.Equal(t, 2, artifact.UsedChunks)
	assert.Equal(t, "0,2", artifact.Content)
}

func TestSummarize_AllChunksFailIsNoContent(t *testing.T) {
	svc := newTestService(t, 10, 2)

	reduceCalled := false
	svc.WithMapFunc(func(ctx context.Context, chunk models.Chunk) (string, error) {
		return "", fmt.Errorf("provider unavailable")
	})
	svc.WithReduceFunc(func(ctx context.Context, partials []models.PartialResult) (string, error) {
		reduceCalled = true
		return "", nil
	})

	artifact, err := svc.Summarize(context.Background(), strings.Repeat("z", 30))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeNoContent, artifact.Outcome)
	assert.Empty(t, artifact.Content)
	assert.Equal(t, 0, artifact.UsedChunks)
	assert.True(t, artifact.IsDegraded())
	assert.False(t, reduceCalled, "reduce must not run with no surviving partials")
}

func TestSummarize_WhitespaceInputIsNoContent(t *testing.T) {
	svc := newTestService(t, 8000, 2)

	artifact, err := svc.Summarize(context.Background(), "   \n\t  ")
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeNoContent, artifact.Outcome)
	assert.Equal(t, 1, artifact.ChunkCount)
	assert.Equal(t, 0, artifact.UsedChunks)
}

func TestSummarize_ReduceFailureReturnsJoinedPartials(t *testing.T) {
	svc := newTestService(t, 10, 2)

	svc.WithMapFunc(func(ctx context.Context, chunk models.Chunk) (string, error) {
		return fmt.Sprintf("part-%d", chunk.Index), nil
	})
	svc.WithReduceFunc(func(ctx context.Context, partials []models.PartialResult) (string, error) {
		return "", fmt.Errorf("context length exceeded")
	})

	artifact, err := svc.Summarize(context.Background(), strings.Repeat("z", 30))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeReduceFailed, artifact.Outcome)
	assert.Equal(t, "part-0\n\npart-1\n\npart-2", artifact.Content)
	assert.True(t, artifact.IsDegraded())
}

func TestSummarize_BoundsConcurrentMapCalls(t *testing.T) {
	svc := newTestService(t, 5, 2)

	var inflight, peak atomic.Int32
	svc.WithMapFunc(func(ctx context.Context, chunk models.Chunk) (string, error) {
		current := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		return "part", nil
	})

	_, err := svc.Summarize(context.Background(), strings.Repeat("z", 50))
	require.NoError(t, err)

	assert.LessOrEqual(t, peak.Load(), int32(2), "map fan-out exceeded worker bound")
}

func TestSummarize_MapPanicDropsChunkOnly(t *testing.T) {
	svc := newTestService(t, 10, 2)

	svc.WithMapFunc(func(ctx context.Context, chunk models.Chunk) (string, error) {
		if chunk.Index == 0 {
			panic("boom")
		}
		return fmt.Sprintf("part-%d", chunk.Index), nil
	})
	svc.WithReduceFunc(func(ctx context.Context, partials []models.PartialResult) (string, error) {
		return joinPartials(partials), nil
	})

	artifact, err := svc.Summarize(context.Background(), strings.Repeat("z", 20))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeComplete, artifact.Outcome)
	assert.Equal(t, 1, artifact.UsedChunks)
	assert.Equal(t, "part-1", artifact.Content)
}

func TestSummarize_CancelledContext(t *testing.T) {
	svc := newTestService(t, 10, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Summarize(ctx, strings.Repeat("z", 50))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
