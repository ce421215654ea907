package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/interfaces"
	"github.com/ternarybob/hansard/internal/models"
	"github.com/ternarybob/hansard/internal/services/chunker"
)

// DefaultMaxWorkers bounds concurrent map calls when no limit is configured
const DefaultMaxWorkers = 4

// MapFunc summarizes a single chunk. An error or empty result drops the
// chunk's partial without aborting the run.
type MapFunc func(ctx context.Context, chunk models.Chunk) (string, error)

// ReduceFunc combines ordered partial results into the final summary
type ReduceFunc func(ctx context.Context, partials []models.PartialResult) (string, error)

// Service runs map-reduce summarization over flattened document text.
// The map phase fans out over fixed-size chunks with bounded concurrency;
// the reduce phase runs exactly once over the surviving partials.
type Service struct {
	llm        interfaces.LLMService
	chunkSize  int
	maxWorkers int
	logger     arbor.ILogger
	mapFn      MapFunc
	reduceFn   ReduceFunc
}

// NewService creates a summarizer backed by the given LLM service
func NewService(llm interfaces.LLMService, config *common.SummarizerConfig, logger arbor.ILogger) *Service {
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	s := &Service{
		llm:        llm,
		chunkSize:  chunkSize,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
	s.mapFn = s.summarizeChunk
	s.reduceFn = s.combinePartials
	return s
}

// WithMapFunc overrides the per-chunk summarization step
func (s *Service) WithMapFunc(fn MapFunc) *Service {
	s.mapFn = fn
	return s
}

// WithReduceFunc overrides the combination step
func (s *Service) WithReduceFunc(fn ReduceFunc) *Service {
	s.reduceFn = fn
	return s
}

// Summarize runs the full map-reduce pipeline over text and always
// returns an artifact describing the outcome. Degraded outcomes
// (no usable content, reduce failure) are results, not errors; the
// error return is reserved for configuration and context problems.
func (s *Service) Summarize(ctx context.Context, text string) (*models.SummaryArtifact, error) {
	chunks, err := chunker.Split(text, s.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk input: %w", err)
	}

	startTime := time.Now()
	s.logger.Info().
		Int("chunk_count", len(chunks)).
		Int("chunk_size", s.chunkSize).
		Int("max_workers", s.maxWorkers).
		Msg("Starting map-reduce summarization")

	partials := s.mapChunks(ctx, chunks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifact := &models.SummaryArtifact{
		ChunkCount:  len(chunks),
		UsedChunks:  len(partials),
		Model:       s.llm.Model(),
		GeneratedAt: time.Now().UTC(),
	}

	if len(partials) == 0 {
		s.logger.Warn().
			Int("chunk_count", len(chunks)).
			Msg("No chunk produced usable content")
		artifact.Outcome = models.OutcomeNoContent
		return artifact, nil
	}

	combined, err := s.reduceFn(ctx, partials)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("partial_count", len(partials)).
			Msg("Reduce step failed, returning joined partial summaries")
		artifact.Outcome = models.OutcomeReduceFailed
		artifact.Content = joinPartials(partials)
		return artifact, nil
	}

	artifact.Outcome = models.OutcomeComplete
	artifact.Content = combined

	s.logger.Info().
		Int("chunk_count", len(chunks)).
		Int("used_chunks", len(partials)).
		Dur("duration", time.Since(startTime)).
		Msg("Summarization completed")

	return artifact, nil
}

// mapChunks fans the map step out over chunks with at most maxWorkers
// concurrent calls, then collects the surviving partials in chunk order.
func (s *Service) mapChunks(ctx context.Context, chunks []models.Chunk) []models.PartialResult {
	results := make([]string, len(chunks))
	semaphore := make(chan struct{}, s.maxWorkers)

	var wg sync.WaitGroup
	for _, chunk := range chunks {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(chunk models.Chunk) {
			defer wg.Done()
			defer func() { <-semaphore }()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().
						Int("chunk_index", chunk.Index).
						Str("panic", fmt.Sprintf("%v", r)).
						Msg("Map step panicked, dropping chunk")
				}
			}()

			summary, err := s.mapFn(ctx, chunk)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Int("chunk_index", chunk.Index).
					Msg("Map step failed for chunk, continuing without it")
				return
			}
			results[chunk.Index] = summary
		}(chunk)
	}
	wg.Wait()

	partials := make([]models.PartialResult, 0, len(chunks))
	for index, summary := range results {
		if strings.TrimSpace(summary) == "" {
			continue
		}
		partials = append(partials, models.PartialResult{
			ChunkIndex:  index,
			SummaryText: summary,
		})
	}
	return partials
}

// summarizeChunk is the default map step
func (s *Service) summarizeChunk(ctx context.Context, chunk models.Chunk) (string, error) {
	if strings.TrimSpace(chunk.Text) == "" {
		return "", nil
	}
	return s.llm.Generate(ctx, mapInstructions, chunk.Text)
}

// combinePartials is the default reduce step
func (s *Service) combinePartials(ctx context.Context, partials []models.PartialResult) (string, error) {
	if len(partials) == 1 {
		return partials[0].SummaryText, nil
	}
	return s.llm.Generate(ctx, reduceInstructions, joinPartials(partials))
}

// joinPartials concatenates partial summaries in chunk order
func joinPartials(partials []models.PartialResult) string {
	var builder strings.Builder
	for i, partial := range partials {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(partial.SummaryText)
	}
	return builder.String()
}
