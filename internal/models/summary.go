package models

import "time"

// PartialResult is the output of one map call over a single chunk.
// An empty SummaryText means the model declined or the call failed; the
// partial is excluded from the reduce input but does not abort the run.
type PartialResult struct {
	ChunkIndex  int    `json:"chunk_index"`
	SummaryText string `json:"summary_text"`
}

// SummaryOutcome classifies how a summarization run ended.
type SummaryOutcome string

const (
	// OutcomeComplete means reduce produced a usable final summary
	OutcomeComplete SummaryOutcome = "complete"
	// OutcomeNoContent means every map call failed or returned nothing
	OutcomeNoContent SummaryOutcome = "no_content"
	// OutcomeReduceFailed means map partials existed but the final
	// synthesis call failed or returned unusable output
	OutcomeReduceFailed SummaryOutcome = "reduce_failed"
)

// SummaryArtifact is the final result of a map-reduce summarization run.
// Degraded outcomes (no_content, reduce_failed) are results, not errors:
// the job that produced them still completes.
type SummaryArtifact struct {
	Outcome     SummaryOutcome `json:"outcome"`
	Content     string         `json:"content"`               // Final summary markdown, or a short explanation for degraded outcomes
	ChunkCount  int            `json:"chunk_count"`           // Total map chunks dispatched
	UsedChunks  int            `json:"used_chunks"`           // Partials that survived filtering into reduce
	Model       string         `json:"model,omitempty"`       // Model that produced the reduce output
	GeneratedAt time.Time      `json:"generated_at"`
}

// IsDegraded returns true when the artifact carries no usable summary
func (a *SummaryArtifact) IsDegraded() bool {
	return a.Outcome != OutcomeComplete
}
