package models

import "time"

const (
	// SourceTypeTranscript is a parliamentary debate transcript
	SourceTypeTranscript = "transcript"
	// SourceTypeGazette is a government gazette notice
	SourceTypeGazette = "gazette"
	// SourceTypeBill is draft legislation text
	SourceTypeBill = "bill"
	// SourceTypeSummary is an AI-generated summary artifact
	SourceTypeSummary = "summary"
)

// Document represents a normalized document from any source.
// PRIMARY CONTENT FORMAT: Markdown (ContentMarkdown field).
type Document struct {
	// Identity
	ID         string `json:"id"`          // doc_{uuid}
	SourceType string `json:"source_type"` // transcript, gazette, bill, summary
	SourceID   string `json:"source_id"`   // Original ID from source (e.g. sitting date, gazette number)

	// Content (markdown-first)
	Title           string `json:"title"`
	ContentMarkdown string `json:"content_markdown"`

	// Structuring stats
	SegmentCount int `json:"segment_count"` // Segments emitted when the document was structured (0 for summaries)

	// Metadata (source-specific data, e.g. {"chamber": "house", "session": "47-1"})
	Metadata map[string]interface{} `json:"metadata"`
	URL      string                 `json:"url"` // Link to original

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
