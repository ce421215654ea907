package models

// Chunk is a contiguous slice of a flattened transcript.
// Concatenating all chunks' Text in Index order reproduces the original
// text exactly: no overlap, no gap.
type Chunk struct {
	Index int    `json:"index"` // 0-based position in the original sequence
	Text  string `json:"text"`  // Length bounded by the configured chunk size
}
