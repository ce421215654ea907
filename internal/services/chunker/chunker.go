package chunker

import (
	"errors"
	"iter"

	"github.com/ternarybob/hansard/internal/models"
)

// DefaultChunkSize is the map-chunk bound used when no size is configured
const DefaultChunkSize = 8000

// ErrInvalidChunkSize is returned for a non-positive maxSize. This is a
// programming error in the caller's configuration, not a runtime
// condition of the input text.
var ErrInvalidChunkSize = errors.New("chunk size must be greater than zero")

// All returns a lazy, restartable sequence of chunks covering text.
// Splitting is raw byte-offset based with no word or sentence awareness:
// a chunk may cut a sentence mid-word. That is a deliberate
// simplicity-over-semantics trade-off.
//
// Concatenating the yielded chunks' Text in Index order reproduces text
// exactly. A text shorter than maxSize yields exactly one chunk; empty
// text yields one empty chunk.
func All(text string, maxSize int) iter.Seq[models.Chunk] {
	return func(yield func(models.Chunk) bool) {
		if maxSize <= 0 {
			return
		}
		for index, offset := 0, 0; ; index, offset = index+1, offset+maxSize {
			end := offset + maxSize
			if end > len(text) {
				end = len(text)
			}
			if !yield(models.Chunk{Index: index, Text: text[offset:end]}) {
				return
			}
			if end == len(text) {
				return
			}
		}
	}
}

// Split collects the full chunk sequence for text. maxSize must be > 0.
func Split(text string, maxSize int) ([]models.Chunk, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	chunks := make([]models.Chunk, 0, len(text)/maxSize+1)
	for chunk := range All(text, maxSize) {
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Count returns how many chunks Split would produce without materializing
// them. maxSize must be > 0.
func Count(textLen, maxSize int) int {
	if maxSize <= 0 {
		return 0
	}
	if textLen == 0 {
		return 1
	}
	return (textLen + maxSize - 1) / maxSize
}
