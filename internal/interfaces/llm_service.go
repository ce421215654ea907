package interfaces

import "context"

// LLMService is the boundary to the external language-model collaborator:
// a fallible function from (instructions, payload) to text. Unreliable
// output (empty content, invalid encoding) surfaces as an error, which is
// an expected failure mode for callers, not an exceptional condition.
type LLMService interface {
	// Generate produces text for the given instructions and payload
	// using the configured default provider. Safe for concurrent use.
	Generate(ctx context.Context, instructions, payload string) (string, error)

	// Model returns the model identifier Generate will use
	Model() string

	// Close releases provider clients
	Close() error
}
