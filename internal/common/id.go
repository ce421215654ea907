package common

import (
	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewJobID generates a unique job ID with the "job_" prefix.
// Job ids are never reused; every submission gets a fresh one.
// Format: job_<uuid>
func NewJobID() string {
	return "job_" + uuid.New().String()
}
