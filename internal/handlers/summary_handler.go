package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/interfaces"
	"github.com/ternarybob/hansard/internal/jobs"
	"github.com/ternarybob/hansard/internal/models"
	"github.com/ternarybob/hansard/internal/services/summarizer"
)

type SummaryHandler struct {
	summarizer *summarizer.Service
	registry   *jobs.Registry
	storage    interfaces.DocumentStorage
	logger     arbor.ILogger
}

func NewSummaryHandler(
	summaryService *summarizer.Service,
	registry *jobs.Registry,
	storage interfaces.DocumentStorage,
	logger arbor.ILogger,
) *SummaryHandler {
	return &SummaryHandler{
		summarizer: summaryService,
		registry:   registry,
		storage:    storage,
		logger:     logger,
	}
}

// SummaryRequest is the body of POST /api/summaries. Exactly one of
// DocumentID or Text must be provided.
type SummaryRequest struct {
	DocumentID string `json:"document_id,omitempty"`
	Text       string `json:"text,omitempty"`
}

// SubmitHandler starts an asynchronous summarization job and returns its
// id immediately. Submitting the same document twice starts two
// independent jobs.
func (h *SummaryHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if (req.DocumentID == "") == (req.Text == "") {
		WriteError(w, http.StatusBadRequest, "Provide exactly one of document_id or text")
		return
	}

	text := req.Text
	documentID := req.DocumentID
	if documentID != "" {
		doc, err := h.storage.GetDocument(documentID)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Document not found: %s", documentID))
			return
		}
		text = doc.ContentMarkdown
	}

	jobID := h.registry.Submit(func(ctx context.Context) (*models.SummaryArtifact, error) {
		artifact, err := h.summarizer.Summarize(ctx, text)
		if err != nil {
			return nil, err
		}
		h.persistArtifact(documentID, artifact)
		return artifact, nil
	})

	h.logger.Info().
		Str("job_id", jobID).
		Str("document_id", documentID).
		Int("text_length", len(text)).
		Msg("Summarization job submitted")

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"state":  string(models.JobStatePending),
	})
}

// persistArtifact stores a usable summary as its own document so it
// survives job eviction. Degraded artifacts are not persisted.
func (h *SummaryHandler) persistArtifact(documentID string, artifact *models.SummaryArtifact) {
	if artifact.IsDegraded() {
		return
	}

	doc := &models.Document{
		ID:              common.NewDocumentID(),
		SourceType:      models.SourceTypeSummary,
		SourceID:        documentID,
		Title:           "Summary",
		ContentMarkdown: artifact.Content,
		Metadata: map[string]interface{}{
			"outcome":     string(artifact.Outcome),
			"chunk_count": artifact.ChunkCount,
			"used_chunks": artifact.UsedChunks,
			"model":       artifact.Model,
		},
	}
	if err := h.storage.SaveDocument(doc); err != nil {
		h.logger.Warn().Err(err).Str("source_id", documentID).Msg("Failed to persist summary document")
	}
}

// PollHandler handles GET /api/jobs/{id}. A pending job returns its
// current state; an unknown or evicted id returns 404.
func (h *SummaryHandler) PollHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	snapshot, err := h.registry.Poll(id)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Job not found: %s", id))
			return
		}
		h.logger.Error().Err(err).Str("job_id", id).Msg("Failed to poll job")
		WriteError(w, http.StatusInternalServerError, "Failed to poll job")
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}
