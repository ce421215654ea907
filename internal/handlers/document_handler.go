package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/document"
	"github.com/ternarybob/hansard/internal/interfaces"
	"github.com/ternarybob/hansard/internal/models"
	"github.com/ternarybob/hansard/internal/services/transform"
)

type DocumentHandler struct {
	storage      interfaces.DocumentStorage
	structurer   *document.Structurer
	transformer  *transform.Service
	rootSelector string
	logger       arbor.ILogger
}

func NewDocumentHandler(
	storage interfaces.DocumentStorage,
	structurer *document.Structurer,
	transformer *transform.Service,
	config *common.StructurerConfig,
	logger arbor.ILogger,
) *DocumentHandler {
	rootSelector := config.RootSelector
	if rootSelector == "" {
		rootSelector = "body"
	}
	return &DocumentHandler{
		storage:      storage,
		structurer:   structurer,
		transformer:  transformer,
		rootSelector: rootSelector,
		logger:       logger,
	}
}

// IngestRequest is the body of POST /api/documents
type IngestRequest struct {
	SourceType string                 `json:"source_type"`
	SourceID   string                 `json:"source_id"`
	Title      string                 `json:"title"`
	HTML       string                 `json:"html"`
	URL        string                 `json:"url,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// IngestHandler accepts a raw HTML transcript or gazette, structures it
// into ordered segments, and stores the flattened markdown document
func (h *DocumentHandler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.SourceType == "" {
		req.SourceType = models.SourceTypeTranscript
	}
	if err := h.transformer.ValidateHTML(req.HTML); err != nil {
		WriteError(w, http.StatusBadRequest, "html field is required and must contain HTML")
		return
	}

	root, err := document.ParseHTML(req.HTML, h.rootSelector)
	if err != nil {
		if errors.Is(err, document.ErrMissingRoot) {
			WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("Failed to parse document markup")
		WriteError(w, http.StatusUnprocessableEntity, "Failed to parse document markup")
		return
	}

	segments, err := h.structurer.Structure(root)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Structured transcripts flatten deterministically; anything that
	// yields no recognized segments falls back to whole-page conversion.
	var contentMarkdown string
	if len(segments) > 0 {
		contentMarkdown = document.Flatten(segments)
	} else {
		contentMarkdown, err = h.transformer.HTMLToMarkdown(req.HTML, req.URL)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to convert document to markdown")
			WriteError(w, http.StatusInternalServerError, "Failed to convert document")
			return
		}
	}

	doc := &models.Document{
		ID:              common.NewDocumentID(),
		SourceType:      req.SourceType,
		SourceID:        req.SourceID,
		Title:           req.Title,
		ContentMarkdown: contentMarkdown,
		SegmentCount:    len(segments),
		Metadata:        req.Metadata,
		URL:             req.URL,
	}

	if err := h.storage.SaveDocument(doc); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save document")
		WriteError(w, http.StatusInternalServerError, "Failed to save document")
		return
	}

	h.logger.Info().
		Str("document_id", doc.ID).
		Str("source_type", doc.SourceType).
		Int("segment_count", doc.SegmentCount).
		Msg("Document ingested")

	WriteJSON(w, http.StatusCreated, doc)
}

// ListHandler returns documents with optional source_type filtering and
// limit/offset pagination
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit, offset := GetListParams(r)
	opts := &interfaces.ListOptions{
		SourceType: r.URL.Query().Get("source_type"),
		Limit:      limit,
		Offset:     offset,
	}

	docs, err := h.storage.ListDocuments(opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list documents")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
		"limit":     limit,
		"offset":    offset,
	})
}

// StatsHandler returns per-source document counts
func (h *DocumentHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	total, err := h.storage.CountDocuments()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count documents")
		WriteError(w, http.StatusInternalServerError, "Failed to get statistics")
		return
	}

	bySource := make(map[string]int)
	for _, sourceType := range []string{
		models.SourceTypeTranscript,
		models.SourceTypeGazette,
		models.SourceTypeBill,
		models.SourceTypeSummary,
	} {
		count, err := h.storage.CountDocumentsBySource(sourceType)
		if err != nil {
			continue
		}
		bySource[sourceType] = count
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"total_documents": total,
		"by_source":       bySource,
	})
}

// DocumentByIDHandler dispatches GET/DELETE /api/documents/{id}
func (h *DocumentHandler) DocumentByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Document not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getDocument(w, r, id)
	case http.MethodDelete:
		h.deleteDocument(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// getDocument returns one document; ?format=html renders the stored
// markdown for browser display
func (h *DocumentHandler) getDocument(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := h.storage.GetDocument(id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Document not found")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := h.transformer.MarkdownToHTML(doc.ContentMarkdown)
		if err != nil {
			h.logger.Error().Err(err).Str("document_id", id).Msg("Failed to render document")
			WriteError(w, http.StatusInternalServerError, "Failed to render document")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) deleteDocument(w http.ResponseWriter, id string) {
	if err := h.storage.DeleteDocument(id); err != nil {
		h.logger.Error().Err(err).Str("document_id", id).Msg("Failed to delete document")
		WriteError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
		"id":     id,
	})
}
