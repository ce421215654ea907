package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/interfaces"
	"github.com/ternarybob/hansard/internal/jobs"
	"github.com/ternarybob/hansard/internal/models"
	"github.com/ternarybob/hansard/internal/services/summarizer"
)

// memoryStorage is an in-memory DocumentStorage for handler tests
type memoryStorage struct {
	docs map[string]*models.Document
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{docs: make(map[string]*models.Document)}
}

func (m *memoryStorage) SaveDocument(doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *memoryStorage) GetDocument(id string) (*models.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	return doc, nil
}

func (m *memoryStorage) GetDocumentBySource(sourceType, sourceID string) (*models.Document, error) {
	for _, doc := range m.docs {
		if doc.SourceType == sourceType && doc.SourceID == sourceID {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("document not found for source: %s/%s", sourceType, sourceID)
}

func (m *memoryStorage) ListDocuments(opts *interfaces.ListOptions) ([]*models.Document, error) {
	var result []*models.Document
	for _, doc := range m.docs {
		if opts != nil && opts.SourceType != "" && doc.SourceType != opts.SourceType {
			continue
		}
		result = append(result, doc)
	}
	return result, nil
}

func (m *memoryStorage) DeleteDocument(id string) error {
	delete(m.docs, id)
	return nil
}

func (m *memoryStorage) CountDocuments() (int, error) {
	return len(m.docs), nil
}

func (m *memoryStorage) CountDocumentsBySource(sourceType string) (int, error) {
	count := 0
	for _, doc := range m.docs {
		if doc.SourceType == sourceType {
			count++
		}
	}
	return count, nil
}

type stubLLM struct{}

func (s *stubLLM) Generate(ctx context.Context, instructions, payload string) (string, error) {
	return "summary of: " + payload[:min(len(payload), 20)], nil
}
func (s *stubLLM) Model() string { return "stub-model" }
func (s *stubLLM) Close() error  { return nil }

func newTestSummaryHandler(t *testing.T, storage interfaces.DocumentStorage) (*SummaryHandler, *jobs.Registry) {
	t.Helper()

	logger := arbor.NewLogger()
	summaryService := summarizer.NewService(&stubLLM{}, &common.SummarizerConfig{ChunkSize: 8000, MaxWorkers: 2}, logger)
	registry := jobs.NewRegistry(time.Hour, logger)
	t.Cleanup(func() { registry.Close() })

	return NewSummaryHandler(summaryService, registry, storage, logger), registry
}

func pollJob(t *testing.T, handler *SummaryHandler, jobID string) models.JobSnapshot {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID, nil)
		rec := httptest.NewRecorder()
		handler.PollHandler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot models.JobSnapshot
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
		if snapshot.State != models.JobStatePending {
			return snapshot
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
	return models.JobSnapshot{}
}

func TestSubmitHandler_TextToCompletedJob(t *testing.T) {
	handler, _ := newTestSummaryHandler(t, newMemoryStorage())

	body := `{"text": "Mr Speaker: The House will come to order."}`
	req := httptest.NewRequest(http.MethodPost, "/api/summaries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SubmitHandler(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&accepted))
	assert.NotEmpty(t, accepted["job_id"])
	assert.Equal(t, string(models.JobStatePending), accepted["state"])

	snapshot := pollJob(t, handler, accepted["job_id"])
	assert.Equal(t, models.JobStateCompleted, snapshot.State)
	require.NotNil(t, snapshot.Result)
	assert.Equal(t, models.OutcomeComplete, snapshot.Result.Outcome)
	assert.Contains(t, snapshot.Result.Content, "summary of:")
}

func TestSubmitHandler_DocumentIDResolvesContent(t *testing.T) {
	storage := newMemoryStorage()
	require.NoError(t, storage.SaveDocument(&models.Document{
		ID:              "doc_1",
		SourceType:      models.SourceTypeTranscript,
		ContentMarkdown: "Ms Plibersek: I support the motion.",
	}))

	handler, _ := newTestSummaryHandler(t, storage)

	req := httptest.NewRequest(http.MethodPost, "/api/summaries", strings.NewReader(`{"document_id": "doc_1"}`))
	rec := httptest.NewRecorder()
	handler.SubmitHandler(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&accepted))
	snapshot := pollJob(t, handler, accepted["job_id"])
	assert.Equal(t, models.JobStateCompleted, snapshot.State)

	// The completed summary is persisted as its own document
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if count, _ := storage.CountDocumentsBySource(models.SourceTypeSummary); count == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("summary document was never persisted")
}

func TestSubmitHandler_UnknownDocument(t *testing.T) {
	handler, _ := newTestSummaryHandler(t, newMemoryStorage())

	req := httptest.NewRequest(http.MethodPost, "/api/summaries", strings.NewReader(`{"document_id": "doc_missing"}`))
	rec := httptest.NewRecorder()
	handler.SubmitHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitHandler_RequiresExactlyOneSource(t *testing.T) {
	handler, _ := newTestSummaryHandler(t, newMemoryStorage())

	for _, body := range []string{`{}`, `{"document_id": "doc_1", "text": "both"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/summaries", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.SubmitHandler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestPollHandler_UnknownJob(t *testing.T) {
	handler, _ := newTestSummaryHandler(t, newMemoryStorage())

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/job_missing", nil)
	rec := httptest.NewRecorder()
	handler.PollHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPollHandler_PendingJobIsNot404(t *testing.T) {
	handler, registry := newTestSummaryHandler(t, newMemoryStorage())

	release := make(chan struct{})
	defer close(release)
	jobID := registry.Submit(func(ctx context.Context) (*models.SummaryArtifact, error) {
		<-release
		return &models.SummaryArtifact{Outcome: models.OutcomeComplete}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID, nil)
	rec := httptest.NewRecorder()
	handler.PollHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot models.JobSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, models.JobStatePending, snapshot.State)
	assert.Nil(t, snapshot.Result)
}
