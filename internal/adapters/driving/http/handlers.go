package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// maxBodyBytes bounds request bodies; editions carry raw document bytes
const maxBodyBytes = 32 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"document not found"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse reports the state of each dependency
// @Description Readiness response
type ReadyResponse struct {
	Status     string            `json:"status" example:"ready"`
	Components map[string]string `json:"components,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// IngestRequest is the body of a single-document ingestion
// @Description Document ingestion request
type IngestRequest struct {
	Document *domain.LegalDocument `json:"document"`
	Options  *chunking.Options     `json:"options,omitempty"`
}

// IngestBatchRequest is the body of a batch ingestion
// @Description Batch ingestion request
type IngestBatchRequest struct {
	Documents []*domain.LegalDocument `json:"documents"`
	Options   *chunking.Options       `json:"options,omitempty"`
}

// IngestBatchResponse keeps input order; failed documents have a nil result
// @Description Batch ingestion response
type IngestBatchResponse struct {
	Results []*domain.IngestionResult `json:"results"`
	Error   string                    `json:"error,omitempty"`
}

// BackfillResponse reports how many chunks were embedded
// @Description Embedding back-fill response
type BackfillResponse struct {
	DocumentID string `json:"document_id"`
	Embedded   int    `json:"embedded"`
}

// RefreshResponse is returned when a refresh was queued or found nothing new
// @Description Source refresh response
type RefreshResponse struct {
	DocumentID string                `json:"document_id"`
	Status     string                `json:"status" example:"unchanged"`
	TaskID     string                `json:"task_id,omitempty"`
	Edition    *domain.EditionRecord `json:"edition,omitempty"`
}

// ValidateSourceRequest carries a source URL to score
// @Description Source validation request
type ValidateSourceRequest struct {
	URL string `json:"url" example:"https://www.dof.gob.mx/nota_detalle.php?codigo=5000000"`
}

// SearchRequest is the body of a search
// @Description Search request
type SearchRequest struct {
	Query           string            `json:"query" example:"despido injustificado"`
	Mode            domain.SearchMode `json:"mode,omitempty" example:"hybrid"`
	Limit           int               `json:"limit,omitempty" example:"20"`
	Offset          int               `json:"offset,omitempty"`
	DocumentIDs     []string          `json:"document_ids,omitempty"`
	MinScore        float64           `json:"min_score,omitempty"`
	SortByRelevance bool              `json:"sort_by_relevance,omitempty"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the storage, cache and queue backends
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready", Components: make(map[string]string, len(s.pingers))}
	status := http.StatusOK
	for name, p := range s.pingers {
		if p == nil {
			continue
		}
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "component", name, "error", err)
			resp.Components[name] = "unavailable"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "ok"
	}
	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleSwagger serves the registered OpenAPI document
func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api documentation not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Document endpoints

// handleListDocuments godoc
// @Summary      List documents
// @Description  Returns every stored document ordered by id
// @Tags         Documents
// @Produce      json
// @Success      200  {array}   domain.LegalDocument
// @Failure      500  {object}  ErrorResponse
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docService.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []*domain.LegalDocument{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Returns a document with its content tree
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.LegalDocument
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocumentChunks godoc
// @Summary      Get document chunks
// @Description  Returns the chunk set of a document in chunk order
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {array}   domain.LegalChunk
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/chunks [get]
func (s *Server) handleGetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.docService.Chunks(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get chunks")
		return
	}
	if chunks == nil {
		chunks = []*domain.LegalChunk{}
	}
	writeJSON(w, http.StatusOK, chunks)
}

// handleIngest godoc
// @Summary      Ingest document
// @Description  Validates and stores a document, regenerates its chunks and back-fills embeddings when available
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      IngestRequest  true  "Document and chunking options"
// @Success      201      {object}  domain.IngestionResult
// @Failure      400      {object}  ErrorResponse
// @Router       /documents [post]
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Document == nil {
		writeError(w, http.StatusBadRequest, "document is required")
		return
	}

	result, err := s.ingestService.Ingest(r.Context(), req.Document, chunkOptions(req.Options))
	if err != nil {
		s.writeServiceError(w, err, "ingestion failed")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleIngestBatch godoc
// @Summary      Ingest documents
// @Description  Ingests documents concurrently. Results keep input order; a failed document has a null result.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      IngestBatchRequest  true  "Documents and chunking options"
// @Success      200      {object}  IngestBatchResponse
// @Success      207      {object}  IngestBatchResponse  "Some documents failed"
// @Failure      400      {object}  ErrorResponse
// @Router       /documents/batch [post]
func (s *Server) handleIngestBatch(w http.ResponseWriter, r *http.Request) {
	var req IngestBatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "documents are required")
		return
	}

	results, err := s.ingestService.IngestBatch(r.Context(), req.Documents, chunkOptions(req.Options))
	resp := IngestBatchResponse{Results: results}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, resp)
}

// handleReingest godoc
// @Summary      Re-ingest document
// @Description  Rebuilds the chunk set of a stored document
// @Tags         Ingestion
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.IngestionResult
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/reingest [post]
func (s *Server) handleReingest(w http.ResponseWriter, r *http.Request) {
	result, err := s.ingestService.Reingest(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "re-ingestion failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleBackfillEmbeddings godoc
// @Summary      Back-fill embeddings
// @Description  Embeds the chunks of a document that have no embedding yet
// @Tags         Ingestion
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  BackfillResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse  "No embedding service configured"
// @Router       /documents/{id}/embeddings [post]
func (s *Server) handleBackfillEmbeddings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	n, err := s.ingestService.BackfillEmbeddings(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, "embedding back-fill failed")
		return
	}
	writeJSON(w, http.StatusOK, BackfillResponse{DocumentID: id, Embedded: n})
}

// Lineage endpoints

// handleRecordEdition godoc
// @Summary      Record edition
// @Description  Archives the raw bytes of a new edition, computes custody, appends a version, diffs it against the previous edition and re-ingests
// @Tags         Lineage
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Document ID"
// @Param        request  body      domain.EditionRequest  true  "Edition"
// @Success      201      {object}  domain.EditionRecord
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse  "Edition already recorded"
// @Router       /documents/{id}/editions [post]
func (s *Server) handleRecordEdition(w http.ResponseWriter, r *http.Request) {
	var req domain.EditionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	if req.DocumentID != "" && req.DocumentID != id {
		writeError(w, http.StatusBadRequest, "document id in body does not match path")
		return
	}
	req.DocumentID = id

	record, err := s.lineageService.RecordEdition(r.Context(), &req)
	if err != nil {
		s.writeServiceError(w, err, "failed to record edition")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// handleRefresh godoc
// @Summary      Refresh from source
// @Description  Fetches the document's source URL and records a new edition when the bytes changed. Queued when a task queue is configured.
// @Tags         Lineage
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  RefreshResponse
// @Success      202  {object}  RefreshResponse  "Refresh queued"
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/refresh [post]
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if s.taskQueue != nil {
		task := domain.NewRefreshTask(id)
		if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
			s.writeServiceError(w, err, "failed to queue refresh")
			return
		}
		writeJSON(w, http.StatusAccepted, RefreshResponse{DocumentID: id, Status: "queued", TaskID: task.ID})
		return
	}

	record, err := s.lineageService.RefreshFromSource(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, "refresh failed")
		return
	}
	resp := RefreshResponse{DocumentID: id, Status: "unchanged"}
	if record != nil {
		resp.Status = "recorded"
		resp.Edition = record
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleVerify godoc
// @Summary      Verify integrity
// @Description  Re-hashes the archived bytes of the current edition against its custody record
// @Tags         Lineage
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.IntegrityResult
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/verify [post]
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	result, err := s.lineageService.VerifyIntegrity(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "integrity check failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetLineage godoc
// @Summary      Get lineage
// @Description  Returns provenance, custody and version history of a document
// @Tags         Lineage
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.DocumentLineage
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/lineage [get]
func (s *Server) handleGetLineage(w http.ResponseWriter, r *http.Request) {
	lineage, err := s.lineageService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get lineage")
		return
	}
	writeJSON(w, http.StatusOK, lineage)
}

// handleTimeline godoc
// @Summary      Get timeline
// @Description  Returns publication and effective events of every version in chronological order
// @Tags         Lineage
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {array}   domain.TimelineEvent
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/timeline [get]
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := s.lineageService.Timeline(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to build timeline")
		return
	}
	if events == nil {
		events = []domain.TimelineEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleConfidence godoc
// @Summary      Get confidence
// @Description  Returns the retrieval confidence of a document after temporal decay
// @Tags         Lineage
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.ConfidenceReport
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/confidence [get]
func (s *Server) handleConfidence(w http.ResponseWriter, r *http.Request) {
	report, err := s.lineageService.Confidence(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to compute confidence")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleCompare godoc
// @Summary      Compare versions
// @Description  Structural and text diff between two stored versions of a document
// @Tags         Lineage
// @Produce      json
// @Param        id    path      string  true  "Document ID"
// @Param        from  query     string  true  "Older version ID"
// @Param        to    query     string  true  "Newer version ID"
// @Success      200   {object}  domain.VersionDiff
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /documents/{id}/compare [get]
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to version ids are required")
		return
	}

	diff, err := s.lineageService.Compare(r.Context(), r.PathValue("id"), from, to)
	if err != nil {
		s.writeServiceError(w, err, "failed to compare versions")
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

// handleValidateSource godoc
// @Summary      Validate source
// @Description  Scores how trustworthy a source URL is
// @Tags         Lineage
// @Accept       json
// @Produce      json
// @Param        request  body      ValidateSourceRequest  true  "Source URL"
// @Success      200      {object}  domain.SourceValidation
// @Failure      400      {object}  ErrorResponse
// @Router       /sources/validate [post]
func (s *Server) handleValidateSource(w http.ResponseWriter, r *http.Request) {
	var req ValidateSourceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.lineageService.ValidateSource(req.URL))
}

// Search endpoints

// handleSearch godoc
// @Summary      Search chunks
// @Description  Ranks chunks semantically when embeddings are available and lexically otherwise
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      SearchRequest  true  "Search query and options"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  ErrorResponse
// @Router       /search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	opts := domain.DefaultSearchOptions()
	if req.Mode != "" {
		opts.Mode = req.Mode
	}
	if req.Limit > 0 {
		opts.Limit = req.Limit
	}
	opts.Offset = req.Offset
	opts.DocumentIDs = req.DocumentIDs
	opts.MinScore = req.MinScore
	opts.SortByRelevance = req.SortByRelevance

	result, err := s.searchService.Search(r.Context(), req.Query, opts)
	if err != nil {
		s.writeServiceError(w, err, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRelatedSections godoc
// @Summary      Related sections
// @Description  Returns the chunks most similar to a chunk
// @Tags         Search
// @Produce      json
// @Param        id     path      string  true   "Chunk ID"
// @Param        limit  query     int     false  "Maximum results"  default(5)
// @Success      200    {array}   domain.RelatedSection
// @Failure      404    {object}  ErrorResponse
// @Router       /chunks/{id}/related [get]
func (s *Server) handleRelatedSections(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	related, err := s.searchService.RelatedSections(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.writeServiceError(w, err, "failed to find related sections")
		return
	}
	if related == nil {
		related = []domain.RelatedSection{}
	}
	writeJSON(w, http.StatusOK, related)
}

// Admin endpoints

// handleQueueStats godoc
// @Summary      Queue statistics
// @Description  Returns task counts by status
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  driven.QueueStats
// @Failure      503  {object}  ErrorResponse  "No task queue configured"
// @Router       /admin/queue [get]
func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	if s.taskQueue == nil {
		writeError(w, http.StatusServiceUnavailable, "no task queue configured")
		return
	}
	stats, err := s.taskQueue.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to get queue stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func chunkOptions(opts *chunking.Options) chunking.Options {
	if opts == nil {
		return chunking.DefaultOptions()
	}
	return *opts
}

// decodeJSON writes a 400 and returns false when the body is not valid JSON
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps domain sentinel errors to status codes. Client
// errors carry the error text; server errors only the fallback message.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidProvider):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrIntegrity):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
