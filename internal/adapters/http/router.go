package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
)

// Router exposes the document splitting API. Split requests started
// over HTTP run synchronously; the upload endpoint only ingests and
// leaves classification to the queue worker.
type Router struct {
	ingestor ports.DocumentIngestor
	splitter ports.DocumentSplitter
	repo     ports.DocumentRepository

	defaultConfig      domain.ClassifierConfig
	defaultCaseType    string
	defaultContentMode domain.ContentMode
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	splitter ports.DocumentSplitter,
	repo ports.DocumentRepository,
	defaultConfig domain.ClassifierConfig,
	defaultCaseType string,
	defaultContentMode domain.ContentMode,
) *Router {
	return &Router{
		ingestor:           ingestor,
		splitter:           splitter,
		repo:               repo,
		defaultConfig:      defaultConfig,
		defaultCaseType:    defaultCaseType,
		defaultContentMode: defaultContentMode,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentSubtree)
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

// documentSubtree dispatches /v1/documents/{id}[/split|/subdocuments].
func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch action {
	case "":
		rt.getDocumentByID(w, r, id)
	case "split":
		rt.splitDocument(w, r, id)
	case "subdocuments":
		rt.listSubDocuments(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
	}
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) splitDocument(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var body struct {
		CaseType    string `json:"case_type"`
		ContentMode string `json:"content_mode"`
		Force       bool   `json:"force"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
	}

	req := domain.SplitRequest{
		DocumentID:  id,
		Config:      rt.defaultConfig,
		ContentMode: rt.defaultContentMode,
		CaseType:    rt.defaultCaseType,
		Force:       body.Force,
	}
	if body.CaseType != "" {
		req.CaseType = body.CaseType
	}
	if body.ContentMode != "" {
		req.ContentMode = domain.ContentMode(body.ContentMode)
	}

	result, err := rt.splitter.SplitAndClassify(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) listSubDocuments(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	subdocs := doc.SubDocs
	if subdocs == nil {
		subdocs = []domain.SubDocument{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id":  doc.ID,
		"subdocuments": subdocs,
		"split_meta":   doc.SplitMeta,
		"status":       doc.Status,
	})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
