package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded DocumentStatus = "uploaded"
	StatusParsing  DocumentStatus = "parsing"
	StatusReady    DocumentStatus = "ready"
	StatusFailed   DocumentStatus = "failed"
)

// ContentMode selects which page representation is rendered into
// classifier context.
type ContentMode string

const (
	ContentModeMarkdown ContentMode = "markdown"
	ContentModeHTML     ContentMode = "html"
)

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	FileSHA256  string         `json:"file_sha256"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	SubDocs     []SubDocument  `json:"subdocuments,omitempty"`
	SplitMeta   *SplitRunMeta  `json:"split_meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Page is one ordered content unit of a parent document. PageNumber is
// 1-based and unique within the document.
type Page struct {
	ID              string `json:"id"`
	DocumentID      string `json:"document_id"`
	PageNumber      int    `json:"page_number"`
	Content         string `json:"content,omitempty"`
	ContentMarkdown string `json:"content_markdown,omitempty"`
	ContentHTML     string `json:"content_html,omitempty"`
}

type SubDocumentPageRef struct {
	DocumentID string `json:"document_id"`
	PageID     string `json:"page_id"`
	PageNumber int    `json:"page_number"`
}

// SubDocument is the persisted realization of one classified segment,
// owned by its parent document and replaced wholesale on every
// successful reclassification.
type SubDocument struct {
	ID           string               `json:"id"`
	CaseType     string               `json:"case_type"`
	DocumentType string               `json:"document_type"`
	PageRefs     []SubDocumentPageRef `json:"page_refs"`
	CreatedAt    time.Time            `json:"created_at"`
}

// SplitRunMeta records the inputs of the last successful
// split-and-classify run; it drives the idempotency gate.
type SplitRunMeta struct {
	FileSHA256  string    `json:"file_sha256"`
	ConfigHash  string    `json:"config_hash"`
	CaseType    string    `json:"case_type"`
	CompletedAt time.Time `json:"completed_at"`
}
