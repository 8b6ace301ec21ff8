package ports

import (
	"context"
	"io"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

// DocumentRepository persists and reads document state, including the
// document's sub-documents and split run metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	// ReplaceSubDocuments overwrites the document's sub-documents and
	// run metadata atomically; prior state is discarded wholesale.
	ReplaceSubDocuments(ctx context.Context, id string, subdocs []domain.SubDocument, meta domain.SplitRunMeta) error
}

// PageRepository persists and reads extracted document pages.
type PageRepository interface {
	ListByDocument(ctx context.Context, documentID string) ([]domain.Page, error)
	ReplacePages(ctx context.Context, documentID string, pages []domain.Page) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// PageExtractor extracts per-page text from a stored document.
type PageExtractor interface {
	ExtractPages(ctx context.Context, doc *domain.Document) ([]domain.Page, error)
}

// BatchClassifier classifies one batch of rendered page context into
// typed segments. Transport failures surface as domain.ErrTransport and
// are never retried by callers; schema-validation failures surface as
// domain.ErrValidation after the configured retries are exhausted.
type BatchClassifier interface {
	ClassifyBatch(ctx context.Context, contextText string, batchNum, totalBatches int, cfg domain.ClassifierConfig) (domain.BatchClassification, error)
}

// ContextRenderer renders a batch of pages into classifier context text.
type ContextRenderer interface {
	Render(pages []domain.Page, mode domain.ContentMode) string
}

// IDGenerator derives deterministic identifiers from components.
type IDGenerator interface {
	CompositeID(parts ...string) string
}
