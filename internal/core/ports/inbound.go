package ports

import (
	"context"
	"io"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentSplitter is the inbound contract for partitioning a document
// into typed sub-documents.
type DocumentSplitter interface {
	SplitAndClassify(ctx context.Context, req domain.SplitRequest) (*domain.SplitResult, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing. The returned split result carries run stats for
// observability; it is nil when processing failed before splitting.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) (*domain.SplitResult, error)
}
