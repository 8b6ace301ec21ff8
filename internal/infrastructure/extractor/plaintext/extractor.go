package plaintext

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
)

// Extractor reads UTF-8 text sources. Form feeds split the text into
// pages; a source without form feeds yields a single page.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) ExtractPages(ctx context.Context, doc *domain.Document) ([]domain.Page, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	if !utf8.Valid(raw) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract text pages",
			fmt.Errorf("not valid UTF-8: %s", doc.Filename))
	}

	var pages []domain.Page
	for _, chunk := range strings.Split(string(raw), "\f") {
		text := strings.TrimSpace(chunk)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			PageNumber: len(pages) + 1,
			Content:    text,
		})
	}
	return pages, nil
}
