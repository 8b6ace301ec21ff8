package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
	"github.com/vykhand/mydocs2/internal/infrastructure/extractor/pdfpages"
	"github.com/vykhand/mydocs2/internal/infrastructure/extractor/plaintext"
	"github.com/vykhand/mydocs2/internal/infrastructure/extractor/xlsxpages"
)

// Dispatcher routes a document to the extractor matching its format.
// MIME type wins; the filename extension is the fallback for clients
// that upload with a generic content type.
type Dispatcher struct {
	pdf   ports.PageExtractor
	xlsx  ports.PageExtractor
	plain ports.PageExtractor
}

func NewDispatcher(storage ports.ObjectStorage) *Dispatcher {
	return &Dispatcher{
		pdf:   pdfpages.NewExtractor(storage),
		xlsx:  xlsxpages.NewExtractor(storage),
		plain: plaintext.NewExtractor(storage),
	}
}

func (d *Dispatcher) ExtractPages(ctx context.Context, doc *domain.Document) ([]domain.Page, error) {
	target, err := d.pick(doc)
	if err != nil {
		return nil, err
	}
	return target.ExtractPages(ctx, doc)
}

func (d *Dispatcher) pick(doc *domain.Document) (ports.PageExtractor, error) {
	mime := strings.ToLower(strings.TrimSpace(doc.MimeType))
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}

	switch mime {
	case "application/pdf":
		return d.pdf, nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return d.xlsx, nil
	case "text/plain", "text/markdown", "text/csv":
		return d.plain, nil
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".pdf":
		return d.pdf, nil
	case ".xlsx":
		return d.xlsx, nil
	case ".txt", ".md", ".markdown", ".csv", ".log":
		return d.plain, nil
	}

	return nil, domain.WrapError(domain.ErrInvalidInput, "pick extractor",
		fmt.Errorf("unsupported format: mime=%q filename=%q", doc.MimeType, doc.Filename))
}
