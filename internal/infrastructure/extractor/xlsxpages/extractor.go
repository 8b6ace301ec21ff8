package xlsxpages

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
)

// Extractor maps every worksheet of a spreadsheet to one page. Cell
// rows are rendered as tab-separated markdown-ish lines prefixed with
// the sheet name so the classifier sees worksheet boundaries.
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

	book, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse workbook", err)
	}
	defer book.Close()

	var pages []domain.Page
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		text := renderSheet(sheet, rows)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{
			ID:              uuid.NewString(),
			DocumentID:      doc.ID,
			PageNumber:      len(pages) + 1,
			Content:         text,
			ContentMarkdown: text,
		})
	}
	return pages, nil
}

func renderSheet(name string, rows [][]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", name)

	empty := true
	for _, row := range rows {
		line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
		if line == "" {
			continue
		}
		empty = false
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if empty {
		return ""
	}
	return strings.TrimSpace(sb.String())
}
