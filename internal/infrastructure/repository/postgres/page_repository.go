package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

type PageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

func (r *PageRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026031002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS pages (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	page_number INTEGER NOT NULL,
	content TEXT,
	content_markdown TEXT,
	content_html TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (document_id, page_number)
);

CREATE INDEX IF NOT EXISTS idx_pages_document_id ON pages(document_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *PageRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Page, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, page_number, content, content_markdown, content_html
FROM pages
WHERE document_id = $1
ORDER BY page_number ASC
`, documentID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "list pages", err)
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		var page domain.Page
		var content, markdown, html sql.NullString
		if err := rows.Scan(&page.ID, &page.DocumentID, &page.PageNumber, &content, &markdown, &html); err != nil {
			return nil, domain.WrapError(domain.ErrPersistence, "scan page", err)
		}
		page.Content = content.String
		page.ContentMarkdown = markdown.String
		page.ContentHTML = html.String
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "iterate pages", err)
	}
	return pages, nil
}

// ReplacePages swaps the document's extracted pages in one transaction.
func (r *PageRepository) ReplacePages(ctx context.Context, documentID string, pages []domain.Page) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "begin replace pages tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = $1`, documentID); err != nil {
		return domain.WrapError(domain.ErrPersistence, "delete pages", err)
	}

	now := time.Now().UTC()
	for _, page := range pages {
		_, err := tx.ExecContext(ctx, `
INSERT INTO pages (id, document_id, page_number, content, content_markdown, content_html, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, page.ID, documentID, page.PageNumber, page.Content, page.ContentMarkdown, page.ContentHTML, now)
		if err != nil {
			return domain.WrapError(domain.ErrPersistence, "insert page", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrPersistence, "commit replace pages tx", err)
	}
	return nil
}
