package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026031001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	file_sha256 TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	subdocuments JSONB NOT NULL DEFAULT '[]'::jsonb,
	split_meta JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	subdocsJSON, err := json.Marshal(subdocsOrEmpty(doc.SubDocs))
	if err != nil {
		return fmt.Errorf("marshal subdocuments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, filename, mime_type, storage_path, file_sha256, status, error_message, subdocuments, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		doc.ID, doc.Filename, doc.MimeType, doc.StoragePath, doc.FileSHA256,
		string(doc.Status), doc.Error, subdocsJSON, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "insert document", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, file_sha256, status, error_message, subdocuments, split_meta, created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var status string
	var errMessage sql.NullString
	var subdocsRaw []byte
	var splitMetaRaw []byte

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &doc.FileSHA256,
		&status, &errMessage, &subdocsRaw, &splitMetaRaw, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, domain.WrapError(domain.ErrPersistence, "scan document", err)
	}

	if len(subdocsRaw) > 0 {
		if err := json.Unmarshal(subdocsRaw, &doc.SubDocs); err != nil {
			return nil, fmt.Errorf("unmarshal subdocuments: %w", err)
		}
	}
	if len(splitMetaRaw) > 0 {
		var meta domain.SplitRunMeta
		if err := json.Unmarshal(splitMetaRaw, &meta); err != nil {
			return nil, fmt.Errorf("unmarshal split meta: %w", err)
		}
		doc.SplitMeta = &meta
	}
	doc.Status = domain.DocumentStatus(status)
	doc.Error = errMessage.String
	return &doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "update document status", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document status", fmt.Errorf("id %s", id))
	}
	return nil
}

// ReplaceSubDocuments overwrites the document's sub-documents and run
// metadata in one transaction. A per-document advisory lock serializes
// concurrent reclassification runs so the later writer wins wholesale
// instead of interleaving.
func (r *DocumentRepository) ReplaceSubDocuments(ctx context.Context, id string, subdocs []domain.SubDocument, meta domain.SplitRunMeta) error {
	subdocsJSON, err := json.Marshal(subdocsOrEmpty(subdocs))
	if err != nil {
		return fmt.Errorf("marshal subdocuments: %w", err)
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal split meta: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "begin replace tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, id); err != nil {
		return domain.WrapError(domain.ErrPersistence, "acquire document lock", err)
	}

	res, err := tx.ExecContext(ctx, `
UPDATE documents
SET subdocuments = $2, split_meta = $3, updated_at = $4
WHERE id = $1
`, id, subdocsJSON, metaJSON, time.Now().UTC())
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "replace subdocuments", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "replace subdocuments", fmt.Errorf("id %s", id))
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrPersistence, "commit replace tx", err)
	}
	return nil
}

func subdocsOrEmpty(subdocs []domain.SubDocument) []domain.SubDocument {
	if subdocs == nil {
		return []domain.SubDocument{}
	}
	return subdocs
}
