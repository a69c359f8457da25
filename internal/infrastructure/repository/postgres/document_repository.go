package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rafaelbarros/docflow/internal/core/domain"
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
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026053101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS family_members (
	id TEXT PRIMARY KEY,
	client_id TEXT NOT NULL,
	name TEXT NOT NULL,
	relationship TEXT NOT NULL DEFAULT '',
	is_titular BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_family_members_client ON family_members(client_id);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL REFERENCES family_members(id),
	doc_type TEXT NOT NULL,
	status TEXT NOT NULL,
	is_apostilled BOOLEAN NOT NULL DEFAULT FALSE,
	is_translated BOOLEAN NOT NULL DEFAULT FALSE,
	rejection_reason TEXT NOT NULL DEFAULT '',
	file_name TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	storage_path TEXT NOT NULL,
	page_count INTEGER NOT NULL DEFAULT 0,
	upload_date TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_slot ON documents(member_id, doc_type);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const documentColumns = `
id, member_id, doc_type, status, is_apostilled, is_translated, rejection_reason,
file_name, file_size, storage_path, page_count, upload_date, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	if err := r.insert(ctx, r.db, doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *DocumentRepository) insert(ctx context.Context, db execer, doc *domain.DocumentRecord) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`,
		doc.ID, doc.MemberID, doc.Type, string(doc.Status), doc.IsApostilled, doc.IsTranslated,
		doc.RejectionReason, doc.FileName, doc.FileSize, doc.StoragePath, doc.PageCount,
		doc.UploadDate, doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) GetBySlot(ctx context.Context, memberID, docType string) (*domain.DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE member_id = $1 AND doc_type = $2
`, memberID, docType)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get slot", fmt.Errorf("%s/%s", memberID, docType))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) ListByClient(ctx context.Context, clientID string) ([]domain.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT d.id, d.member_id, d.doc_type, d.status, d.is_apostilled, d.is_translated, d.rejection_reason,
d.file_name, d.file_size, d.storage_path, d.page_count, d.upload_date, d.created_at, d.updated_at
FROM documents d
JOIN family_members m ON m.id = d.member_id
WHERE m.client_id = $1
ORDER BY d.created_at
`, clientID)
	if err != nil {
		return nil, fmt.Errorf("query client documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (r *DocumentRepository) ListByMember(ctx context.Context, memberID string) ([]domain.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE member_id = $1
ORDER BY created_at
`, memberID)
	if err != nil {
		return nil, fmt.Errorf("query member documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (r *DocumentRepository) ReplaceSlot(ctx context.Context, oldID string, doc *domain.DocumentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, oldID); err != nil {
		return fmt.Errorf("delete replaced document: %w", err)
	}
	if err := r.insert(ctx, tx, doc); err != nil {
		return fmt.Errorf("insert resubmitted document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, rejectionReason string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, rejection_reason = $3, updated_at = $4
WHERE id = $1
`, id, string(status), rejectionReason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireRow(res, id)
}

func (r *DocumentRepository) UpdateWorkflowState(ctx context.Context, id string, status domain.DocumentStatus, apostilled, translated bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, is_apostilled = $3, is_translated = $4, rejection_reason = '', updated_at = $5
WHERE id = $1
`, id, string(status), apostilled, translated, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update workflow state: %w", err)
	}
	return requireRow(res, id)
}

func (r *DocumentRepository) AttachFile(ctx context.Context, id, filename string, size int64, storagePath string, status domain.DocumentStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET file_name = $2, file_size = $3, storage_path = $4, status = $5, updated_at = $6
WHERE id = $1
`, id, filename, size, storagePath, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("attach document file: %w", err)
	}
	return requireRow(res, id)
}

func (r *DocumentRepository) SetPageCount(ctx context.Context, id string, pages int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET page_count = $2, updated_at = $3
WHERE id = $1
`, id, pages, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set page count: %w", err)
	}
	return requireRow(res, id)
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document", fmt.Errorf("id %s", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	var status string

	err := row.Scan(
		&doc.ID, &doc.MemberID, &doc.Type, &status, &doc.IsApostilled, &doc.IsTranslated,
		&doc.RejectionReason, &doc.FileName, &doc.FileSize, &doc.StoragePath, &doc.PageCount,
		&doc.UploadDate, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]domain.DocumentRecord, error) {
	var out []domain.DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}
