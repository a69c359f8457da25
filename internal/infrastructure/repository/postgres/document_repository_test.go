package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "member_id", "doc_type", "status", "is_apostilled", "is_translated",
		"rejection_reason", "file_name", "file_size", "storage_path", "page_count",
		"upload_date", "created_at", "updated_at",
	})
}

func TestDocumentRepositoryGetByIDMapsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewDocumentRepository(db)
	mock.ExpectQuery("FROM documents").
		WithArgs("missing").
		WillReturnRows(documentRows())

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected document not found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentRepositoryGetBySlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	now := time.Now()
	repo := NewDocumentRepository(db)
	mock.ExpectQuery("FROM documents").
		WithArgs("m-1", "passport").
		WillReturnRows(documentRows().AddRow(
			"d-1", "m-1", "passport", string(domain.StatusRejected), false, false,
			"illegible", "p.pdf", int64(10), "c-1/d-1_p.pdf", 0, now, now, now,
		))

	doc, err := repo.GetBySlot(context.Background(), "m-1", "passport")
	if err != nil {
		t.Fatalf("GetBySlot() error = %v", err)
	}
	if doc.Status != domain.StatusRejected || doc.RejectionReason != "illegible" {
		t.Fatalf("unexpected record %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentRepositoryUpdateStatusRequiresRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewDocumentRepository(db)
	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusAnalyzing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "missing", domain.StatusAnalyzing, "")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected document not found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentRepositoryReplaceSlotRunsInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	doc := &domain.DocumentRecord{
		ID: "d-new", MemberID: "m-1", Type: "passport", Status: domain.StatusPending,
		FileName: "p2.pdf", FileSize: 12, StoragePath: "c-1/d-new_p2.pdf",
		UploadDate: now, CreatedAt: now, UpdatedAt: now,
	}

	repo := NewDocumentRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("d-old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID, doc.MemberID, doc.Type, string(doc.Status), doc.IsApostilled, doc.IsTranslated,
			doc.RejectionReason, doc.FileName, doc.FileSize, doc.StoragePath, doc.PageCount,
			doc.UploadDate, doc.CreatedAt, doc.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ReplaceSlot(context.Background(), "d-old", doc); err != nil {
		t.Fatalf("ReplaceSlot() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentRepositoryListByClientJoinsRoster(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	now := time.Now()
	repo := NewDocumentRepository(db)
	mock.ExpectQuery("JOIN family_members").
		WithArgs("c-1").
		WillReturnRows(documentRows().
			AddRow("d-1", "m-1", "passport", string(domain.StatusAnalyzing), false, false,
				"", "p.pdf", int64(10), "c-1/d-1_p.pdf", 2, now, now, now).
			AddRow("d-2", "m-2", "passport", string(domain.StatusApproved), true, true,
				"", "p.pdf", int64(11), "c-1/d-2_p.pdf", 1, now, now, now))

	docs, err := repo.ListByClient(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ListByClient() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[1].IsTranslated != true {
		t.Fatalf("expected flags scanned, got %+v", docs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
