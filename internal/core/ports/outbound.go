package ports

import (
	"context"
	"io"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

// DocumentRepository persists and reads document records.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.DocumentRecord) error
	GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.DocumentRecord, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.DocumentRecord, error)
	GetBySlot(ctx context.Context, memberID, docType string) (*domain.DocumentRecord, error)
	// ReplaceSlot atomically removes the slot's prior record and inserts the
	// resubmitted one.
	ReplaceSlot(ctx context.Context, oldID string, doc *domain.DocumentRecord) error
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, rejectionReason string) error
	// UpdateWorkflowState writes a review transition: the new status together
	// with the post-approval flags.
	UpdateWorkflowState(ctx context.Context, id string, status domain.DocumentStatus, apostilled, translated bool) error
	// AttachFile swaps the record's stored file for a step upload (apostilled
	// scan, sworn translation) and moves it to the given status.
	AttachFile(ctx context.Context, id, filename string, size int64, storagePath string, status domain.DocumentStatus) error
	SetPageCount(ctx context.Context, id string, pages int) error
	Delete(ctx context.Context, id string) error
}

// MemberRepository persists the family roster.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.FamilyMember) error
	GetByID(ctx context.Context, id string) (*domain.FamilyMember, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.FamilyMember, error)
}

// ObjectStorage stores uploaded document files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes document-uploaded events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// RequiredTypeCatalog serves the required-document catalog for a process type.
// An empty process type selects the default catalog.
type RequiredTypeCatalog interface {
	RequiredTypes(processType string) ([]domain.RequiredDocumentType, error)
}

// FileVerifier structurally checks a stored upload and reports its page count.
type FileVerifier interface {
	Verify(ctx context.Context, doc *domain.DocumentRecord) (int, error)
}

// ReportExporter renders a client's workflow state into a spreadsheet.
type ReportExporter interface {
	ProcessReport(ctx context.Context, summary *ProcessSummary, slots map[string][]domain.SlotView) ([]byte, error)
}
