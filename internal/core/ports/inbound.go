package ports

import (
	"context"
	"io"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

// DocumentIntake is the inbound contract for client-side upload actions.
type DocumentIntake interface {
	Upload(ctx context.Context, clientID, memberID, docType, filename string, size int64, body io.Reader) (*domain.DocumentRecord, error)
	UploadApostille(ctx context.Context, documentID, filename string, size int64, body io.Reader) (*domain.DocumentRecord, error)
	UploadTranslation(ctx context.Context, documentID, filename string, size int64, body io.Reader) (*domain.DocumentRecord, error)
	Delete(ctx context.Context, documentID string) error
}

// DocumentReviewer is the inbound contract for staff review actions.
type DocumentReviewer interface {
	Approve(ctx context.Context, documentID string) (*domain.DocumentRecord, error)
	Reject(ctx context.Context, documentID, reason string) (*domain.DocumentRecord, error)
	RequestStep(ctx context.Context, documentID string, step domain.WorkflowStep) (*domain.DocumentRecord, error)
}

// WorkflowReader is the inbound read surface: document lists decorated with
// stage and actions, per-member and roster summaries, the required catalog
// and the exported report.
type WorkflowReader interface {
	ListClientDocuments(ctx context.Context, clientID string) ([]domain.DocumentView, error)
	MemberSummary(ctx context.Context, clientID, memberID string) (*MemberSummary, error)
	ProcessSummary(ctx context.Context, clientID string) (*ProcessSummary, error)
	RequiredTypes(ctx context.Context, clientID string) ([]domain.RequiredDocumentType, error)
	ProcessReport(ctx context.Context, clientID string) ([]byte, error)
}

// RosterService manages the family roster behind the workflow.
type RosterService interface {
	AddMember(ctx context.Context, member *domain.FamilyMember) error
	ListMembers(ctx context.Context, clientID string) ([]domain.FamilyMember, error)
}

// IntakeVerifier is the inbound contract for asynchronous intake checks.
type IntakeVerifier interface {
	VerifyByID(ctx context.Context, documentID string) error
}

// MemberSummary is a member's counters plus the slot breakdown.
type MemberSummary struct {
	Member domain.FamilyMember `json:"member"`
	Stats  domain.MemberStats  `json:"stats"`
	Slots  []domain.SlotView   `json:"slots"`
}

// ProcessSummary is the roster rollup plus each member's counters.
type ProcessSummary struct {
	Stats   domain.ProcessStats  `json:"stats"`
	Members []MemberSummaryBrief `json:"members"`
}

type MemberSummaryBrief struct {
	Member domain.FamilyMember `json:"member"`
	Stats  domain.MemberStats  `json:"stats"`
}
