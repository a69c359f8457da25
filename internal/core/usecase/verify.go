package usecase

import (
	"context"
	"fmt"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

// intakeRejectionReason is the machine reason written when the worker cannot
// read an upload as a PDF. Staff never see such files in review.
const intakeRejectionReason = "uploaded file is not a readable PDF"

// VerifyDocumentUseCase is the worker-side intake check: a freshly uploaded
// (pending) document is structurally verified before staff review. Malformed
// files are auto-rejected; that is a workflow outcome, not a worker failure.
type VerifyDocumentUseCase struct {
	repo     ports.DocumentRepository
	verifier ports.FileVerifier
}

func NewVerifyDocumentUseCase(repo ports.DocumentRepository, verifier ports.FileVerifier) *VerifyDocumentUseCase {
	return &VerifyDocumentUseCase{repo: repo, verifier: verifier}
}

func (uc *VerifyDocumentUseCase) VerifyByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	if doc.Status != domain.StatusPending {
		// Redelivered or stale event; the slot already moved on.
		return nil
	}

	pages, err := uc.verifier.Verify(ctx, doc)
	if err != nil {
		if domain.IsKind(err, domain.ErrTemporary) {
			// Storage hiccup, not a bad file; let the event redeliver.
			return fmt.Errorf("verify document: %w", err)
		}
		if rejErr := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusRejected, intakeRejectionReason); rejErr != nil {
			return fmt.Errorf("reject unreadable document: %w", rejErr)
		}
		return nil
	}

	if err := uc.repo.SetPageCount(ctx, doc.ID, pages); err != nil {
		return fmt.Errorf("record page count: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusAnalyzing, ""); err != nil {
		return fmt.Errorf("set status=analyzing: %w", err)
	}
	return nil
}
