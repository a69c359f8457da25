package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

// rejectableStatuses are the states a staff reviewer may reject from.
var rejectableStatuses = map[domain.DocumentStatus]struct{}{
	domain.StatusPending:              {},
	domain.StatusAnalyzing:            {},
	domain.StatusSentForApostille:     {},
	domain.StatusAnalyzingApostille:   {},
	domain.StatusAnalyzingTranslation: {},
}

type ReviewDocumentUseCase struct {
	repo ports.DocumentRepository
}

func NewReviewDocumentUseCase(repo ports.DocumentRepository) *ReviewDocumentUseCase {
	return &ReviewDocumentUseCase{repo: repo}
}

// Approve advances a document out of its current analysis state. Approving an
// apostille review sets the apostilled flag; approving a translation review
// sets the translated flag and requires the apostille to already be in place,
// which is where the translated-implies-apostilled invariant is enforced.
func (uc *ReviewDocumentUseCase) Approve(ctx context.Context, documentID string) (*domain.DocumentRecord, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	apostilled := doc.IsApostilled
	translated := doc.IsTranslated

	switch doc.Status {
	case domain.StatusAnalyzing:
	case domain.StatusAnalyzingApostille:
		apostilled = true
	case domain.StatusAnalyzingTranslation:
		if !doc.IsApostilled {
			return nil, domain.WrapError(domain.ErrConflict, "approve document",
				errors.New("translation cannot be approved before apostille"))
		}
		translated = true
	default:
		return nil, domain.WrapError(domain.ErrConflict, "approve document",
			fmt.Errorf("document in status %s is not under analysis", doc.Status))
	}

	if err := uc.repo.UpdateWorkflowState(ctx, doc.ID, domain.StatusApproved, apostilled, translated); err != nil {
		return nil, fmt.Errorf("persist approval: %w", err)
	}

	doc.Status = domain.StatusApproved
	doc.IsApostilled = apostilled
	doc.IsTranslated = translated
	doc.RejectionReason = ""
	doc.UpdatedAt = time.Now().UTC()
	return doc, nil
}

// Reject sends a document back to the client with a mandatory reason.
func (uc *ReviewDocumentUseCase) Reject(ctx context.Context, documentID, reason string) (*domain.DocumentRecord, error) {
	if reason == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "reject document",
			errors.New("rejection reason is required"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if _, ok := rejectableStatuses[doc.Status]; !ok {
		return nil, domain.WrapError(domain.ErrConflict, "reject document",
			fmt.Errorf("document in status %s cannot be rejected", doc.Status))
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusRejected, reason); err != nil {
		return nil, fmt.Errorf("persist rejection: %w", err)
	}

	doc.Status = domain.StatusRejected
	doc.RejectionReason = reason
	doc.UpdatedAt = time.Now().UTC()
	return doc, nil
}

// RequestStep hands an approved document back to the client for its next
// post-approval step, or marks an apostille as physically sent to the notary.
func (uc *ReviewDocumentUseCase) RequestStep(ctx context.Context, documentID string, step domain.WorkflowStep) (*domain.DocumentRecord, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	var next domain.DocumentStatus
	switch step {
	case domain.StepApostille:
		if doc.Status != domain.StatusApproved || doc.IsApostilled {
			return nil, stepConflict(doc, step)
		}
		next = domain.StatusWaitingApostille
	case domain.StepApostilleSent:
		if doc.Status != domain.StatusWaitingApostille {
			return nil, stepConflict(doc, step)
		}
		next = domain.StatusSentForApostille
	case domain.StepTranslation:
		if doc.Status != domain.StatusApproved || !doc.IsApostilled || doc.IsTranslated {
			return nil, stepConflict(doc, step)
		}
		next = domain.StatusWaitingTranslation
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "request step",
			fmt.Errorf("unknown workflow step %q", step))
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, next, ""); err != nil {
		return nil, fmt.Errorf("persist step request: %w", err)
	}

	doc.Status = next
	doc.UpdatedAt = time.Now().UTC()
	return doc, nil
}

func stepConflict(doc *domain.DocumentRecord, step domain.WorkflowStep) error {
	return domain.WrapError(domain.ErrConflict, "request step",
		fmt.Errorf("document in status %s (apostilled=%v, translated=%v) cannot enter step %s",
			doc.Status, doc.IsApostilled, doc.IsTranslated, step))
}
