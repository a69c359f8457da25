package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

// WorkflowReadUseCase is the read side of the workflow: lists, summaries and
// the exported report. All derivation happens in the pure domain functions on
// a snapshot read per request; nothing here caches.
type WorkflowReadUseCase struct {
	repo     ports.DocumentRepository
	members  ports.MemberRepository
	catalog  ports.RequiredTypeCatalog
	exporter ports.ReportExporter
}

func NewWorkflowReadUseCase(
	repo ports.DocumentRepository,
	members ports.MemberRepository,
	catalog ports.RequiredTypeCatalog,
	exporter ports.ReportExporter,
) *WorkflowReadUseCase {
	return &WorkflowReadUseCase{
		repo:     repo,
		members:  members,
		catalog:  catalog,
		exporter: exporter,
	}
}

func (uc *WorkflowReadUseCase) ListClientDocuments(ctx context.Context, clientID string) ([]domain.DocumentView, error) {
	docs, err := uc.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client documents: %w", err)
	}

	views := make([]domain.DocumentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, domain.NewDocumentView(doc))
	}
	return views, nil
}

func (uc *WorkflowReadUseCase) MemberSummary(ctx context.Context, clientID, memberID string) (*ports.MemberSummary, error) {
	member, err := uc.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("fetch member: %w", err)
	}
	if member.ClientID != clientID {
		return nil, domain.WrapError(domain.ErrMemberNotFound, "member summary",
			errors.New("member does not belong to client"))
	}

	docs, err := uc.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list member documents: %w", err)
	}
	required, err := uc.requiredTypes()
	if err != nil {
		return nil, err
	}

	return &ports.MemberSummary{
		Member: *member,
		Stats:  domain.AggregateMember(docs, required),
		Slots:  domain.BuildSlotViews(docs, required),
	}, nil
}

func (uc *WorkflowReadUseCase) ProcessSummary(ctx context.Context, clientID string) (*ports.ProcessSummary, error) {
	members, allDocs, required, err := uc.loadProcess(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summary := &ports.ProcessSummary{
		Stats:   domain.AggregateProcess(members, allDocs, required),
		Members: make([]ports.MemberSummaryBrief, 0, len(members)),
	}
	for _, member := range members {
		summary.Members = append(summary.Members, ports.MemberSummaryBrief{
			Member: member,
			Stats:  domain.AggregateMember(docsOfMember(allDocs, member.ID), required),
		})
	}
	return summary, nil
}

func (uc *WorkflowReadUseCase) RequiredTypes(ctx context.Context, clientID string) ([]domain.RequiredDocumentType, error) {
	return uc.requiredTypes()
}

func (uc *WorkflowReadUseCase) ProcessReport(ctx context.Context, clientID string) ([]byte, error) {
	members, allDocs, required, err := uc.loadProcess(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summary := &ports.ProcessSummary{
		Stats:   domain.AggregateProcess(members, allDocs, required),
		Members: make([]ports.MemberSummaryBrief, 0, len(members)),
	}
	slots := make(map[string][]domain.SlotView, len(members))
	for _, member := range members {
		memberDocs := docsOfMember(allDocs, member.ID)
		summary.Members = append(summary.Members, ports.MemberSummaryBrief{
			Member: member,
			Stats:  domain.AggregateMember(memberDocs, required),
		})
		slots[member.ID] = domain.BuildSlotViews(memberDocs, required)
	}

	report, err := uc.exporter.ProcessReport(ctx, summary, slots)
	if err != nil {
		return nil, fmt.Errorf("export process report: %w", err)
	}
	return report, nil
}

func (uc *WorkflowReadUseCase) loadProcess(ctx context.Context, clientID string) ([]domain.FamilyMember, []domain.DocumentRecord, []domain.RequiredDocumentType, error) {
	members, err := uc.members.ListByClient(ctx, clientID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list members: %w", err)
	}
	allDocs, err := uc.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list client documents: %w", err)
	}
	required, err := uc.requiredTypes()
	if err != nil {
		return nil, nil, nil, err
	}
	return members, allDocs, required, nil
}

// requiredTypes resolves the flat per-process catalog. Per-client process
// types are a latent extension; every client sees the default catalog today.
func (uc *WorkflowReadUseCase) requiredTypes() ([]domain.RequiredDocumentType, error) {
	required, err := uc.catalog.RequiredTypes("")
	if err != nil {
		return nil, fmt.Errorf("load required types: %w", err)
	}
	return required, nil
}

func docsOfMember(allDocs []domain.DocumentRecord, memberID string) []domain.DocumentRecord {
	var out []domain.DocumentRecord
	for _, doc := range allDocs {
		if doc.MemberID == memberID {
			out = append(out, doc)
		}
	}
	return out
}
