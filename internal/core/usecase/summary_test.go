package usecase

import (
	"context"
	"testing"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

func workflowCatalog() *catalogFake {
	return &catalogFake{types: []domain.RequiredDocumentType{
		{Type: "passport", Name: "Passport", Required: true},
		{Type: "birth_certificate", Name: "Birth certificate", Required: true},
	}}
}

func TestMemberSummaryFreshMember(t *testing.T) {
	members := newMemberRepoFake(titularMember())
	uc := NewWorkflowReadUseCase(newDocRepoFake(), members, workflowCatalog(), &exporterFake{})

	summary, err := uc.MemberSummary(context.Background(), "c-1", "m-1")
	if err != nil {
		t.Fatalf("MemberSummary() error = %v", err)
	}
	if summary.Stats.MissingCount != 2 || summary.Stats.WaitingAction != 2 {
		t.Fatalf("expected 2 missing / 2 waiting, got %+v", summary.Stats)
	}
	if len(summary.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(summary.Slots))
	}
	for _, slot := range summary.Slots {
		if !slot.Missing {
			t.Fatalf("expected missing slot for %s", slot.Type)
		}
		if len(slot.Actions) != 1 || slot.Actions[0] != domain.ActionInitialUpload {
			t.Fatalf("expected initial_upload affordance, got %v", slot.Actions)
		}
	}
}

func TestMemberSummaryWrongClient(t *testing.T) {
	uc := NewWorkflowReadUseCase(newDocRepoFake(), newMemberRepoFake(titularMember()), workflowCatalog(), &exporterFake{})

	_, err := uc.MemberSummary(context.Background(), "c-other", "m-1")
	if !domain.IsKind(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected member not found, got %v", err)
	}
}

func TestMemberSummarySlotDecoration(t *testing.T) {
	repo := newDocRepoFake(
		&domain.DocumentRecord{ID: "d-1", MemberID: "m-1", Type: "passport", Status: domain.StatusRejected, RejectionReason: "blurry"},
		&domain.DocumentRecord{ID: "d-2", MemberID: "m-1", Type: "extra_affidavit", Status: domain.StatusAnalyzing},
	)
	uc := NewWorkflowReadUseCase(repo, newMemberRepoFake(titularMember()), workflowCatalog(), &exporterFake{})

	summary, err := uc.MemberSummary(context.Background(), "c-1", "m-1")
	if err != nil {
		t.Fatalf("MemberSummary() error = %v", err)
	}
	// 2 catalog slots + 1 ad-hoc slot.
	if len(summary.Slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(summary.Slots))
	}
	passport := summary.Slots[0]
	if passport.Type != "passport" || passport.Document == nil {
		t.Fatalf("expected filled passport slot first, got %+v", passport)
	}
	if passport.Document.Stage != domain.StageRejected {
		t.Fatalf("expected rejected stage, got %s", passport.Document.Stage)
	}
	adHoc := summary.Slots[2]
	if adHoc.Type != "extra_affidavit" || adHoc.Required {
		t.Fatalf("expected ad-hoc slot last and not required, got %+v", adHoc)
	}
}

func TestProcessSummaryRollsUpRoster(t *testing.T) {
	members := newMemberRepoFake(
		titularMember(),
		&domain.FamilyMember{ID: "m-2", ClientID: "c-1", Name: "Bruno", Relationship: "spouse"},
	)
	repo := newDocRepoFake(
		&domain.DocumentRecord{ID: "d-1", MemberID: "m-1", Type: "passport", Status: domain.StatusApproved, IsApostilled: true, IsTranslated: true},
		&domain.DocumentRecord{ID: "d-2", MemberID: "m-2", Type: "passport", Status: domain.StatusRejected},
	)
	uc := NewWorkflowReadUseCase(repo, members, workflowCatalog(), &exporterFake{})

	summary, err := uc.ProcessSummary(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ProcessSummary() error = %v", err)
	}
	if summary.Stats.Total != 4 {
		t.Fatalf("expected 4 slots total, got %d", summary.Stats.Total)
	}
	if summary.Stats.Completed != 1 {
		t.Fatalf("expected 1 completed, got %d", summary.Stats.Completed)
	}
	// m-1 misses birth_certificate, m-2 has a rejected passport and misses
	// birth_certificate.
	if summary.Stats.WaitingAction != 3 {
		t.Fatalf("expected 3 waiting, got %d", summary.Stats.WaitingAction)
	}
	if len(summary.Members) != 2 {
		t.Fatalf("expected 2 member briefs, got %d", len(summary.Members))
	}

	var sum int
	for _, brief := range summary.Members {
		sum += brief.Stats.WaitingAction
	}
	if sum != summary.Stats.WaitingAction {
		t.Fatalf("roster sum property broken: %d != %d", sum, summary.Stats.WaitingAction)
	}
}

func TestListClientDocumentsDecorates(t *testing.T) {
	repo := newDocRepoFake(
		&domain.DocumentRecord{ID: "d-1", MemberID: "m-1", Type: "passport", Status: domain.StatusApproved},
	)
	uc := NewWorkflowReadUseCase(repo, newMemberRepoFake(titularMember()), workflowCatalog(), &exporterFake{})

	views, err := uc.ListClientDocuments(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ListClientDocuments() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].Stage != domain.StageApostille {
		t.Fatalf("expected apostille stage, got %s", views[0].Stage)
	}
	if len(views[0].Actions) != 1 || views[0].Actions[0] != domain.ActionUploadApostille {
		t.Fatalf("expected upload_apostille affordance, got %v", views[0].Actions)
	}
}

func TestProcessReportFeedsExporter(t *testing.T) {
	members := newMemberRepoFake(titularMember())
	repo := newDocRepoFake(
		&domain.DocumentRecord{ID: "d-1", MemberID: "m-1", Type: "passport", Status: domain.StatusAnalyzing},
	)
	exporter := &exporterFake{}
	uc := NewWorkflowReadUseCase(repo, members, workflowCatalog(), exporter)

	raw, err := uc.ProcessReport(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected report bytes")
	}
	if exporter.summary == nil || len(exporter.slots["m-1"]) != 2 {
		t.Fatalf("expected exporter fed with summary and slots, got %+v", exporter.slots)
	}
}
