package usecase

import (
	"context"
	"testing"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

func TestAddMemberAssignsID(t *testing.T) {
	members := newMemberRepoFake()
	uc := NewRosterUseCase(members)

	member := &domain.FamilyMember{ClientID: "c-1", Name: "Ana", IsTitular: true}
	if err := uc.AddMember(context.Background(), member); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if member.ID == "" {
		t.Fatalf("expected generated member id")
	}
	if len(members.created) != 1 {
		t.Fatalf("expected one created member")
	}
}

func TestAddMemberSecondTitularRefused(t *testing.T) {
	members := newMemberRepoFake(titularMember())
	uc := NewRosterUseCase(members)

	err := uc.AddMember(context.Background(), &domain.FamilyMember{ClientID: "c-1", Name: "Bruno", IsTitular: true})
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddMemberValidation(t *testing.T) {
	uc := NewRosterUseCase(newMemberRepoFake())

	if err := uc.AddMember(context.Background(), &domain.FamilyMember{Name: "Ana"}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing client, got %v", err)
	}
	if err := uc.AddMember(context.Background(), &domain.FamilyMember{ClientID: "c-1"}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing name, got %v", err)
	}
}

func TestAddDependentAlongsideTitular(t *testing.T) {
	members := newMemberRepoFake(titularMember())
	uc := NewRosterUseCase(members)

	err := uc.AddMember(context.Background(), &domain.FamilyMember{ClientID: "c-1", Name: "Clara", Relationship: "child"})
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
}
