package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

type RosterUseCase struct {
	members ports.MemberRepository
}

func NewRosterUseCase(members ports.MemberRepository) *RosterUseCase {
	return &RosterUseCase{members: members}
}

// AddMember registers a family member. Each client has exactly one titular;
// adding a second one is a conflict.
func (uc *RosterUseCase) AddMember(ctx context.Context, member *domain.FamilyMember) error {
	if strings.TrimSpace(member.ClientID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "add member", errors.New("client id is required"))
	}
	if strings.TrimSpace(member.Name) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "add member", errors.New("member name is required"))
	}

	existing, err := uc.members.ListByClient(ctx, member.ClientID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	if member.IsTitular {
		for _, other := range existing {
			if other.IsTitular {
				return domain.WrapError(domain.ErrConflict, "add member",
					fmt.Errorf("client %s already has a titular member", member.ClientID))
			}
		}
	}

	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	member.CreatedAt = time.Now().UTC()

	if err := uc.members.Create(ctx, member); err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (uc *RosterUseCase) ListMembers(ctx context.Context, clientID string) ([]domain.FamilyMember, error) {
	members, err := uc.members.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}
