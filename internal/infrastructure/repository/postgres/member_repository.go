package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member *domain.FamilyMember) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO family_members (id, client_id, name, relationship, is_titular, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, member.ID, member.ClientID, member.Name, member.Relationship, member.IsTitular, member.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert family member: %w", err)
	}
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*domain.FamilyMember, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, client_id, name, relationship, is_titular, created_at
FROM family_members
WHERE id = $1
`, id)

	var member domain.FamilyMember
	err := row.Scan(&member.ID, &member.ClientID, &member.Name, &member.Relationship, &member.IsTitular, &member.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrMemberNotFound, "get member", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan family member: %w", err)
	}
	return &member, nil
}

func (r *MemberRepository) ListByClient(ctx context.Context, clientID string) ([]domain.FamilyMember, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, client_id, name, relationship, is_titular, created_at
FROM family_members
WHERE client_id = $1
ORDER BY is_titular DESC, created_at
`, clientID)
	if err != nil {
		return nil, fmt.Errorf("query family members: %w", err)
	}
	defer rows.Close()

	var out []domain.FamilyMember
	for rows.Next() {
		var member domain.FamilyMember
		if err := rows.Scan(&member.ID, &member.ClientID, &member.Name, &member.Relationship, &member.IsTitular, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		out = append(out, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family members: %w", err)
	}
	return out, nil
}
