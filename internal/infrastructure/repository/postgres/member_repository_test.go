package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

func TestMemberRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewMemberRepository(db)
	mock.ExpectQuery("FROM family_members").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "name", "relationship", "is_titular", "created_at"}))

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected member not found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMemberRepositoryListByClientTitularFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	now := time.Now()
	repo := NewMemberRepository(db)
	mock.ExpectQuery("FROM family_members").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "name", "relationship", "is_titular", "created_at"}).
			AddRow("m-1", "c-1", "Ana", "", true, now).
			AddRow("m-2", "c-1", "Bruno", "spouse", false, now))

	members, err := repo.ListByClient(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ListByClient() error = %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if !members[0].IsTitular {
		t.Fatalf("expected titular first, got %+v", members[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
