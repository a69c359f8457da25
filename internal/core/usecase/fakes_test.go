package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

// docRepoFake is an in-memory DocumentRepository shared by the use case tests.
type docRepoFake struct {
	docs map[string]*domain.DocumentRecord

	createErr  error
	updateErr  error
	replaceErr error

	statusUpdates []domain.DocumentStatus
	deleted       []string
}

func newDocRepoFake(docs ...*domain.DocumentRecord) *docRepoFake {
	f := &docRepoFake{docs: make(map[string]*domain.DocumentRecord)}
	for _, doc := range docs {
		copyDoc := *doc
		f.docs[doc.ID] = &copyDoc
	}
	return f
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.DocumentRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id string) (*domain.DocumentRecord, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (f *docRepoFake) ListByClient(_ context.Context, clientID string) ([]domain.DocumentRecord, error) {
	var out []domain.DocumentRecord
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *docRepoFake) ListByMember(_ context.Context, memberID string) ([]domain.DocumentRecord, error) {
	var out []domain.DocumentRecord
	for _, doc := range f.docs {
		if doc.MemberID == memberID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *docRepoFake) GetBySlot(_ context.Context, memberID, docType string) (*domain.DocumentRecord, error) {
	for _, doc := range f.docs {
		if doc.MemberID == memberID && doc.Type == docType {
			copyDoc := *doc
			return &copyDoc, nil
		}
	}
	return nil, domain.WrapError(domain.ErrDocumentNotFound, "get slot", fmt.Errorf("%s/%s", memberID, docType))
}

func (f *docRepoFake) ReplaceSlot(_ context.Context, oldID string, doc *domain.DocumentRecord) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	delete(f.docs, oldID)
	copyDoc := *doc
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *docRepoFake) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, reason string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update status", fmt.Errorf("id %s", id))
	}
	doc.Status = status
	doc.RejectionReason = reason
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *docRepoFake) UpdateWorkflowState(_ context.Context, id string, status domain.DocumentStatus, apostilled, translated bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update workflow state", fmt.Errorf("id %s", id))
	}
	doc.Status = status
	doc.IsApostilled = apostilled
	doc.IsTranslated = translated
	return nil
}

func (f *docRepoFake) AttachFile(_ context.Context, id, filename string, size int64, storagePath string, status domain.DocumentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "attach file", fmt.Errorf("id %s", id))
	}
	doc.FileName = filename
	doc.FileSize = size
	doc.StoragePath = storagePath
	doc.Status = status
	return nil
}

func (f *docRepoFake) SetPageCount(_ context.Context, id string, pages int) error {
	doc, ok := f.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "set page count", fmt.Errorf("id %s", id))
	}
	doc.PageCount = pages
	return nil
}

func (f *docRepoFake) Delete(_ context.Context, id string) error {
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type memberRepoFake struct {
	members   map[string]*domain.FamilyMember
	createErr error
	created   []*domain.FamilyMember
}

func newMemberRepoFake(members ...*domain.FamilyMember) *memberRepoFake {
	f := &memberRepoFake{members: make(map[string]*domain.FamilyMember)}
	for _, member := range members {
		copyMember := *member
		f.members[member.ID] = &copyMember
	}
	return f
}

func (f *memberRepoFake) Create(_ context.Context, member *domain.FamilyMember) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyMember := *member
	f.members[member.ID] = &copyMember
	f.created = append(f.created, &copyMember)
	return nil
}

func (f *memberRepoFake) GetByID(_ context.Context, id string) (*domain.FamilyMember, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrMemberNotFound, "get member", fmt.Errorf("id %s", id))
	}
	copyMember := *member
	return &copyMember, nil
}

func (f *memberRepoFake) ListByClient(_ context.Context, clientID string) ([]domain.FamilyMember, error) {
	var out []domain.FamilyMember
	for _, member := range f.members {
		if member.ClientID == clientID {
			out = append(out, *member)
		}
	}
	return out, nil
}

type storageFake struct {
	saved   map[string]string
	removed []string
	saveErr error
}

func newStorageFake() *storageFake {
	return &storageFake{saved: make(map[string]string)}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = string(raw)
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := f.saved[key]
	if !ok {
		return nil, fmt.Errorf("no stored file for key %s", key)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *storageFake) Remove(_ context.Context, key string) error {
	delete(f.saved, key)
	f.removed = append(f.removed, key)
	return nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return fmt.Errorf("not implemented")
}

type catalogFake struct {
	types []domain.RequiredDocumentType
	err   error
}

func (f *catalogFake) RequiredTypes(string) ([]domain.RequiredDocumentType, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.types, nil
}

type verifierFake struct {
	pages int
	err   error
}

func (f *verifierFake) Verify(context.Context, *domain.DocumentRecord) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.pages, nil
}

type exporterFake struct {
	summary *ports.ProcessSummary
	slots   map[string][]domain.SlotView
}

func (f *exporterFake) ProcessReport(_ context.Context, summary *ports.ProcessSummary, slots map[string][]domain.SlotView) ([]byte, error) {
	f.summary = summary
	f.slots = slots
	return []byte("xlsx"), nil
}
