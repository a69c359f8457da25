package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

type UploadDocumentUseCase struct {
	repo        ports.DocumentRepository
	members     ports.MemberRepository
	storage     ports.ObjectStorage
	queue       ports.MessageQueue
	maxFileSize int64
}

func NewUploadDocumentUseCase(
	repo ports.DocumentRepository,
	members ports.MemberRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	maxFileSize int64,
) *UploadDocumentUseCase {
	return &UploadDocumentUseCase{
		repo:        repo,
		members:     members,
		storage:     storage,
		queue:       queue,
		maxFileSize: maxFileSize,
	}
}

// Upload handles both the first upload for a slot and a correction resubmission.
// The slot's action set decides which one is legal; analyzing and approved
// slots refuse new files.
func (uc *UploadDocumentUseCase) Upload(
	ctx context.Context,
	clientID, memberID, docType, filename string,
	size int64,
	body io.Reader,
) (*domain.DocumentRecord, error) {
	if strings.TrimSpace(docType) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("document type is required"))
	}
	if err := uc.validateFile(filename, size); err != nil {
		return nil, err
	}

	member, err := uc.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("fetch member: %w", err)
	}
	if member.ClientID != clientID {
		return nil, domain.WrapError(domain.ErrMemberNotFound, "upload document", errors.New("member does not belong to client"))
	}

	existing, err := uc.repo.GetBySlot(ctx, memberID, docType)
	if err != nil && !domain.IsKind(err, domain.ErrDocumentNotFound) {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if existing != nil {
		actions := domain.AvailableActions(existing)
		if !actions.Contains(domain.ActionCorrectAndResend) {
			return nil, domain.WrapError(domain.ErrConflict, "upload document",
				fmt.Errorf("slot %s is %s and cannot accept a new file", docType, existing.Status))
		}
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s/%s_%s", clientID, id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save uploaded file: %w", err)
	}

	doc := &domain.DocumentRecord{
		ID:          id,
		MemberID:    memberID,
		Type:        docType,
		Status:      domain.StatusPending,
		FileName:    filename,
		FileSize:    size,
		StoragePath: storageKey,
		UploadDate:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if existing != nil {
		err = uc.repo.ReplaceSlot(ctx, existing.ID, doc)
	} else {
		err = uc.repo.Create(ctx, doc)
	}
	if err != nil {
		_ = uc.storage.Remove(ctx, storageKey)
		return nil, fmt.Errorf("persist document record: %w", err)
	}
	if existing != nil && existing.StoragePath != "" {
		// The replaced file is no longer referenced; reclaim it eagerly.
		_ = uc.storage.Remove(ctx, existing.StoragePath)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		// Roll the slot back so the client never sees a record the worker
		// will not pick up.
		_ = uc.repo.Delete(ctx, doc.ID)
		_ = uc.storage.Remove(ctx, storageKey)
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return doc, nil
}

// UploadApostille attaches the apostilled scan to an approved document and
// sends it back to review.
func (uc *UploadDocumentUseCase) UploadApostille(
	ctx context.Context,
	documentID, filename string,
	size int64,
	body io.Reader,
) (*domain.DocumentRecord, error) {
	return uc.uploadStep(ctx, documentID, filename, size, body,
		domain.ActionUploadApostille, domain.StatusAnalyzingApostille)
}

// UploadTranslation attaches the sworn translation to an apostilled document
// and sends it back to review.
func (uc *UploadDocumentUseCase) UploadTranslation(
	ctx context.Context,
	documentID, filename string,
	size int64,
	body io.Reader,
) (*domain.DocumentRecord, error) {
	return uc.uploadStep(ctx, documentID, filename, size, body,
		domain.ActionUploadTranslation, domain.StatusAnalyzingTranslation)
}

func (uc *UploadDocumentUseCase) uploadStep(
	ctx context.Context,
	documentID, filename string,
	size int64,
	body io.Reader,
	requiredAction domain.UploadAction,
	nextStatus domain.DocumentStatus,
) (*domain.DocumentRecord, error) {
	if err := uc.validateFile(filename, size); err != nil {
		return nil, err
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if !domain.AvailableActions(doc).Contains(requiredAction) {
		return nil, domain.WrapError(domain.ErrConflict, string(requiredAction),
			fmt.Errorf("document %s in status %s does not accept this step", doc.ID, doc.Status))
	}

	memberID := doc.MemberID
	storageKey := fmt.Sprintf("%s/%s_%s", memberID, doc.ID, sanitizeFilename(filename))
	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save step file: %w", err)
	}

	if err := uc.repo.AttachFile(ctx, doc.ID, filename, size, storageKey, nextStatus); err != nil {
		_ = uc.storage.Remove(ctx, storageKey)
		return nil, fmt.Errorf("attach step file: %w", err)
	}
	if doc.StoragePath != "" && doc.StoragePath != storageKey {
		_ = uc.storage.Remove(ctx, doc.StoragePath)
	}

	doc.FileName = filename
	doc.FileSize = size
	doc.StoragePath = storageKey
	doc.Status = nextStatus
	doc.UpdatedAt = time.Now().UTC()
	return doc, nil
}

// Delete removes a document record and its stored file. Approved documents
// are immutable through this path.
func (uc *UploadDocumentUseCase) Delete(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	if doc.Status == domain.StatusApproved {
		return domain.WrapError(domain.ErrConflict, "delete document",
			errors.New("approved documents cannot be deleted"))
	}

	if err := uc.repo.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document record: %w", err)
	}
	// Orphaned files are harmless; reclaim is best effort.
	_ = uc.storage.Remove(ctx, doc.StoragePath)
	return nil
}

func (uc *UploadDocumentUseCase) validateFile(filename string, size int64) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("only PDF files are accepted, got %q", filename))
	}
	if size <= 0 {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload", errors.New("empty file"))
	}
	if uc.maxFileSize > 0 && size > uc.maxFileSize {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("file exceeds %d bytes", uc.maxFileSize))
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.pdf"
	}
	return base
}
