// Package pdfcheck structurally validates uploaded files as PDFs.
package pdfcheck

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

// Verifier opens a stored upload and parses it as a PDF. Parse failures
// mean the file is not a usable document, regardless of its extension.
type Verifier struct {
	storage ports.ObjectStorage
	maxSize int64
}

func NewVerifier(storage ports.ObjectStorage, maxSize int64) *Verifier {
	return &Verifier{storage: storage, maxSize: maxSize}
}

func (v *Verifier) Verify(ctx context.Context, doc *domain.DocumentRecord) (int, error) {
	if doc.StoragePath == "" {
		return 0, fmt.Errorf("document %s has no stored file", doc.ID)
	}

	file, err := v.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return 0, domain.WrapError(domain.ErrTemporary, "open stored file", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, v.maxSize+1))
	if err != nil {
		return 0, domain.WrapError(domain.ErrTemporary, "read stored file", err)
	}
	if int64(len(raw)) > v.maxSize {
		return 0, fmt.Errorf("stored file exceeds %d bytes", v.maxSize)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}

	pages := reader.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return pages, nil
}
