// Package excel renders a client's workflow state as an xlsx workbook.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
)

const (
	summarySheet   = "Summary"
	documentsSheet = "Documents"
)

// Exporter writes a two-sheet workbook: one row per family member on the
// summary sheet, one row per document slot on the documents sheet.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ProcessReport(_ context.Context, summary *ports.ProcessSummary, slots map[string][]domain.SlotView) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := file.NewSheet(documentsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := e.writeSummary(file, summary); err != nil {
		return nil, err
	}
	if err := e.writeDocuments(file, summary, slots); err != nil {
		return nil, err
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeSummary(file *excelize.File, summary *ports.ProcessSummary) error {
	header := []any{"Member", "Relationship", "Rejected", "Analyzing", "Waiting action", "Completed", "Missing"}
	if err := file.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	row := 2
	for _, member := range summary.Members {
		name := member.Member.Name
		if member.Member.IsTitular {
			name += " (titular)"
		}
		values := []any{
			name,
			member.Member.Relationship,
			member.Stats.Rejected,
			member.Stats.Analyzing,
			member.Stats.WaitingAction,
			member.Stats.Completed,
			member.Stats.MissingCount,
		}
		cell := fmt.Sprintf("A%d", row)
		if err := file.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary row %d: %w", row, err)
		}
		row++
	}

	totals := []any{
		"Total",
		"",
		"",
		summary.Stats.Analyzing,
		summary.Stats.WaitingAction,
		summary.Stats.Completed,
		"",
	}
	cell := fmt.Sprintf("A%d", row)
	if err := file.SetSheetRow(summarySheet, cell, &totals); err != nil {
		return fmt.Errorf("write totals row: %w", err)
	}
	return nil
}

func (e *Exporter) writeDocuments(file *excelize.File, summary *ports.ProcessSummary, slots map[string][]domain.SlotView) error {
	header := []any{"Member", "Document", "Required", "Status", "Stage", "Rejection reason", "Uploaded file"}
	if err := file.SetSheetRow(documentsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write documents header: %w", err)
	}

	row := 2
	for _, member := range summary.Members {
		for _, slot := range slots[member.Member.ID] {
			values := slotRow(member.Member, slot)
			cell := fmt.Sprintf("A%d", row)
			if err := file.SetSheetRow(documentsSheet, cell, &values); err != nil {
				return fmt.Errorf("write documents row %d: %w", row, err)
			}
			row++
		}
	}
	return nil
}

func slotRow(member domain.FamilyMember, slot domain.SlotView) []any {
	required := "optional"
	if slot.Required {
		required = "required"
	}
	if slot.Missing {
		return []any{member.Name, slot.Name, required, "missing", "", "", ""}
	}
	doc := slot.Document
	return []any{
		member.Name,
		slot.Name,
		required,
		string(doc.Status),
		string(doc.Stage),
		doc.RejectionReason,
		doc.FileName,
	}
}
