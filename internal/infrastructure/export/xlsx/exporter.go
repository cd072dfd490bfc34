// Package xlsx renders a conversation transcript as a spreadsheet for
// download.
package xlsx

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

const sheetName = "Transcript"

type TranscriptExporter struct{}

func NewTranscriptExporter() *TranscriptExporter {
	return &TranscriptExporter{}
}

// Export returns the xlsx bytes for one conversation: a header block with
// the conversation metadata, then one row per turn.
func (e *TranscriptExporter) Export(conv *domain.Conversation, turns []domain.ConversationTurn) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	meta := [][]any{
		{"Conversation", conv.ID},
		{"Language", string(conv.Language)},
		{"Started", conv.CreatedAt.Format(time.RFC3339)},
		{"Turns", len(turns)},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write metadata row: %w", err)
		}
	}

	headerRow := len(meta) + 2
	header := []any{"Time", "Sender", "Message"}
	cell, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := f.SetSheetRow(sheetName, cell, &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, turn := range turns {
		row := []any{
			turn.CreatedAt.Format(time.RFC3339),
			turn.Sender,
			turn.Content,
		}
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write turn row %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 22); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "C", 90); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
