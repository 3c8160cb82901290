// Package report renders admin dashboard data as spreadsheets.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	NotesSheet   = "Notes"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Metric is one labelled count on the summary sheet
type Metric struct {
	Label string
	Value int64
}

// NoteRow is one line of the notes sheet
type NoteRow struct {
	ID        int64
	Title     string
	Subject   string
	FileName  string
	FileSize  int64
	Downloads int64
	CreatedAt time.Time
}

var noteHeader = []interface{}{"ID", "Title", "Subject", "File", "Size (bytes)", "Downloads", "Uploaded"}

// StatsWorkbook builds an xlsx file with a Summary sheet and a Notes sheet
func StatsWorkbook(metrics []Metric, notes []NoteRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &[]interface{}{"Metric", "Value"}); err != nil {
		return nil, err
	}
	for i, m := range metrics {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SummarySheet, cell, &[]interface{}{m.Label, m.Value}); err != nil {
			return nil, err
		}
	}
	footer, _ := excelize.CoordinatesToCellName(1, len(metrics)+3)
	if err := f.SetSheetRow(SummarySheet, footer, &[]interface{}{"Generated", generatedAt.UTC().Format(time.RFC3339)}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 20)

	if _, err := f.NewSheet(NotesSheet); err != nil {
		return nil, fmt.Errorf("create notes sheet: %w", err)
	}
	if err := f.SetSheetRow(NotesSheet, "A1", &noteHeader); err != nil {
		return nil, err
	}
	for i, n := range notes {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{n.ID, n.Title, n.Subject, n.FileName, n.FileSize, n.Downloads, n.CreatedAt.UTC().Format(time.RFC3339)}
		if err := f.SetSheetRow(NotesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(NotesSheet, "A1", "G1", bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(NotesSheet, "B", "D", 28)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
