package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestStatsWorkbook(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := StatsWorkbook(
		[]Metric{{Label: "Subjects", Value: 4}, {Label: "Total downloads", Value: 340}},
		[]NoteRow{{ID: 1, Title: "Algebra Basics", Subject: "Math", FileName: "algebra.pdf", FileSize: 1024, Downloads: 7, CreatedAt: created}},
		created,
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, NotesSheet}, f.GetSheetList())

	v, err := f.GetCellValue(SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	rows, err := f.GetRows(NotesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Algebra Basics", rows[1][1])
	assert.Equal(t, "7", rows[1][5])
}
