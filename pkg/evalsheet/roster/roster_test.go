package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/layout"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

func book(t *testing.T, cells map[string]any) *workbook.Workbook {
	t.Helper()
	wb := workbook.New("turma.xlsx")
	t.Cleanup(func() { wb.Close() })
	for cell, v := range cells {
		require.NoError(t, wb.File().SetCellValue("Sheet1", cell, v))
	}
	return wb
}

func TestReadByHeader(t *testing.T) {
	wb := book(t, map[string]any{
		"B2":  "Nome do formando",
		"C2":  "Nº",
		"B3":  " Ana Silva ",
		"B4":  "",
		"B5":  "Bruno Costa",
		"K13": "ignored",
	})

	r, err := Read(wb, layout.DefaultRoster())
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana Silva", "Bruno Costa"}, r.Names)
	assert.Equal(t, 2, r.Column)
	assert.Equal(t, 3, r.FirstRow)
	assert.Equal(t, "Nome do formando", r.Header)
}

func TestReadFallsBackToFixedPosition(t *testing.T) {
	wb := book(t, map[string]any{
		"A1":  "Pauta de avaliação",
		"K13": "Ana Silva",
		"K14": "Bruno Costa",
		"K20": "Carla Dias",
		"L13": "not a name",
	})

	r, err := Read(wb, layout.DefaultRoster())
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana Silva", "Bruno Costa", "Carla Dias"}, r.Names)
	assert.Equal(t, 11, r.Column)
	assert.Equal(t, 13, r.FirstRow)
	assert.Empty(t, r.Header)

	table := r.Table("turma.xlsx")
	assert.Equal(t, []string{"Nome"}, table.Header())
	assert.Equal(t, 3, table.NumRows())
}

func TestReadMaxRows(t *testing.T) {
	wb := book(t, map[string]any{"K13": "Ana", "K14": "Bruno", "K15": "Carla"})
	l := layout.DefaultRoster()
	l.MaxRows = 2

	r, err := Read(wb, l)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Bruno"}, r.Names)
}

func TestReadMissingSheet(t *testing.T) {
	wb := book(t, nil)
	l := layout.DefaultRoster()
	l.Sheet = "Turma B"

	_, err := Read(wb, l)
	assert.Error(t, err)
}
