package consolidate

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/xuri/excelize/v2"
)

func source(t *testing.T, name string, rows ...[]interface{}) Source {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return Source{Name: name, Reader: bytes.NewReader(buf.Bytes())}
}

func TestRun(t *testing.T) {
	res, err := Run(Request{
		Primary: source(t, "turma.xlsx",
			[]interface{}{"Nome", "Nº"},
			[]interface{}{"Ana", 1},
			[]interface{}{"Bruno", 2},
			[]interface{}{"Carla", 3},
		),
		Extras: []Source{
			source(t, "notas.xlsx",
				[]interface{}{"Nome", "UC1", "Nº"},
				[]interface{}{"Bruno", 15, 99},
				[]interface{}{"Ana", 12, 98},
				[]interface{}{"Ana", 18, 97},
			),
			source(t, "faltas.xlsx",
				[]interface{}{"Nome", "Faltas"},
				[]interface{}{" Carla ", 4},
			),
		},
		Key: "Nome",
	})
	require.NoError(t, err)

	assert.False(t, res.Empty)
	assert.Equal(t, []string{"Nome", "Nº", "UC1", "Faltas"}, res.Table.Header())
	assert.Equal(t, []models.Value{"Ana", int64(1), int64(12), nil}, res.Table.Record(0))
	assert.Equal(t, []models.Value{"Bruno", int64(2), int64(15), nil}, res.Table.Record(1))
	assert.Equal(t, []models.Value{"Carla", int64(3), nil, int64(4)}, res.Table.Record(2))
	assert.Equal(t, map[string][]string{"notas.xlsx": {"Ana"}}, res.Duplicates)

	preview := res.Preview(evalsheet.Options{PreviewRows: 2})
	assert.Equal(t, 2, preview.NumRows())

	data, err := res.Workbook(evalsheet.DefaultOptions())
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(evalsheet.DefaultSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRunFailsWhole(t *testing.T) {
	primary := func() Source {
		return source(t, "turma.xlsx", []interface{}{"Nome"}, []interface{}{"Ana"})
	}

	tests := []struct {
		name   string
		extras []Source
		want   error
	}{
		{
			name:   "extra without key",
			extras: []Source{source(t, "notas.xlsx", []interface{}{"Nome", "UC1"}, []interface{}{"Ana", 1}), source(t, "faltas.xlsx", []interface{}{"Formando", "Faltas"}, []interface{}{"Ana", 2})},
			want:   evalsheet.ErrMissingKeyColumn,
		},
		{
			name:   "not a spreadsheet",
			extras: []Source{{Name: "notas.txt", Reader: bytes.NewReader([]byte("Nome;UC1"))}},
			want:   evalsheet.ErrProcessingFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(Request{Primary: primary(), Extras: tt.extras, Key: "Nome"})
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRunEmptyPrimary(t *testing.T) {
	res, err := Run(Request{
		Primary: source(t, "turma.xlsx", []interface{}{"Nome"}),
		Extras:  []Source{source(t, "notas.xlsx", []interface{}{"Nome", "UC1"}, []interface{}{"Ana", 12})},
		Key:     "Nome",
	})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, []string{"Nome", "UC1"}, res.Table.Header())
	assert.Equal(t, 0, res.Table.NumRows())
}

func TestRunKeepsTextKeys(t *testing.T) {
	res, err := Run(Request{
		Primary: source(t, "turma.xlsx",
			[]interface{}{"Codigo", "Nome"},
			[]interface{}{"007", "Nan"},
			[]interface{}{"1e3", "Inf"},
		),
		Extras: []Source{
			source(t, "notas.xlsx",
				[]interface{}{"Codigo", "UC1"},
				[]interface{}{7, 12},
				[]interface{}{"1e3", 15},
			),
		},
		Key: "Codigo",
	})
	require.NoError(t, err)

	assert.Equal(t, []models.Value{"007", "Nan", nil}, res.Table.Record(0))
	assert.Equal(t, []models.Value{"1e3", "Inf", int64(15)}, res.Table.Record(1))

	data, err := res.Workbook(evalsheet.Options{})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Codigo", "Nome", "UC1"}, {"007", "Nan"}, {"1e3", "Inf", "15"}}, rows)
}
