package join

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
)

func roster() *models.Table {
	return models.NewTable("roster.xlsx", []string{"key", "score"}, [][]models.Value{
		{"Ana", int64(10)},
		{"Bruno", int64(12)},
	})
}

func TestMergeScenario(t *testing.T) {
	aux := models.NewTable("extra.xlsx", []string{"key", "extra"}, [][]models.Value{
		{"Ana", "X"},
	})

	got, err := Merge(roster(), []*models.Table{aux}, "key")
	require.NoError(t, err)

	assert.Equal(t, []string{"key", "score", "extra"}, got.Header())
	assert.Equal(t, map[string]models.Value{"key": "Ana", "score": int64(10), "extra": "X"}, got.Row(0))
	assert.Equal(t, map[string]models.Value{"key": "Bruno", "score": int64(12), "extra": nil}, got.Row(1))
}

func TestMergeKeepsPrimaryRowCount(t *testing.T) {
	tests := []struct {
		name string
		aux  []*models.Table
	}{
		{"no auxiliary tables", nil},
		{"larger auxiliary", []*models.Table{models.NewTable("a", []string{"key", "x"}, [][]models.Value{
			{"Carla", 1.0}, {"Ana", 2.0}, {"Duarte", 3.0}, {"Bruno", 4.0}, {"Eva", 5.0},
		})}},
		{"empty auxiliary", []*models.Table{models.NewTable("b", []string{"key", "y"}, nil)}},
		{"no matching keys", []*models.Table{models.NewTable("c", []string{"key", "z"}, [][]models.Value{
			{"Zé", "?"},
		})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(roster(), tt.aux, "key")
			require.NoError(t, err)
			require.Equal(t, 2, got.NumRows())
			keys, _ := got.Column("key")
			assert.Equal(t, []models.Value{"Ana", "Bruno"}, keys.Values)
			require.NoError(t, got.Validate())
		})
	}
}

func TestMergePrimaryColumnsWin(t *testing.T) {
	aux := models.NewTable("aux", []string{"key", "score", "note"}, [][]models.Value{
		{"Ana", int64(99), "ok"},
	})
	later := models.NewTable("later", []string{"key", "note", "extra"}, [][]models.Value{
		{"Ana", "overwritten?", "e"},
	})

	got, err := Merge(roster(), []*models.Table{aux, later}, "key")
	require.NoError(t, err)

	assert.Equal(t, []string{"key", "score", "note", "extra"}, got.Header())
	score, _ := got.Column("score")
	assert.Equal(t, []models.Value{int64(10), int64(12)}, score.Values)
	note, _ := got.Column("note")
	assert.Equal(t, []models.Value{"ok", nil}, note.Values)
}

func TestMergeFirstDuplicateWins(t *testing.T) {
	aux := models.NewTable("dup", []string{"key", "extra"}, [][]models.Value{
		{"Bruno", "first"},
		{"Bruno", "second"},
	})

	got, err := Merge(roster(), []*models.Table{aux}, "key")
	require.NoError(t, err)

	extra, _ := got.Column("extra")
	assert.Equal(t, []models.Value{nil, "first"}, extra.Values)
	assert.Equal(t, []string{"Bruno"}, Duplicates(aux, "key"))
}

func TestMergeNormalizesKeys(t *testing.T) {
	primary := models.NewTable("p", []string{"id", "name"}, [][]models.Value{
		{int64(12), "Ana"},
		{" 7 ", "Bruno"},
		{"ana", "lower"},
		{nil, "no key"},
	})
	aux := models.NewTable("a", []string{"id", "v"}, [][]models.Value{
		{"12  ", "twelve"},
		{7.0, "seven"},
		{"Ana", "case"},
		{"", "blank"},
	})

	got, err := Merge(primary, []*models.Table{aux}, "id")
	require.NoError(t, err)

	v, _ := got.Column("v")
	assert.Equal(t, []models.Value{"twelve", "seven", nil, nil}, v.Values)
}

func TestMergeMissingKeyColumn(t *testing.T) {
	good := models.NewTable("good", []string{"key", "a"}, [][]models.Value{{"Ana", 1.0}})
	bad := models.NewTable("bad.xlsx", []string{"Nome", "b"}, [][]models.Value{{"Ana", 2.0}})

	got, err := Merge(roster(), []*models.Table{good, bad}, "key")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, evalsheet.ErrMissingKeyColumn))

	var keyErr *evalsheet.KeyColumnError
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, "bad.xlsx", keyErr.Table)
	assert.Equal(t, "key", keyErr.Column)

	_, err = Merge(roster(), nil, "Nome")
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, "roster.xlsx", keyErr.Table)
}

func TestMergeEmptyPrimary(t *testing.T) {
	primary := models.NewTable("empty", []string{"key", "score"}, nil)
	aux := models.NewTable("aux", []string{"key", "extra"}, [][]models.Value{{"Ana", "X"}})

	got, err := Merge(primary, []*models.Table{aux}, "key")
	require.Error(t, err)
	assert.True(t, errors.Is(err, evalsheet.ErrEmptyPrimaryTable))
	require.NotNil(t, got)
	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, []string{"key", "score", "extra"}, got.Header())
}

func TestMergeMalformedTable(t *testing.T) {
	ragged := &models.Table{Name: "ragged", Columns: []models.Column{
		{Name: "key", Values: []models.Value{"Ana", "Bruno"}},
		{Name: "x", Values: []models.Value{1.0}},
	}}

	_, err := Merge(roster(), []*models.Table{ragged}, "key")
	assert.True(t, errors.Is(err, evalsheet.ErrMalformedTable))

	dup := &models.Table{Name: "dup", Columns: []models.Column{
		{Name: "key", Values: []models.Value{"Ana"}},
		{Name: "key", Values: []models.Value{"Ana"}},
	}}
	_, err = Merge(dup, nil, "key")
	assert.True(t, errors.Is(err, evalsheet.ErrMalformedTable))
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	primary := roster()
	aux := models.NewTable("aux", []string{"key", "extra"}, [][]models.Value{{"Ana", "X"}})

	_, err := Merge(primary, []*models.Table{aux}, "key")
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "score"}, primary.Header())
}

func TestPreview(t *testing.T) {
	p := Preview(roster(), 1)
	assert.Equal(t, 1, p.NumRows())
	assert.Equal(t, 2, Preview(roster(), 10).NumRows())
}
