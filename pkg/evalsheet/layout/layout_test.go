package layout

import (
	"testing"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
)

func TestDefaultGrid(t *testing.T) {
	g := DefaultGrid([]string{"UC1", "UC2"})
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if len(g.Fields) != 2 || g.Fields[1].FallbackColumn != DefaultNameColumn+2 {
		t.Errorf("fields = %+v", g.Fields)
	}
	if g.Average.FallbackColumn != DefaultAverageColumn {
		t.Errorf("average fallback = %d, want %d", g.Average.FallbackColumn, DefaultAverageColumn)
	}
	if !g.HeaderRegion.Contains(1, DefaultAverageColumn) || g.HeaderRegion.Contains(DefaultFirstRow, 1) {
		t.Errorf("header region %+v should cover the average column and stop above the first trainee row", g.HeaderRegion)
	}

	want := models.Rows(DefaultFirstRow, DefaultFirstRow+DefaultMaxTrainees, 4, 5)
	if got := g.TraineeRegion(4); got != want {
		t.Errorf("TraineeRegion(4) = %+v, want %+v", got, want)
	}
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GridLayout)
	}{
		{"no name column", func(g *GridLayout) { g.NameColumn = 0 }},
		{"no trainees", func(g *GridLayout) { g.MaxTrainees = 0 }},
		{"empty header region", func(g *GridLayout) { g.HeaderRegion = models.Region{} }},
		{"field without fallback", func(g *GridLayout) { g.Fields[0].FallbackColumn = 0 }},
	}
	for _, tt := range tests {
		g := DefaultGrid([]string{"UC1"})
		tt.mutate(&g)
		if err := g.Validate(); err == nil {
			t.Errorf("%s: Validate() should fail", tt.name)
		}
	}
}

func TestRatingValidate(t *testing.T) {
	r := DefaultRating([]Criterion{{Name: "Assiduidade"}})
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	missing := DefaultRating(nil)
	delete(missing.SentinelColumns, 3)
	if err := missing.Validate(); err == nil {
		t.Error("a rating without a default column should be rejected")
	}

	noName := DefaultRating(nil)
	noName.NameFallback = models.Coord{}
	if err := noName.Validate(); err == nil {
		t.Error("a missing name fallback should be rejected")
	}
}

func TestFieldQuery(t *testing.T) {
	f := FieldLayout{Label: "Comunicação interpessoal e assertiva", PrefixLen: 11}
	if got := f.Query().Fragment(); got != "Comunicação" {
		t.Errorf("Fragment() = %q", got)
	}
}
