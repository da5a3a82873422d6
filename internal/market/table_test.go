package market

import (
	"errors"
	"testing"
	"time"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func seriesOf(alias string, points ...Point) Series {
	return Series{Alias: alias, Points: points}
}

func TestBuildAlignedInnerJoin(t *testing.T) {
	input := []Series{
		seriesOf("XAU", Point{ts(1), 10}, Point{ts(2), 11}, Point{ts(3), 12}),
		seriesOf("XAUT", Point{ts(2), 21}, Point{ts(3), 22}, Point{ts(4), 23}),
		seriesOf("PAXG", Point{ts(2), 31}, Point{ts(3), 32}),
	}
	table, err := BuildAligned(input)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if !table.Index[0].Equal(ts(2)) || !table.Index[1].Equal(ts(3)) {
		t.Fatalf("expected timestamps {2,3}, got %v", table.Index)
	}
	cols := table.Columns()
	if len(cols) != 3 || cols[0] != "XAU" || cols[1] != "XAUT" || cols[2] != "PAXG" {
		t.Fatalf("unexpected column order: %v", cols)
	}
	xaut, _ := table.Column("XAUT")
	if xaut[0] != 21 || xaut[1] != 22 {
		t.Fatalf("unexpected XAUT values: %v", xaut)
	}
}

func TestBuildAlignedDisjointFails(t *testing.T) {
	input := []Series{
		seriesOf("XAU", Point{ts(1), 10}),
		seriesOf("XAUT", Point{ts(2), 20}),
		seriesOf("PAXG", Point{ts(3), 30}),
	}
	_, err := BuildAligned(input)
	if !errors.Is(err, ErrEmptyJoin) {
		t.Fatalf("expected ErrEmptyJoin, got %v", err)
	}
}

func TestBuildAlignedNormalizesDescendingInput(t *testing.T) {
	input := []Series{
		seriesOf("XAU", Point{ts(3), 12}, Point{ts(2), 11}, Point{ts(1), 10}),
		seriesOf("XAUT", Point{ts(1), 20}, Point{ts(2), 21}, Point{ts(3), 22}),
		seriesOf("PAXG", Point{ts(1), 30}, Point{ts(2), 31}, Point{ts(3), 32}),
	}
	table, err := BuildAligned(input)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	if !table.Index[0].Equal(ts(1)) || !table.Index[2].Equal(ts(3)) {
		t.Fatalf("expected ascending index, got %v", table.Index)
	}
	xau, _ := table.Column("XAU")
	if xau[0] != 10 || xau[2] != 12 {
		t.Fatalf("prices misaligned after normalization: %v", xau)
	}
}

func TestAddSpreads(t *testing.T) {
	input := []Series{
		seriesOf("XAU", Point{ts(1), 100}),
		seriesOf("XAUT", Point{ts(1), 99}),
		seriesOf("PAXG", Point{ts(1), 101}),
	}
	table, err := BuildAligned(input)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := AddSpreads(table); err != nil {
		t.Fatalf("spreads: %v", err)
	}
	cases := map[string]float64{
		"XAU_minus_XAUT":  1,
		"XAU_minus_PAXG":  -1,
		"PAXG_minus_XAUT": 2,
	}
	for name, want := range cases {
		col, ok := table.Column(name)
		if !ok {
			t.Fatalf("missing spread column %s", name)
		}
		if col[0] != want {
			t.Fatalf("%s = %v, want %v", name, col[0], want)
		}
	}
	cols := table.Columns()
	if len(cols) != 6 {
		t.Fatalf("expected 6 columns after spreads, got %v", cols)
	}
}

func TestAddSpreadsRequiresThreeColumns(t *testing.T) {
	table := &Table{
		Index:   []time.Time{ts(1)},
		columns: map[string][]float64{},
	}
	if err := table.addColumn("A", []float64{1}); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := AddSpreads(table); err == nil {
		t.Fatalf("expected error with fewer than 3 columns")
	}
}

func TestAddSpreadsIsIdempotentGuarded(t *testing.T) {
	input := []Series{
		seriesOf("XAU", Point{ts(1), 100}),
		seriesOf("XAUT", Point{ts(1), 99}),
		seriesOf("PAXG", Point{ts(1), 101}),
	}
	table, _ := BuildAligned(input)
	if err := AddSpreads(table); err != nil {
		t.Fatalf("spreads: %v", err)
	}
	if err := AddSpreads(table); err == nil {
		t.Fatalf("expected error when spreads already present")
	}
}

func TestSpreadColumns(t *testing.T) {
	got := SpreadColumns([]string{"XAU", "XAUT", "PAXG"})
	want := []string{"XAU_minus_XAUT", "XAU_minus_PAXG", "PAXG_minus_XAUT"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("spread columns = %v, want %v", got, want)
		}
	}
}
