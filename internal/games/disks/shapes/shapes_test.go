package shapes

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
)

func TestRect(t *testing.T) {
	lanes, err := Rect(2, 3)
	if err != nil {
		t.Fatalf("Rect failed: %v", err)
	}
	want := [][]int{{0, 1, 2}, {3, 4, 5}, {0, 3}, {1, 4}, {2, 5}}
	if !reflect.DeepEqual(lanes, want) {
		t.Errorf("Rect(2, 3) = %v, expected %v", lanes, want)
	}
}

func TestHex(t *testing.T) {
	lanes, err := Hex(2, 2)
	if err != nil {
		t.Fatalf("Hex failed: %v", err)
	}
	// Rows, columns, then up-right diagonals with the shared one kept once
	want := [][]int{{0, 1}, {2, 3}, {0, 2}, {1, 3}, {0}, {2, 1}, {3}}
	if !reflect.DeepEqual(lanes, want) {
		t.Errorf("Hex(2, 2) = %v, expected %v", lanes, want)
	}
}

func TestHexDiagonalsCrossTheBoard(t *testing.T) {
	lanes, err := Hex(3, 3)
	if err != nil {
		t.Fatalf("Hex failed: %v", err)
	}
	found := false
	for _, l := range lanes {
		if reflect.DeepEqual(l, []int{6, 4, 2}) {
			found = true
		}
	}
	if !found {
		t.Errorf("main diagonal 6-4-2 missing from %v", lanes)
	}
}

func TestRing(t *testing.T) {
	lanes, err := Ring(4)
	if err != nil {
		t.Fatalf("Ring failed: %v", err)
	}
	want := [][]int{{0, 1, 2, 3}, {3, 0, 1, 2}, {2, 3, 0, 1}, {1, 2, 3, 0}}
	if !reflect.DeepEqual(lanes, want) {
		t.Errorf("Ring(4) = %v, expected %v", lanes, want)
	}
}

func TestInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([][]int, error)
	}{
		{"rect zero rows", func() ([][]int, error) { return Rect(0, 3) }},
		{"hex zero cols", func() ([][]int, error) { return Hex(2, 0) }},
		{"ring of one", func() ([][]int, error) { return Ring(1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.fn(); !errors.Is(err, ErrDimensions) {
				t.Errorf("expected ErrDimensions, got %v", err)
			}
		})
	}
}

func TestSpecCellsMatchTopology(t *testing.T) {
	specs := []Spec{
		{Kind: KindRect, Rows: 3, Cols: 4},
		{Kind: KindHex, Rows: 3, Cols: 3},
		{Kind: KindPentagon},
		{Kind: KindRing, Size: 12},
		{Kind: KindTriangle},
	}

	for _, s := range specs {
		t.Run(s.String(), func(t *testing.T) {
			lanes, err := s.Lanes()
			if err != nil {
				t.Fatalf("Lanes failed: %v", err)
			}
			topo, err := core.NewTopology(lanes)
			if err != nil {
				t.Fatalf("NewTopology failed: %v", err)
			}
			if topo.Cells() != s.Cells() {
				t.Errorf("topology has %d cells, Cells() = %d", topo.Cells(), s.Cells())
			}
			for cell := 0; cell < topo.Cells(); cell++ {
				if len(topo.Rays(cell)) == 0 {
					t.Errorf("cell %d has no rays", cell)
				}
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseKind(name)
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", name, got, err)
		}
	}
	if k, err := ParseKind(" hex "); err != nil || k != KindHex {
		t.Errorf("ParseKind should ignore case and spaces, got %v, %v", k, err)
	}
	if _, err := ParseKind("square"); err == nil {
		t.Error("ParseKind(\"square\") should fail")
	}
}
