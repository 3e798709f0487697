package levels_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/shapes"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
)

func TestDefaultPacks(t *testing.T) {
	reg, err := levels.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	want := []string{"Linear", "Ring", "3x4", "Hex", "Triangle", "Pentagon"}
	packs := reg.Packs()
	if len(packs) != len(want) {
		t.Fatalf("expected %d packs, got %d", len(want), len(packs))
	}
	for i, p := range packs {
		if p.Title != want[i] {
			t.Errorf("pack %d: expected %q, got %q", i, want[i], p.Title)
		}
	}

	if reg.Len() != 28 {
		t.Errorf("expected 28 levels, got %d", reg.Len())
	}
}

func TestDefaultLevelsAreSolvable(t *testing.T) {
	reg, err := levels.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	for _, p := range reg.Packs() {
		for _, id := range p.LevelIDs {
			t.Run(id, func(t *testing.T) {
				lvl, err := reg.Level(id)
				if err != nil {
					t.Fatalf("Level failed: %v", err)
				}
				topo, state, err := lvl.Build()
				if err != nil {
					t.Fatalf("Build failed: %v", err)
				}
				res, err := solver.Solve(context.Background(), topo, state, lvl.Win)
				if err != nil {
					t.Fatalf("Solve failed: %v", err)
				}
				if res.Outcome != solver.OutcomeSolved {
					t.Errorf("expected solved, got %v", res.Outcome)
				}
			})
		}
	}
}

func TestLevelIDsAndNext(t *testing.T) {
	reg, err := levels.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	lvl, err := reg.Level("linear-0")
	if err != nil {
		t.Fatalf("Level failed: %v", err)
	}
	if lvl.Name != "First Hop" || lvl.Pack != "Linear" {
		t.Errorf("unexpected level %+v", lvl)
	}
	if lvl.Shape != (shapes.Spec{Kind: shapes.KindRect, Rows: 1, Cols: 6}) {
		t.Errorf("unexpected shape %v", lvl.Shape)
	}

	next, ok := reg.Next("linear-0")
	if !ok || next != "linear-1" {
		t.Errorf("Next(linear-0) = %q, %v", next, ok)
	}
	if _, ok := reg.Next("linear-4"); ok {
		t.Error("last level of a pack has no next level")
	}
	if _, ok := reg.Next("missing"); ok {
		t.Error("unknown level has no next level")
	}

	if _, err := reg.Level("missing"); !errors.Is(err, levels.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if reg.Exists("missing") || !reg.Exists("pent-3") {
		t.Error("Exists disagrees with loaded levels")
	}
}

func TestPackLookup(t *testing.T) {
	reg, err := levels.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	byTitle, err := reg.Pack("Ring")
	if err != nil {
		t.Fatalf("Pack(Ring) failed: %v", err)
	}
	byFile, err := reg.Pack("ring8")
	if err != nil {
		t.Fatalf("Pack(ring8) failed: %v", err)
	}
	if byTitle.File != byFile.File || len(byTitle.LevelIDs) != 5 {
		t.Errorf("unexpected pack %+v", byTitle)
	}
	if _, err := reg.Pack("nope"); !errors.Is(err, levels.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadDirMixedFormats(t *testing.T) {
	reg := levels.NewRegistry()
	if err := reg.LoadDir("testdata/good"); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	if reg.Len() != 4 {
		t.Fatalf("expected 4 levels, got %d", reg.Len())
	}

	tiny, err := reg.Level("tiny-1")
	if err != nil {
		t.Fatalf("Level(tiny-1) failed: %v", err)
	}
	if tiny.Pack != "Tiny" || tiny.Win != 0 || len(tiny.Board) != 3 {
		t.Errorf("unexpected text level %+v", tiny)
	}

	override, _ := reg.Level("extra-0")
	if override.Win != 2 || override.DisplayName() != "Override" {
		t.Errorf("per-level win override lost: %+v", override)
	}
	plain, _ := reg.Level("extra-1")
	if plain.Win != 0 || plain.DisplayName() != "extra-1" {
		t.Errorf("pack default win not applied: %+v", plain)
	}
}

func TestLoadDirReportsInvalidPacks(t *testing.T) {
	reg := levels.NewRegistry()
	err := reg.LoadDir("testdata/bad")
	if err == nil {
		t.Fatal("expected an error for the invalid pack")
	}

	var verr levels.ValidationError
	if !errors.As(err, &verr) || verr.Code != "BOARD_SIZE" {
		t.Errorf("expected BOARD_SIZE validation error, got %v", err)
	}
	if !reg.Exists("ok-0") {
		t.Error("valid packs should load alongside invalid ones")
	}
	if reg.Exists("short-0") {
		t.Error("invalid pack must not be registered")
	}
}

func TestLoadDirRejectsDuplicates(t *testing.T) {
	reg := levels.NewRegistry()
	if err := reg.LoadDir("testdata/good"); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if err := reg.LoadDir("testdata/good"); err == nil {
		t.Error("loading the same packs twice should fail")
	}
	if reg.Len() != 4 {
		t.Errorf("duplicates must not change the registry, got %d levels", reg.Len())
	}
}

func TestBuildValidation(t *testing.T) {
	line := shapes.Spec{Kind: shapes.KindRect, Rows: 1, Cols: 3}

	tests := []struct {
		name  string
		level levels.Level
		code  string
	}{
		{"bad shape", levels.Level{Shape: shapes.Spec{Kind: shapes.KindRing, Size: 1}, Board: []string{"1 G"}}, "BAD_SHAPE"},
		{"short board", levels.Level{Shape: line, Board: []string{"1 G", "0"}}, "BOARD_SIZE"},
		{"bad token", levels.Level{Shape: line, Board: []string{"1 G", "9", "0"}}, "BAD_DISK"},
		{"win off board", levels.Level{Shape: line, Board: []string{"1 G", "1", "0"}, Win: 3}, "WIN_CELL"},
		{"no goal", levels.Level{Shape: line, Board: []string{"1", "1", "0"}}, "GOAL_COUNT"},
		{"two goals", levels.Level{Shape: line, Board: []string{"1 G", "1 G", "0"}}, "GOAL_COUNT"},
		{"fixed goal", levels.Level{Shape: line, Board: []string{"0", "1", "1 F G"}}, "GOAL_DISK"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.level.Build()
			var verr levels.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Code != tc.code {
				t.Errorf("expected code %s, got %s (%s)", tc.code, verr.Code, verr.Message)
			}
		})
	}

	ok := levels.Level{Shape: line, Board: []string{"0", "1", "1 G"}}
	topo, state, err := ok.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if topo.Cells() != 3 || len(state) != 3 {
		t.Errorf("unexpected build result: %d cells, %d disks", topo.Cells(), len(state))
	}
}
