// Package shapes generates the lanes of the supported board layouts.
// Generators are pure functions; their output feeds core.NewTopology.
package shapes

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDimensions is returned for a layout with impossible dimensions.
var ErrDimensions = errors.New("invalid board dimensions")

// Kind identifies a board layout.
type Kind int

const (
	KindRect Kind = iota
	KindHex
	KindPentagon
	KindRing
	KindTriangle
)

var kindNames = map[Kind]string{
	KindRect:     "RECT",
	KindHex:      "HEX",
	KindPentagon: "PENT",
	KindRing:     "RING",
	KindTriangle: "TRIANGLE",
}

// String returns the level-file name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseKind parses a layout name, ignoring case.
func ParseKind(s string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == upper {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown board kind %q", s)
}

// Spec describes a layout. Rows and Cols apply to rect and hex boards,
// Size to rings.
type Spec struct {
	Kind Kind
	Rows int
	Cols int
	Size int
}

// Lanes generates the lanes of the layout.
func (s Spec) Lanes() ([][]int, error) {
	switch s.Kind {
	case KindRect:
		return Rect(s.Rows, s.Cols)
	case KindHex:
		return Hex(s.Rows, s.Cols)
	case KindPentagon:
		return Pentagon(), nil
	case KindRing:
		return Ring(s.Size)
	case KindTriangle:
		return Triangle(), nil
	default:
		return nil, fmt.Errorf("unknown board kind %d", s.Kind)
	}
}

// Cells returns the number of cells in the layout, or 0 if it is invalid.
func (s Spec) Cells() int {
	switch s.Kind {
	case KindRect, KindHex:
		if s.Rows < 1 || s.Cols < 1 {
			return 0
		}
		return s.Rows * s.Cols
	case KindPentagon:
		return 20
	case KindRing:
		if s.Size < 2 {
			return 0
		}
		return s.Size
	case KindTriangle:
		return 12
	default:
		return 0
	}
}

// String formats the layout the way the CLI prints it, e.g. "RECT 3x4".
func (s Spec) String() string {
	switch s.Kind {
	case KindRect, KindHex:
		return fmt.Sprintf("%s %dx%d", s.Kind, s.Rows, s.Cols)
	case KindRing:
		return fmt.Sprintf("%s %d", s.Kind, s.Size)
	default:
		return s.Kind.String()
	}
}

// Rect numbers cells row by row:
//
//	0 1
//	2 3
//	4 5
//
// Lanes are every row, then every column.
func Rect(rows, cols int) ([][]int, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: rect %dx%d", ErrDimensions, rows, cols)
	}

	lanes := make([][]int, 0, rows+cols)
	for r := 0; r < rows; r++ {
		lane := make([]int, cols)
		for c := range lane {
			lane[c] = r*cols + c
		}
		lanes = append(lanes, lane)
	}
	for c := 0; c < cols; c++ {
		lane := make([]int, rows)
		for r := range lane {
			lane[r] = r*cols + c
		}
		lanes = append(lanes, lane)
	}
	return lanes, nil
}

// Hex numbers cells like Rect, with every column shifted half a cell down
// from the one on its left. Besides rows and columns, cells connect along
// the up-right diagonal. Diagonals start from every cell of the left column
// and of the bottom row; duplicates are removed.
func Hex(rows, cols int) ([][]int, error) {
	lanes, err := Rect(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: hex %dx%d", ErrDimensions, rows, cols)
	}

	diagonal := func(r, c int) []int {
		var lane []int
		for r >= 0 && c < cols {
			lane = append(lane, r*cols+c)
			r--
			c++
		}
		return lane
	}

	for r := 0; r < rows; r++ {
		lanes = appendUnique(lanes, diagonal(r, 0))
	}
	for c := 0; c < cols; c++ {
		lanes = appendUnique(lanes, diagonal(rows-1, c))
	}
	return lanes, nil
}

func appendUnique(lanes [][]int, lane []int) [][]int {
	for _, l := range lanes {
		if slices.Equal(l, lane) {
			return lanes
		}
	}
	return append(lanes, lane)
}

// Ring connects n cells in a circle. Each lane starts at a different cell
// and wraps around, so every cell can jump in both directions.
func Ring(n int) ([][]int, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: ring of %d", ErrDimensions, n)
	}

	lanes := make([][]int, n)
	for d := 0; d < n; d++ {
		lane := make([]int, 0, n)
		// The last d cells, then the first n-d
		for i := n - d; i < n; i++ {
			lane = append(lane, i)
		}
		for i := 0; i < n-d; i++ {
			lane = append(lane, i)
		}
		lanes[d] = lane
	}
	return lanes, nil
}

// Pentagon is the fixed 20-cell pentagonal board.
func Pentagon() [][]int {
	return [][]int{
		{19, 9, 3, 0},
		{18, 8, 2, 1},
		{17, 7, 6, 12},
		{16, 15, 14, 13},
		{0, 1, 4, 10},
		{3, 2, 5, 11},
		{19, 18, 17, 16},
		{9, 8, 7, 15},
		{4, 5, 6, 14},
		{10, 11, 12, 13},
	}
}

// Triangle is the fixed 12-cell triangular board.
func Triangle() [][]int {
	return [][]int{
		{0, 1, 4, 8},
		{3, 2, 5, 9},
		{0, 3, 7, 11},
		{1, 2, 6, 10},
		{4, 5, 6, 7},
		{8, 9, 10, 11},
	}
}
