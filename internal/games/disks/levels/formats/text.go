package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/shapes"
)

// ParseText parses the line based pack format:
//
//	Title
//	KIND
//	[rows and cols for RECT and HEX, or size for RING, one per line]
//	one board per line
//
// Every level of a text pack wins on cell 0.
func ParseText(data []byte) (Pack, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return Pack{}, fmt.Errorf("reading text pack: %w", err)
	}
	if len(lines) < 2 {
		return Pack{}, fmt.Errorf("text pack needs a title and a kind")
	}

	kind, err := shapes.ParseKind(lines[1])
	if err != nil {
		return Pack{}, err
	}
	pack := Pack{Title: lines[0], Shape: shapes.Spec{Kind: kind}}
	rest := lines[2:]

	dims := 0
	switch kind {
	case shapes.KindRect, shapes.KindHex:
		dims = 2
	case shapes.KindRing:
		dims = 1
	}
	if len(rest) < dims {
		return Pack{}, fmt.Errorf("text pack %q: missing dimensions", pack.Title)
	}
	vals := make([]int, dims)
	for i := range vals {
		v, err := strconv.Atoi(rest[i])
		if err != nil {
			return Pack{}, fmt.Errorf("text pack %q: dimension %q: %w", pack.Title, rest[i], err)
		}
		vals[i] = v
	}
	switch dims {
	case 2:
		pack.Shape.Rows, pack.Shape.Cols = vals[0], vals[1]
	case 1:
		pack.Shape.Size = vals[0]
	}

	for _, line := range rest[dims:] {
		pack.Levels = append(pack.Levels, Level{Board: SplitBoard(line)})
	}
	return pack, nil
}
