package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Move slides the disk at Src to the empty cell Dst.
type Move struct {
	Src int `json:"src" yaml:"src"`
	Dst int `json:"dst" yaml:"dst"`
}

// String returns the move as "src->dst".
func (m Move) String() string {
	return fmt.Sprintf("%d->%d", m.Src, m.Dst)
}

// Inverse returns the move that undoes m.
// A move is a swap, so replaying it backwards restores the previous state.
func (m Move) Inverse() Move {
	return Move{Src: m.Dst, Dst: m.Src}
}

// ParseMove parses "3->7" or "3-7".
func ParseMove(s string) (Move, error) {
	sep := "->"
	if !strings.Contains(s, sep) {
		sep = "-"
	}

	src, dst, ok := strings.Cut(strings.TrimSpace(s), sep)
	if !ok {
		return Move{}, fmt.Errorf("invalid move %q: expected src->dst", s)
	}

	a, err := strconv.Atoi(strings.TrimSpace(src))
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(dst))
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}

	return Move{Src: a, Dst: b}, nil
}

// FormatMoves joins moves as "0->2,3->5".
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}

// ParseMoves is the inverse of FormatMoves. An empty string yields no moves.
func ParseMoves(s string) ([]Move, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")
	moves := make([]Move, 0, len(fields))
	for _, f := range fields {
		m, err := ParseMove(f)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
