package core

import "strings"

// State is the disk occupying each cell, indexed by cell.
// During play it is mutated in place; search code only ever works on clones.
type State []Disk

// ParseState parses one disk token per cell.
func ParseState(tokens []string) (State, error) {
	s := make(State, len(tokens))
	for i, tok := range tokens {
		d, err := ParseDisk(tok)
		if err != nil {
			return nil, err
		}
		s[i] = d
	}
	return s, nil
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Swap exchanges the disks at cells a and b.
func (s State) Swap(a, b int) {
	s[a], s[b] = s[b], s[a]
}

// Apply returns a copy of the state with move m applied.
func (s State) Apply(m Move) State {
	c := s.Clone()
	c.Swap(m.Src, m.Dst)
	return c
}

// Solved reports whether the goal disk occupies winCell.
func (s State) Solved(winCell int) bool {
	if winCell < 0 || winCell >= len(s) {
		return false
	}
	return s[winCell].Goal
}

// Equal reports whether both states hold identical disks in every cell.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Key encodes the whole state, flags included, as a compact map key.
// Two states have the same key iff they are Equal.
func (s State) Key() string {
	buf := make([]byte, len(s))
	for i, d := range s {
		b := d.Size & 0x07
		if d.Goal {
			b |= 1 << 3
		}
		if d.Fixed {
			b |= 1 << 4
		}
		if d.Void {
			b |= 1 << 5
		}
		buf[i] = b
	}
	return string(buf)
}

// Tokens returns the level-file token of every cell.
func (s State) Tokens() []string {
	out := make([]string, len(s))
	for i, d := range s {
		out[i] = d.String()
	}
	return out
}

// String joins the cell tokens with commas, the format used by level packs.
func (s State) String() string {
	return strings.Join(s.Tokens(), ", ")
}
