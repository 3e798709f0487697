// Package core provides the rules engine for Disk Solitaire.
// It is UI-agnostic and deterministic: a Topology describes which cells line up,
// a State describes which disk sits where, and the two together answer which
// moves are legal.
package core

import (
	"fmt"
	"strings"
)

// MaxSize is the largest disk size. Size 0 marks an empty cell.
const MaxSize = 3

// Disk is the occupant of one board cell.
type Disk struct {
	Size  uint8 // 0 = empty, 1..3 = disk size
	Goal  bool  // The disk that must reach the win cell
	Fixed bool  // Can never be the source of a move
	Void  bool  // Not a playable position at all
}

// Empty reports whether the cell holds no disk.
func (d Disk) Empty() bool {
	return d.Size == 0
}

// Movable reports whether the disk may be the source of a move.
func (d Disk) Movable() bool {
	return d.Size > 0 && !d.Fixed && !d.Void
}

// Blocks reports whether the disk is a piece another disk can jump over.
func (d Disk) Blocks() bool {
	return d.Size > 0 && !d.Void
}

// String returns the canonical level-file token for the disk, e.g. "2 F".
func (d Disk) String() string {
	var sb strings.Builder
	sb.WriteByte('0' + d.Size)
	if d.Fixed {
		sb.WriteString(" F")
	}
	if d.Goal {
		sb.WriteString(" G")
	}
	if d.Void {
		sb.WriteString(" V")
	}
	return sb.String()
}

// ParseDisk parses a cell token such as "2", "1 G" or "0, V".
// Parts may be separated by spaces or commas. The size defaults to 0.
func ParseDisk(token string) (Disk, error) {
	var d Disk
	parts := strings.FieldsFunc(token, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	for _, part := range parts {
		switch strings.ToUpper(part) {
		case "F":
			d.Fixed = true
		case "G":
			d.Goal = true
		case "V":
			d.Void = true
		case "0", "1", "2", "3":
			d.Size = part[0] - '0'
		default:
			return Disk{}, fmt.Errorf("invalid disk token %q: unknown part %q", token, part)
		}
	}

	return d, nil
}
