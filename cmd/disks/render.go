package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/shapes"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	goalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))
	fixedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
	voidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	winStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("10"))
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// cellLabel renders one cell as "index:token", styled by the disk it holds.
func cellLabel(idx int, d core.Disk, win bool) string {
	label := fmt.Sprintf("%2d:%-3s", idx, diskGlyph(d))
	style := lipgloss.NewStyle()
	switch {
	case d.Goal:
		style = goalStyle
	case d.Void:
		style = voidStyle
	case d.Fixed:
		style = fixedStyle
	}
	if win {
		style = style.Inherit(winStyle)
	}
	return style.Render(label)
}

// diskGlyph is a compact form of a disk token: size, then G, F or V.
func diskGlyph(d core.Disk) string {
	switch {
	case d.Void:
		return "V"
	case d.Size == 0:
		return "."
	}
	glyph := fmt.Sprint(d.Size)
	if d.Goal {
		glyph += "G"
	}
	if d.Fixed {
		glyph += "F"
	}
	return glyph
}

// renderBoard lays out rect and hex boards as a grid and every other shape
// as rows of eight cells.
func renderBoard(spec shapes.Spec, state core.State, winCell int) string {
	cols := 8
	if spec.Kind == shapes.KindRect || spec.Kind == shapes.KindHex {
		cols = spec.Cols
	}

	var sb strings.Builder
	for i, d := range state {
		if i > 0 {
			if i%cols == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(cellLabel(i, d, i == winCell))
	}
	return boxStyle.Render(sb.String())
}

// formatLane joins the cells of a lane.
func formatLane(lane []int) string {
	parts := make([]string, len(lane))
	for i, c := range lane {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, " ")
}

// legend explains the glyphs used by renderBoard.
func legend() string {
	return headerStyle.Render("legend: ") +
		goalStyle.Render("G goal") + "  " +
		fixedStyle.Render("F fixed") + "  " +
		voidStyle.Render("V void") + "  " +
		winStyle.Render("win cell") + "  " +
		headerStyle.Render(". empty")
}
