// Package formats provides pluggable level pack parsers.
package formats

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/shapes"
)

// YAMLPack represents the YAML structure for a level pack file.
type YAMLPack struct {
	Title  string      `yaml:"title"`
	Order  int         `yaml:"order,omitempty"`
	Shape  YAMLShape   `yaml:"shape"`
	Win    int         `yaml:"win"`
	Levels []YAMLLevel `yaml:"levels"`
}

// YAMLShape represents the board layout shared by every level of a pack.
type YAMLShape struct {
	Kind string `yaml:"kind"`
	Rows int    `yaml:"rows,omitempty"`
	Cols int    `yaml:"cols,omitempty"`
	Size int    `yaml:"size,omitempty"`
}

// YAMLLevel represents a single level in YAML format.
type YAMLLevel struct {
	Name  string `yaml:"name,omitempty"`
	Board string `yaml:"board"` // Comma separated disk tokens
	Win   *int   `yaml:"win,omitempty"`
}

// Pack represents a parsed pack ready for use.
type Pack struct {
	Title  string
	Order  int
	Shape  shapes.Spec
	Levels []Level
}

// Level is one board of a pack.
type Level struct {
	Name  string
	Board []string
	Win   int
}

// ParseYAML parses a YAML pack file.
func ParseYAML(data []byte) (Pack, error) {
	var yp YAMLPack
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return Pack{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	kind, err := shapes.ParseKind(yp.Shape.Kind)
	if err != nil {
		return Pack{}, err
	}

	pack := Pack{
		Title: yp.Title,
		Order: yp.Order,
		Shape: shapes.Spec{
			Kind: kind,
			Rows: yp.Shape.Rows,
			Cols: yp.Shape.Cols,
			Size: yp.Shape.Size,
		},
		Levels: make([]Level, 0, len(yp.Levels)),
	}

	for _, yl := range yp.Levels {
		win := yp.Win
		if yl.Win != nil {
			win = *yl.Win
		}
		pack.Levels = append(pack.Levels, Level{
			Name:  yl.Name,
			Board: SplitBoard(yl.Board),
			Win:   win,
		})
	}

	return pack, nil
}

// SplitBoard splits a comma separated board into per-cell tokens.
func SplitBoard(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".txt"}
}
