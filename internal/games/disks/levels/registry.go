package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels/formats"
)

//go:embed packs/*.yaml
var embeddedPacks embed.FS

// ErrNotFound is returned for an unknown level or pack.
var ErrNotFound = errors.New("not found")

// Pack is a titled, ordered group of levels sharing one shape.
type Pack struct {
	Title    string
	File     string // File stem, the prefix of every level ID
	Order    int
	LevelIDs []string
}

// Registry holds loaded levels. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	levels map[string]*Level
	packs  []Pack
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		levels: make(map[string]*Level),
	}
}

// Default returns a registry with the built-in packs loaded.
func Default() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadFS(embeddedPacks, "packs"); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadDir loads every pack file found under root.
func (r *Registry) LoadDir(root string) error {
	return r.LoadFS(os.DirFS(root), ".")
}

// LoadFS recursively scans dir in fsys and loads all pack files.
// Valid packs are kept even if others fail; the returned error joins
// the failures.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	var errs []error

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading file %s: %w", p, err))
			return nil
		}
		if err := r.add(p, ext, data); err != nil {
			errs = append(errs, fmt.Errorf("loading file %s: %w", p, err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory %s: %w", dir, err)
	}

	return errors.Join(errs...)
}

// add parses one pack file and registers its levels.
func (r *Registry) add(file, ext string, data []byte) error {
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(path.Base(file), ext)
	title := parsed.Title
	if title == "" {
		title = stem
	}

	pack := Pack{Title: title, File: stem, Order: parsed.Order}
	built := make([]*Level, 0, len(parsed.Levels))
	for i, pl := range parsed.Levels {
		lvl := &Level{
			ID:       fmt.Sprintf("%s-%d", stem, i),
			Name:     pl.Name,
			Pack:     title,
			Shape:    parsed.Shape,
			Board:    pl.Board,
			Win:      pl.Win,
			FilePath: file,
		}
		if _, _, err := lvl.Build(); err != nil {
			return err
		}
		if i > 0 {
			built[i-1].Next = lvl.ID
		}
		built = append(built, lvl)
		pack.LevelIDs = append(pack.LevelIDs, lvl.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, lvl := range built {
		if _, exists := r.levels[lvl.ID]; exists {
			return fmt.Errorf("duplicate level id %q", lvl.ID)
		}
	}
	for _, p := range r.packs {
		if p.Title == title {
			return fmt.Errorf("duplicate pack title %q", title)
		}
	}

	for _, lvl := range built {
		r.levels[lvl.ID] = lvl
	}
	r.packs = append(r.packs, pack)
	sort.SliceStable(r.packs, func(i, j int) bool {
		if r.packs[i].Order != r.packs[j].Order {
			return r.packs[i].Order < r.packs[j].Order
		}
		return r.packs[i].File < r.packs[j].File
	})
	return nil
}

// Level returns a copy of the level with the given ID.
func (r *Registry) Level(id string) (Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lvl, ok := r.levels[id]
	if !ok {
		return Level{}, fmt.Errorf("level %q: %w", id, ErrNotFound)
	}
	return *lvl, nil
}

// Exists checks if a level with the given ID is loaded.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.levels[id]
	return ok
}

// Next returns the ID of the level after id in its pack.
// The second result is false for the last level of a pack.
func (r *Registry) Next(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lvl, ok := r.levels[id]
	if !ok || lvl.Next == "" {
		return "", false
	}
	return lvl.Next, true
}

// Packs returns all packs in display order.
func (r *Registry) Packs() []Pack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Pack, len(r.packs))
	for i, p := range r.packs {
		p.LevelIDs = append([]string(nil), p.LevelIDs...)
		out[i] = p
	}
	return out
}

// Pack finds a pack by title or file stem.
func (r *Registry) Pack(name string) (Pack, error) {
	for _, p := range r.Packs() {
		if p.Title == name || p.File == name {
			return p, nil
		}
	}
	return Pack{}, fmt.Errorf("pack %q: %w", name, ErrNotFound)
}

// Len returns the number of loaded levels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.levels)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Pack, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".txt":
		return formats.ParseText(data)
	default:
		return formats.Pack{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
