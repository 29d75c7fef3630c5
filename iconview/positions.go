package iconview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/BurntSushi/toml"

	"github.com/alexballas/xiconview/iconcontainer"
)

// positionEntry is one icon's placement as written to disk. X is always the
// left-to-right coordinate, whatever the layout direction.
type positionEntry struct {
	X     float32 `toml:"x"`
	Y     float32 `toml:"y"`
	Scale float32 `toml:"scale"`
}

type positionFile struct {
	Icons map[string]positionEntry `toml:"icons"`
}

// PositionStore keeps manual icon placements in a TOML file, keyed by URI.
type PositionStore struct {
	path string

	mu      sync.Mutex
	entries map[string]positionEntry
	dirty   bool
}

// NewPositionStore returns an empty store that reads and writes path.
func NewPositionStore(path string) *PositionStore {
	return &PositionStore{path: path, entries: map[string]positionEntry{}}
}

// DefaultPositionsPath is positions.toml in the user config directory.
func DefaultPositionsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "xiconview", "positions.toml"), nil
}

// Load replaces the store contents with the file. A missing file is an
// empty store.
func (s *PositionStore) Load() error {
	var f positionFile
	_, err := toml.DecodeFile(s.path, &f)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("load positions %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = f.Icons
	if s.entries == nil {
		s.entries = map[string]positionEntry{}
	}
	s.dirty = false
	return nil
}

// Save writes the store when it changed since the last Load or Save.
func (s *PositionStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	tmp := s.path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	if err := toml.NewEncoder(out).Encode(positionFile{Icons: s.entries}); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode positions: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save positions: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	s.dirty = false
	return nil
}

// Set records the placement of u.
func (s *PositionStore) Set(u fyne.URI, pos fyne.Position, scale float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := positionEntry{X: pos.X, Y: pos.Y, Scale: scale}
	if old, ok := s.entries[u.String()]; ok && old == e {
		return
	}
	s.entries[u.String()] = e
	s.dirty = true
}

// Forget drops the placement of u.
func (s *PositionStore) Forget(u fyne.URI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[u.String()]; !ok {
		return
	}
	delete(s.entries, u.String())
	s.dirty = true
}

func (s *PositionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *PositionStore) StoredPosition(icon *iconcontainer.Icon) (iconcontainer.StoredPosition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[icon.URI.String()]
	if !ok {
		return iconcontainer.StoredPosition{}, false
	}
	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}
	return iconcontainer.StoredPosition{Pos: fyne.NewPos(e.X, e.Y), Scale: scale}, true
}

var _ iconcontainer.PositionStore = (*PositionStore)(nil)
