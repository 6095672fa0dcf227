package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/pattern"
)

const (
	eventsFile   = "events.json"
	patternsFile = "patterns.json"
)

// FileStore persists both collections as JSON files under a data
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written file behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a
// store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDataDir resolves the per-user data directory, honoring
// XDG_DATA_HOME.
func DefaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "dayflow"), nil
}

// SaveEvents writes the event history to events.json.
func (s *FileStore) SaveEvents(ctx context.Context, events []behavior.Event) error {
	return s.writeJSON(eventsFile, events)
}

// LoadEvents reads events.json. A missing file yields an empty slice.
func (s *FileStore) LoadEvents(ctx context.Context) ([]behavior.Event, error) {
	var events []behavior.Event
	if err := s.readJSON(eventsFile, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SavePatterns writes the pattern set to patterns.json.
func (s *FileStore) SavePatterns(ctx context.Context, patterns []pattern.Pattern) error {
	return s.writeJSON(patternsFile, patterns)
}

// LoadPatterns reads patterns.json. A missing file yields an empty
// slice.
func (s *FileStore) LoadPatterns(ctx context.Context) ([]pattern.Pattern, error) {
	var patterns []pattern.Pattern
	if err := s.readJSON(patternsFile, &patterns); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (s *FileStore) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
