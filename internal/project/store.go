package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists canvas-state payloads keyed by sheet id.
type Store interface {
	Save(ctx context.Context, p Payload) error
	Load(ctx context.Context, sheetID string) (Payload, error)
}

// FileStore writes one JSON document per sheet under a data directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultDataDir returns ~/.sheetsmith/sheets.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sheetsmith", "sheets"), nil
}

func (fs *FileStore) path(sheetID string) string {
	return filepath.Join(fs.dir, sheetID+".json")
}

// Save writes the payload, creating parent directories as needed. The
// write goes through a temp file and rename so a crash mid-write never
// leaves a truncated save behind.
func (fs *FileStore) Save(_ context.Context, p Payload) error {
	if p.Sheet.ID == "" {
		return fmt.Errorf("payload has no sheet id")
	}
	if err := os.MkdirAll(fs.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := fs.path(p.Sheet.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path(p.Sheet.ID))
}

// Load reads the payload for a sheet id.
func (fs *FileStore) Load(_ context.Context, sheetID string) (Payload, error) {
	data, err := os.ReadFile(fs.path(sheetID))
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("parsing save file for sheet %s: %w", sheetID, err)
	}
	if p.Version == 0 {
		return Payload{}, fmt.Errorf("invalid save file for sheet %s: missing version", sheetID)
	}
	return p, nil
}

// List returns the sheet ids with a save file in the store.
func (fs *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
