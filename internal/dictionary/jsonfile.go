package dictionary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath is the dictionary file used when none is configured.
const DefaultPath = "translations.json"

// JSONFileStore keeps the mapping as a flat JSON object in a single file.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a store for the file at path.
func NewJSONFileStore(path string) *JSONFileStore {
	if path == "" {
		path = DefaultPath
	}
	return &JSONFileStore{path: path}
}

// Location returns the file path.
func (s *JSONFileStore) Location() string { return s.path }

// Load reads the file. A missing file yields an empty mapping.
func (s *JSONFileStore) Load(_ context.Context) (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return entries, nil
}

// Save writes the mapping into a temporary file next to the target and renames
// it into place, so readers never see a partially written dictionary.
func (s *JSONFileStore) Save(_ context.Context, entries map[string]string) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	dir := filepath.Dir(s.path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace dictionary: %w", err)
	}
	return nil
}
