package pricing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store is the persistence port for the price book. Save rewrites the
// whole book (last-writer-wins; edits are rare and single-admin).
type Store interface {
	Load(ctx context.Context) (Table, error)
	Save(ctx context.Context, t Table) error
}

// FileStore persists the price book to a YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the book from disk. A missing file yields the default
// table so a fresh deployment starts with usable prices.
func (f *FileStore) Load(_ context.Context) (Table, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("pricebook read: %w", err)
	}

	raw := make(map[string]Entry)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pricebook parse: %w", err)
	}

	t := make(Table, len(raw))
	for k, e := range raw {
		s, ok := ParseService(k)
		if !ok {
			return nil, fmt.Errorf("pricebook parse: unknown service %q", k)
		}
		t[s] = e
	}
	return t, nil
}

// Save rewrites the book. The write goes to a temp file in the same
// directory followed by a rename, so a crash mid-write leaves the
// previous book intact.
func (f *FileStore) Save(_ context.Context, t Table) error {
	raw := make(map[string]Entry, len(t))
	for s, e := range t {
		raw[string(s)] = e
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("pricebook marshal: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".pricebook-*.yaml")
	if err != nil {
		return fmt.Errorf("pricebook write: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("pricebook write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("pricebook write: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("pricebook write: %w", err)
	}
	return nil
}
