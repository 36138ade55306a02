package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists a gallery as a single JSON artifact. This matches the
// expected scale (tens to low-thousands of identities); larger deployments
// can switch to the Postgres store without changing the matching contract.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the artifact path.
func (s *FileStore) Path() string {
	return s.path
}

// fileArtifact is the on-disk shape of a gallery.
type fileArtifact struct {
	Model     string    `json:"model"`
	Dim       int       `json:"dim"`
	CreatedAt time.Time `json:"created_at"`
	Records   []Record  `json:"records"`
}

// Save writes the gallery atomically (temp file + rename) so a crashed
// enrollment never leaves a truncated artifact behind.
func (s *FileStore) Save(_ context.Context, g *Gallery) error {
	art := fileArtifact{
		Model:     g.Model,
		Dim:       g.Dim,
		CreatedAt: time.Now().UTC(),
		Records:   g.Records,
	}

	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("failed to encode gallery: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create gallery directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gallery-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write gallery: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace gallery artifact: %w", err)
	}
	return nil
}

// Load reads the artifact and verifies model compatibility. An unreadable or
// corrupt artifact and a model mismatch are both fatal configuration errors.
func (s *FileStore) Load(_ context.Context, model string) (*Gallery, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gallery artifact %s: %w", s.path, err)
	}

	var art fileArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("corrupt gallery artifact %s: %w", s.path, err)
	}

	g := &Gallery{
		Model:   art.Model,
		Dim:     art.Dim,
		Records: art.Records,
	}
	if err := g.CheckModel(model); err != nil {
		return nil, err
	}
	return g, nil
}
