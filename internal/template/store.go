package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrTemplateNotFound is returned when a stored template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// Store persists templates as one JSON file per template in a directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Load reads every *.json template in the store directory. Files that fail to
// parse are logged and skipped rather than aborting the load.
func (s *Store) Load() ([]*Template, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		t, err := s.read(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable template file",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		templates = append(templates, t)
	}

	s.logger.Info("Loaded templates", zap.Int("count", len(templates)))
	return templates, nil
}

// Save writes the template to <id>.json, stamping the update time.
func (s *Store) Save(t *Template) error {
	if t.ID == "" {
		return errors.New("template has no identifier")
	}
	t.UpdatedDate = time.Now()

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode template %s: %w", t.ID, err)
	}

	path := s.path(t.ID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template %s: %w", t.ID, err)
	}

	s.logger.Info("Saved template", zap.String("template_id", t.ID), zap.String("path", path))
	return nil
}

// Delete removes the stored template with the given identifier.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}
	s.logger.Info("Deleted template", zap.String("template_id", id))
	return nil
}

// Export writes the template to an arbitrary path outside the store.
func (s *Store) Export(t *Template, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode template %s: %w", t.ID, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to export template %s: %w", t.ID, err)
	}
	return nil
}

// Import reads a template from an arbitrary path and saves it into the store.
func (s *Store) Import(path string) (*Template, error) {
	t, err := s.read(path)
	if err != nil {
		return nil, err
	}
	if err := s.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) read(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}
	if t.ID == "" {
		return nil, errors.New("template file has no template_id")
	}
	return &t, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
