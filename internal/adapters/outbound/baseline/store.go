package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/layerlint/layerlint/internal/domain"
)

// Store is a file-based implementation of domain.BaselineStore.
type Store struct{}

// New creates a new file-based baseline store.
func New() *Store {
	return &Store{}
}

// Load reads a project baseline from disk. Returns (nil, nil) if none exists.
func (s *Store) Load(projectPath string) (*domain.Baseline, error) {
	data, err := os.ReadFile(Path(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no baseline is not an error
		}
		return nil, err
	}

	var b domain.Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes a project baseline to disk, creating directories as needed.
func (s *Store) Save(projectPath string, b *domain.Baseline) error {
	if err := os.MkdirAll(filepath.Dir(Path(projectPath)), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(projectPath), data, 0644)
}

// Remove deletes the baseline of a project.
func (s *Store) Remove(projectPath string) error {
	if err := os.Remove(Path(projectPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path is the baseline file of a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, ".layerlint", "baseline.json")
}
