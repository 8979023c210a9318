package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/layerlint/layerlint/internal/domain"
)

const historyFile = ".layerlint/history/runs.json"

// FileHistory implements domain.RunHistory using JSON file storage.
type FileHistory struct {
	// Limit caps the number of kept entries, dropping the oldest. Zero keeps
	// everything.
	Limit int
}

func New() *FileHistory {
	return &FileHistory{Limit: 200}
}

func (h *FileHistory) Save(projectPath string, entry domain.RunEntry) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if h.Limit > 0 && len(entries) > h.Limit {
		entries = entries[len(entries)-h.Limit:]
	}

	fp := filepath.Join(projectPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

func (h *FileHistory) Load(projectPath string) ([]domain.RunEntry, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
