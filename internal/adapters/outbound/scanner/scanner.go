package scanner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/layerlint/layerlint/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".dart_tool":   true,
	".layerlint":   true,
	".idea":        true,
	"build":        true,
	"dist":         true,
	"coverage":     true,
	"testdata":     true,
}

// SkipDir reports whether a directory with this name is never analyzed.
func SkipDir(name string) bool {
	return skipDirs[name]
}

// FileScanner implements domain.ProjectScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan lists the files below projectPath accepted by supported, as
// slash-separated paths relative to the root. A nil filter accepts all files.
func (s *FileScanner) Scan(projectPath string, supported func(relPath string) bool) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}

	result := &domain.ScanResult{
		RootPath: absPath,
	}

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != absPath && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, _ := filepath.Rel(absPath, path)
		relPath = filepath.ToSlash(relPath)
		if supported != nil && !supported(relPath) {
			result.Skipped++
			return nil
		}
		result.SourceFiles = append(result.SourceFiles, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.SourceFiles)
	return result, nil
}
