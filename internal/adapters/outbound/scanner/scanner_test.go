package scanner_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerlint/layerlint/internal/adapters/outbound/scanner"
)

const fixtureDir = "../../../../testdata/todo-app"

func isSource(rel string) bool {
	return strings.HasSuffix(rel, ".ts") || strings.HasSuffix(rel, ".unit.json") || strings.HasSuffix(rel, ".unit.yaml")
}

func TestFileScanner_Scan(t *testing.T) {
	s := scanner.New()
	result, err := s.Scan(fixtureDir, isSource)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(result.RootPath))
	assert.NotEmpty(t, result.SourceFiles, "should find source files")
	assert.Contains(t, result.SourceFiles, "src/features/todos/domain/repositories/todo-repository.ts")
	for _, f := range result.SourceFiles {
		assert.True(t, isSource(f), f)
		assert.NotContains(t, f, `\`, "paths are slash-separated")
	}
}

func TestFileScanner_SkipsToolingDirs(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		"src/domain/a.ts",
		"node_modules/pkg/index.ts",
		".git/hooks/x.ts",
		"dist/domain/a.ts",
		".layerlint/x.ts",
		"README.md",
	} {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}

	result, err := scanner.New().Scan(dir, isSource)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/domain/a.ts"}, result.SourceFiles)
	assert.Equal(t, 1, result.Skipped, "README.md is not a source file")
}

func TestFileScanner_NilFilterAcceptsAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ts"), []byte("x"), 0644))

	result, err := scanner.New().Scan(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.ts"}, result.SourceFiles)
}

func TestFileScanner_InvalidPath(t *testing.T) {
	_, err := scanner.New().Scan("/nonexistent/path/for/layerlint", nil)
	assert.Error(t, err)
}

func TestSkipDir(t *testing.T) {
	assert.True(t, scanner.SkipDir("node_modules"))
	assert.True(t, scanner.SkipDir(".layerlint"))
	assert.False(t, scanner.SkipDir("src"))
}
