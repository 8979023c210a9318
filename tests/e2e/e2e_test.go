package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerlint/layerlint/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "layerlint-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "layerlint")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/layerlint")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func fixturePath() string {
	abs, _ := filepath.Abs("../../testdata/todo-app")
	return abs
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

func stdout(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.Output()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

// --- Lint Tests ---

func TestE2E_Lint(t *testing.T) {
	out, code := run(t, "lint", fixturePath())
	assert.Equal(t, 1, code, "architecture errors fail the run")
	assert.Contains(t, out, "layerlint")
	assert.Contains(t, out, "layer_dependency")
	assert.Contains(t, out, "Error: 1 architecture errors found")
}

func TestE2E_LintJSON(t *testing.T) {
	out, code := stdout(t, "lint", fixturePath(), "--json")
	assert.Equal(t, 1, code)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 12, report.Summary.FilesAnalyzed)
	assert.Equal(t, 2, report.Summary.FilesExcluded)
	assert.Equal(t, 1, report.Summary.Errors)
}

func TestE2E_LintGoProject(t *testing.T) {
	abs, err := filepath.Abs("../../testdata/go-hexagonal/perfect")
	require.NoError(t, err)

	out, code := run(t, "lint", abs)
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "missing_interface_implementation")
}

func TestE2E_BaselineRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.CopyFS(dir, os.DirFS(fixturePath())))

	_, code := run(t, "baseline", dir)
	require.Equal(t, 0, code)

	out, code := run(t, "lint", dir, "--baseline", "--record")
	assert.Equal(t, 0, code, out)

	out, code = stdout(t, "history", dir, "--json")
	require.Equal(t, 0, code)
	var runs []domain.RunEntry
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, 0, runs[0].Errors)
}

// --- Inspection Tests ---

func TestE2E_Classify(t *testing.T) {
	out, code := run(t, "classify", "--path", fixturePath(), "src/features/todos/data/repositories/todo-repository-impl.ts")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "data")
	assert.Contains(t, out, "role: repository")
}

func TestE2E_Rules(t *testing.T) {
	out, code := run(t, "rules", "--path", fixturePath())
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "exception_naming")
}

func TestE2E_Suggest(t *testing.T) {
	out, code := run(t, "suggest", "--path", fixturePath(), "NotFoundException", "src/features/todos/domain/exceptions/x.ts")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "TodoNotFoundException")
}

func TestE2E_Init(t *testing.T) {
	dir := t.TempDir()
	_, code := run(t, "init", dir)
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, ".layerlint.yaml"))

	out, code := run(t, "init", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "already exists")
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "layerlint")
}
