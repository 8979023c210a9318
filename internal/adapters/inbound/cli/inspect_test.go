package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerlint/layerlint/internal/application"
	"github.com/layerlint/layerlint/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "layerlint.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "--path", fixtureDir,
		"src/features/todos/domain/entities/todo.ts",
		"src/legacy/domain/legacy-todos.ts")
	require.NoError(t, err)
	assert.Contains(t, out, "domain")
	assert.Contains(t, out, "role: entity")
	assert.Contains(t, out, string(domain.StatusExcludedConfig))
}

func TestClassifyCommand_JSON(t *testing.T) {
	out, err := execute(t, "classify", "--path", fixtureDir, "--json", "lib/features/todos/data/models/todo_model.dart")
	require.NoError(t, err)

	var classes []domain.PathClass
	require.NoError(t, json.Unmarshal([]byte(out), &classes))
	require.Len(t, classes, 1)
	assert.Equal(t, domain.LayerData, classes[0].Layer)
}

func TestClassifyCommand_RequiresPath(t *testing.T) {
	_, err := execute(t, "classify")
	assert.Error(t, err)
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules", "--path", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "layer_dependency")
	assert.Contains(t, out, "state_immutability")
}

func TestRulesCommand_JSONWithOverrides(t *testing.T) {
	dir := warningOnlyProject(t)
	out, err := execute(t, "rules", "--path", dir, "--json", "--config", writeConfig(t, "rules:\n  entity_location: none\n"))
	require.NoError(t, err)

	var infos []application.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	for _, info := range infos {
		if info.ID == "entity_location" {
			assert.Equal(t, domain.SeverityNone, info.Severity)
			assert.Equal(t, domain.SeverityWarning, info.DefaultSeverity)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	out, err := execute(t, "suggest", "--path", fixtureDir,
		"NotFoundException", "src/features/todos/domain/exceptions/not-found-exception.ts")
	require.NoError(t, err)
	assert.Contains(t, out, "rename to")
	assert.Contains(t, out, "TodoNotFoundException")

	out, err = execute(t, "suggest", "--path", fixtureDir,
		"TodoNotFoundException", "src/features/todos/domain/exceptions/not-found-exception.ts")
	require.NoError(t, err)
	assert.Contains(t, out, "name is fine")
}

func TestSuggestCommand_JSON(t *testing.T) {
	out, err := execute(t, "suggest", "--path", fixtureDir, "--json",
		"ServerException", "src/features/todos/domain/usecases/get-todos-use-case.ts")
	require.NoError(t, err)

	var sg application.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &sg))
	assert.Equal(t, domain.ExceptionInfrastructureScoped, sg.Category)
	assert.True(t, sg.Violation)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "layerlint dev")
}
