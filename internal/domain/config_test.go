package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/layerlint/layerlint/internal/domain"
)

func TestDefaultLintConfig_FillsDefaults(t *testing.T) {
	cfg := domain.DefaultLintConfig()
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, []string{"/domain/"}, cfg.DomainPaths)
	assert.Equal(t, []string{"/data/"}, cfg.DataPaths)
	assert.Contains(t, cfg.PresentationPaths, "/ui/")
	assert.Contains(t, cfg.PresentationPaths, "/features/")
	assert.Contains(t, cfg.OutcomeTypes, "Either")
	assert.Contains(t, cfg.AsyncWrappers, "Future")
	assert.Equal(t, domain.DefaultMinFeaturePrefixLength, cfg.MinFeaturePrefixLength)
	assert.Empty(t, cfg.Warnings)
}

func TestLintConfig_ExplicitValuesWin(t *testing.T) {
	cfg := domain.LintConfig{DomainPaths: []string{"/core/"}}
	cfg.Normalize(nil)
	assert.Equal(t, []string{"/core/"}, cfg.DomainPaths)
	assert.Equal(t, []string{"/data/"}, cfg.DataPaths)
}

func TestLintConfig_DefaultsAreCopies(t *testing.T) {
	cfg := domain.DefaultLintConfig()
	cfg.DomainPaths[0] = "/mutated/"
	assert.Equal(t, "/domain/", domain.DefaultDomainPaths[0])
}

func TestLintConfig_SeverityFallbacks(t *testing.T) {
	cfg := domain.LintConfig{Rules: map[string]string{
		"layer_dependency": "info",
		"entity_location":  "loud",
		"no_such_rule":     "error",
	}}
	cfg.Normalize([]string{"layer_dependency", "entity_location"})

	assert.Equal(t, domain.SeverityInfo, cfg.SeverityFor("layer_dependency", domain.SeverityError))
	assert.Equal(t, domain.SeverityWarning, cfg.SeverityFor("entity_location", domain.SeverityError),
		"unparseable severity falls back to warning")
	assert.Equal(t, domain.SeverityError, cfg.SeverityFor("usecase_location", domain.SeverityError),
		"unconfigured rule keeps its default")
	assert.Len(t, cfg.Warnings, 2)
}

func TestLintConfig_GlobalDisable(t *testing.T) {
	off := false
	cfg := domain.LintConfig{Enabled: &off}
	assert.False(t, cfg.IsEnabled())
}
