package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/layerlint/layerlint/internal/domain"
)

// FileName is the project configuration file looked up in the project root.
const FileName = ".layerlint.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .layerlint.yaml.
type YAMLLoader struct {
	path string
}

// New creates a YAMLLoader that reads FileName from the project root.
func New() *YAMLLoader { return &YAMLLoader{} }

// NewWithPath creates a YAMLLoader that always reads the given file.
func NewWithPath(path string) *YAMLLoader { return &YAMLLoader{path: path} }

// Load reads the configuration for projectPath.
// A missing project file yields the defaults; an explicitly requested file
// must exist. Unspecified options are filled with defaults.
func (l *YAMLLoader) Load(projectPath string) (domain.LintConfig, error) {
	file := l.path
	if file == "" {
		file = filepath.Join(projectPath, FileName)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && l.path == "" {
			return domain.DefaultLintConfig(), nil
		}
		return domain.LintConfig{}, fmt.Errorf("reading %s: %w", filepath.Base(file), err)
	}

	var cfg domain.LintConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.LintConfig{}, fmt.Errorf("parsing %s: %w", filepath.Base(file), err)
	}
	cfg.Normalize(nil)
	return cfg, nil
}

// Write stores cfg as YAML in the project root. Existing files are only
// replaced when force is set.
func Write(projectPath string, content []byte, force bool) (string, error) {
	dest := filepath.Join(projectPath, FileName)
	if !force {
		if _, err := os.Stat(dest); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", FileName)
		}
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return dest, nil
}

// Template renders a commented starter configuration with the defaults.
func Template(packageName string) []byte {
	cfg := domain.DefaultLintConfig()
	cfg.PackageName = packageName

	type starter struct {
		PackageName       string            `yaml:"package_name,omitempty"`
		DomainPaths       []string          `yaml:"domain_paths"`
		DataPaths         []string          `yaml:"data_paths"`
		PresentationPaths []string          `yaml:"presentation_paths"`
		CompositionRoots  []string          `yaml:"composition_roots"`
		OutcomeTypes      []string          `yaml:"outcome_types"`
		Exclude           []string          `yaml:"exclude"`
		Rules             map[string]string `yaml:"rules"`
	}
	body, _ := yaml.Marshal(starter{
		PackageName:       cfg.PackageName,
		DomainPaths:       cfg.DomainPaths,
		DataPaths:         cfg.DataPaths,
		PresentationPaths: cfg.PresentationPaths,
		CompositionRoots:  cfg.CompositionRoots,
		OutcomeTypes:      cfg.OutcomeTypes,
		Exclude:           []string{},
		Rules:             map[string]string{"entity_location": "warning"},
	})

	header := "# layerlint configuration\n" +
		"# Unlisted options use their defaults. Rule severities: error, warning, info, none.\n\n"
	return append([]byte(header), body...)
}
