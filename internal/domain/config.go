package domain

import (
	"fmt"
	"sort"
)

// LintConfig holds project-level configuration loaded from .layerlint.yaml.
// It is built once per run and shared read-only across concurrent analyses.
type LintConfig struct {
	Enabled *bool `yaml:"enabled" json:"enabled,omitempty"`

	DomainPaths         []string `yaml:"domain_paths"         json:"domain_paths,omitempty"`
	DataPaths           []string `yaml:"data_paths"           json:"data_paths,omitempty"`
	PresentationPaths   []string `yaml:"presentation_paths"   json:"presentation_paths,omitempty"`
	InfrastructurePaths []string `yaml:"infrastructure_paths" json:"infrastructure_paths,omitempty"`

	EntityPaths     []string `yaml:"entity_paths"     json:"entity_paths,omitempty"`
	UseCasePaths    []string `yaml:"usecase_paths"    json:"usecase_paths,omitempty"`
	RepositoryPaths []string `yaml:"repository_paths" json:"repository_paths,omitempty"`
	DataSourcePaths []string `yaml:"datasource_paths" json:"datasource_paths,omitempty"`
	StatePaths      []string `yaml:"state_paths"      json:"state_paths,omitempty"`

	CompositionRoots []string `yaml:"composition_roots" json:"composition_roots,omitempty"`
	SharedPaths      []string `yaml:"shared_paths"      json:"shared_paths,omitempty"`
	Exclude          []string `yaml:"exclude"           json:"exclude,omitempty"`

	PackageName            string   `yaml:"package_name"            json:"package_name,omitempty"`
	OutcomeTypes           []string `yaml:"outcome_types"           json:"outcome_types,omitempty"`
	AsyncWrappers          []string `yaml:"async_wrappers"          json:"async_wrappers,omitempty"`
	InfrastructurePackages []string `yaml:"infrastructure_packages" json:"infrastructure_packages,omitempty"`
	UIPackages             []string `yaml:"ui_packages"             json:"ui_packages,omitempty"`
	MinFeaturePrefixLength int      `yaml:"min_feature_prefix_length" json:"min_feature_prefix_length,omitempty"`

	Rules map[string]string `yaml:"rules" json:"rules,omitempty"`

	// Severities is the resolved form of Rules, filled by Normalize.
	Severities map[string]Severity `yaml:"-" json:"-"`
	// Warnings collects non-fatal configuration problems found by Normalize.
	Warnings []string `yaml:"-" json:"warnings,omitempty"`
}

// Default path patterns and vocabularies.
var (
	DefaultDomainPaths         = []string{"/domain/"}
	DefaultDataPaths           = []string{"/data/"}
	DefaultPresentationPaths   = []string{"/presentation/", "/ui/", "/features/"}
	DefaultInfrastructurePaths = []string{"/infrastructure/", "/infra/"}

	DefaultEntityPaths     = []string{"/entities/", "/entity/"}
	DefaultUseCasePaths    = []string{"/usecases/", "/use_cases/", "/usecase/"}
	DefaultRepositoryPaths = []string{"/repositories/", "/repository/"}
	DefaultDataSourcePaths = []string{"/datasources/", "/data_sources/", "/datasource/"}
	DefaultStatePaths      = []string{"/state/", "/bloc/", "/blocs/", "/cubit/", "/providers/", "/viewmodels/", "/stores/"}

	DefaultCompositionRoots = []string{
		"di", "injection", "injection_container", "injector", "service_locator",
		"locator", "main", "bootstrap", "container", "composition_root", "app_module",
		"/di/",
	}
	DefaultSharedPaths = []string{
		"/core/utils/", "/core/constants/", "/core/logging/",
		"/utils/", "/constants/", "/logging/", "/logger/",
	}

	DefaultOutcomeTypes  = []string{"Either", "Result", "Outcome", "Try"}
	DefaultAsyncWrappers = []string{"Future", "FutureOr", "Stream", "Promise", "Observable", "Task", "Deferred"}

	DefaultInfrastructurePackages = []string{
		"dio", "http", "sqflite", "hive", "hive_flutter", "shared_preferences",
		"firebase_core", "firebase_auth", "cloud_firestore", "firebase_*",
		"axios", "typeorm", "prisma", "@prisma/client", "mongoose", "pg", "redis",
	}
	DefaultUIPackages = []string{
		"flutter", "flutter_bloc", "bloc", "provider", "riverpod", "flutter_riverpod",
		"get", "react", "react-dom", "vue", "@angular/*", "svelte",
	}
)

// DefaultMinFeaturePrefixLength is the shortest stem accepted as a feature prefix.
const DefaultMinFeaturePrefixLength = 3

// DefaultLintConfig returns the documented defaults with everything enabled.
func DefaultLintConfig() LintConfig {
	cfg := LintConfig{}
	cfg.Normalize(nil)
	return cfg
}

// IsEnabled reports the global enable flag. Absent means enabled.
func (c LintConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Normalize fills unspecified options with defaults and resolves the rule
// severity map against the known rule ids. Problems never fail the run:
// an unparseable severity falls back to warning and an unknown rule id is
// ignored, each recorded once in Warnings. Normalize may be called again
// with a rule catalogue after an initial call without one.
func (c *LintConfig) Normalize(knownRules []string) {
	c.DomainPaths = orDefault(c.DomainPaths, DefaultDomainPaths)
	c.DataPaths = orDefault(c.DataPaths, DefaultDataPaths)
	c.PresentationPaths = orDefault(c.PresentationPaths, DefaultPresentationPaths)
	c.InfrastructurePaths = orDefault(c.InfrastructurePaths, DefaultInfrastructurePaths)
	c.EntityPaths = orDefault(c.EntityPaths, DefaultEntityPaths)
	c.UseCasePaths = orDefault(c.UseCasePaths, DefaultUseCasePaths)
	c.RepositoryPaths = orDefault(c.RepositoryPaths, DefaultRepositoryPaths)
	c.DataSourcePaths = orDefault(c.DataSourcePaths, DefaultDataSourcePaths)
	c.StatePaths = orDefault(c.StatePaths, DefaultStatePaths)
	c.CompositionRoots = orDefault(c.CompositionRoots, DefaultCompositionRoots)
	c.SharedPaths = orDefault(c.SharedPaths, DefaultSharedPaths)
	c.OutcomeTypes = orDefault(c.OutcomeTypes, DefaultOutcomeTypes)
	c.AsyncWrappers = orDefault(c.AsyncWrappers, DefaultAsyncWrappers)
	c.InfrastructurePackages = orDefault(c.InfrastructurePackages, DefaultInfrastructurePackages)
	c.UIPackages = orDefault(c.UIPackages, DefaultUIPackages)
	if c.MinFeaturePrefixLength <= 0 {
		c.MinFeaturePrefixLength = DefaultMinFeaturePrefixLength
	}

	known := make(map[string]bool, len(knownRules))
	for _, id := range knownRules {
		known[id] = true
	}

	c.Severities = make(map[string]Severity, len(c.Rules))
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if knownRules != nil && !known[id] {
			c.warn(fmt.Sprintf("unknown rule %q in rules (ignored)", id))
			continue
		}
		sev, ok := ParseSeverity(c.Rules[id])
		if !ok {
			c.warn(fmt.Sprintf("invalid severity %q for rule %q (using warning)", c.Rules[id], id))
		}
		c.Severities[id] = sev
	}
}

// SeverityFor returns the configured severity for a rule, or def when the
// rule is not configured.
func (c LintConfig) SeverityFor(ruleID string, def Severity) Severity {
	if sev, ok := c.Severities[ruleID]; ok {
		return sev
	}
	return def
}

func (c *LintConfig) warn(msg string) {
	for _, w := range c.Warnings {
		if w == msg {
			return
		}
	}
	c.Warnings = append(c.Warnings, msg)
}

func orDefault(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	out := make([]string, len(def))
	copy(out, def)
	return out
}
