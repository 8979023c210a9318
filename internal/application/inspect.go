package application

import (
	"github.com/layerlint/layerlint/internal/domain"
)

// RuleInfo describes a catalogue entry and its effective severity for a
// project.
type RuleInfo struct {
	ID              string          `json:"id"`
	Summary         string          `json:"summary"`
	DefaultSeverity domain.Severity `json:"default_severity"`
	Severity        domain.Severity `json:"severity"`
}

// Suggestion is the verdict on an exception class name used in a file.
type Suggestion struct {
	Name      string                   `json:"name"`
	File      string                   `json:"file"`
	Layer     domain.Layer             `json:"layer"`
	Category  domain.ExceptionCategory `json:"category"`
	Violation bool                     `json:"violation"`
	Reason    string                   `json:"reason,omitempty"`
	Suggested string                   `json:"suggested"`
}

// ClassifyPaths classifies paths with the project's configuration.
func (s *LintService) ClassifyPaths(projectPath string, paths []string) ([]domain.PathClass, error) {
	engine, err := s.Engine(projectPath)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PathClass, 0, len(paths))
	for _, p := range paths {
		out = append(out, engine.Classify(p))
	}
	return out, nil
}

// Rules lists the rule catalogue in evaluation order.
func (s *LintService) Rules(projectPath string) ([]RuleInfo, error) {
	engine, err := s.Engine(projectPath)
	if err != nil {
		return nil, err
	}
	catalogue := engine.Rules()
	out := make([]RuleInfo, 0, len(catalogue))
	for _, r := range catalogue {
		out = append(out, RuleInfo{
			ID:              r.ID,
			Summary:         r.Summary,
			DefaultSeverity: r.DefaultSeverity,
			Severity:        engine.Severity(r.ID),
		})
	}
	return out, nil
}

// SuggestExceptionName checks an exception name against the layer of file
// and proposes a feature-prefixed name when the name is too generic.
func (s *LintService) SuggestExceptionName(projectPath, name, file string) (*Suggestion, error) {
	engine, err := s.Engine(projectPath)
	if err != nil {
		return nil, err
	}
	pc := engine.Classify(file)
	tax := engine.Exceptions()
	v := tax.Enforce(name, pc.Layer)

	sg := &Suggestion{
		Name:      name,
		File:      pc.Path,
		Layer:     pc.Layer,
		Category:  v.Category,
		Violation: v.Violation,
		Reason:    v.Reason,
		Suggested: name,
	}
	if v.Category == domain.ExceptionGenericNeedsPrefix {
		sg.Suggested = tax.SuggestPrefixedName(name, pc.Path)
	}
	return sg, nil
}
