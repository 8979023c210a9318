package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Layer is one of the architecture's concentric zones.
type Layer string

const (
	LayerDomain         Layer = "domain"
	LayerData           Layer = "data"
	LayerPresentation   Layer = "presentation"
	LayerInfrastructure Layer = "infrastructure"
	LayerUnknown        Layer = "unknown"
)

// AllLayers lists every known layer, Unknown last.
var AllLayers = []Layer{
	LayerDomain, LayerData, LayerPresentation, LayerInfrastructure, LayerUnknown,
}

// Known reports whether the layer takes part in layer-sensitive rules.
func (l Layer) Known() bool { return l != LayerUnknown && l != "" }

// Title returns the display name used in diagnostic messages.
func (l Layer) Title() string {
	if l == "" {
		return "Unknown"
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// RoleHint is a path-derived guess at the role of the declarations in a file.
type RoleHint string

const (
	HintNone       RoleHint = "none"
	HintEntity     RoleHint = "entity"
	HintUseCase    RoleHint = "use_case"
	HintRepository RoleHint = "repository"
	HintDataSource RoleHint = "data_source"
	HintState      RoleHint = "state"
)

// ExclusionStatus records why a file is or is not analyzed.
type ExclusionStatus string

const (
	StatusAnalyzed          ExclusionStatus = "analyzed"
	StatusExcludedTest      ExclusionStatus = "excluded_test"
	StatusExcludedGenerated ExclusionStatus = "excluded_generated"
	StatusExcludedBuild     ExclusionStatus = "excluded_build_artifact"
	StatusExcludedConfig    ExclusionStatus = "excluded_config"
)

// Excluded reports whether the status short-circuits analysis.
func (s ExclusionStatus) Excluded() bool { return s != StatusAnalyzed && s != "" }

// PathClass is the classification of a single source file path.
type PathClass struct {
	Path      string          `json:"path"`
	Layer     Layer           `json:"layer"`
	Hint      RoleHint        `json:"role_hint"`
	Exclusion ExclusionStatus `json:"exclusion"`
}

// Role is the architectural purpose of a declared symbol.
type Role string

const (
	RoleEntity                   Role = "entity"
	RoleUseCaseInterface         Role = "use_case_interface"
	RoleUseCaseImplementation    Role = "use_case_implementation"
	RoleRepositoryInterface      Role = "repository_interface"
	RoleRepositoryImplementation Role = "repository_implementation"
	RoleDataSourceInterface      Role = "data_source_interface"
	RoleDataSourceImplementation Role = "data_source_implementation"
	RoleExceptionClass           Role = "exception_class"
	RoleStateHolder              Role = "state_holder"
	RoleUnclassified             Role = "unclassified"
)

// Title returns a human readable form of the role, e.g. "repository interface".
func (r Role) Title() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// ExceptionCategory classifies an exception class name.
type ExceptionCategory string

const (
	ExceptionBuiltIn              ExceptionCategory = "built_in"
	ExceptionInfrastructureScoped ExceptionCategory = "infrastructure_scoped"
	ExceptionGenericNeedsPrefix   ExceptionCategory = "generic_needs_prefix"
	ExceptionFeatureScoped        ExceptionCategory = "feature_scoped"
)

// Severity of a diagnostic. SeverityNone disables a rule.
type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var severityRank = map[Severity]int{
	SeverityNone:    0,
	SeverityInfo:    1,
	SeverityWarning: 2,
	SeverityError:   3,
}

// ParseSeverity parses a configured severity string. Unrecognized values
// return SeverityWarning and ok=false.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := severityRank[sev]; ok {
		return sev, true
	}
	return SeverityWarning, false
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Span locates a node within a file. Lines and columns are 1-based.
type Span struct {
	StartLine int `json:"start_line" yaml:"start_line"`
	StartCol  int `json:"start_col,omitempty" yaml:"start_col,omitempty"`
	EndLine   int `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	EndCol    int `json:"end_col,omitempty" yaml:"end_col,omitempty"`
}

// Before orders spans by start position.
func (s Span) Before(o Span) bool {
	if s.StartLine != o.StartLine {
		return s.StartLine < o.StartLine
	}
	return s.StartCol < o.StartCol
}

// Location is a file plus span.
type Location struct {
	File string `json:"file"`
	Span Span   `json:"span"`
}

func (l Location) String() string {
	if l.Span.StartLine == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Span.StartLine, l.Span.StartCol)
}

// Diagnostic is a single rule finding. Never mutated after emission.
type Diagnostic struct {
	RuleID     string   `json:"rule_id"`
	Problem    string   `json:"problem"`
	Correction string   `json:"correction,omitempty"`
	Severity   Severity `json:"severity"`
	Location   Location `json:"location"`
}

// RuleFailure records a rule invocation that panicked and was isolated.
type RuleFailure struct {
	RuleID  string `json:"rule_id"`
	Node    string `json:"node"`
	Message string `json:"message"`
}

// FileReport holds the diagnostics for one compilation unit.
type FileReport struct {
	Path        string        `json:"path"`
	Class       PathClass     `json:"classification"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	Failures    []RuleFailure `json:"rule_failures,omitempty"`
}

// Summary counts diagnostics by severity.
type Summary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	FilesExcluded int `json:"files_excluded"`
	FilesFailed   int `json:"files_failed"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Infos         int `json:"infos"`
	Suppressed    int `json:"suppressed,omitempty"`
}

// Report is the result of one analysis run.
type Report struct {
	Root    string       `json:"root"`
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

// HasErrors reports whether any diagnostic has severity >= error.
func (r *Report) HasErrors() bool {
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			if d.Severity.AtLeast(SeverityError) {
				return true
			}
		}
	}
	return false
}

// Diagnostics returns every diagnostic in file order.
func (r *Report) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// Finalize sorts file reports by path and recomputes the summary counts.
// FilesExcluded, FilesFailed and Suppressed are left as set by the caller.
func (r *Report) Finalize() {
	sort.Slice(r.Files, func(i, j int) bool { return r.Files[i].Path < r.Files[j].Path })
	r.Summary.FilesAnalyzed = len(r.Files)
	r.Summary.Errors, r.Summary.Warnings, r.Summary.Infos = 0, 0, 0
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case SeverityError:
				r.Summary.Errors++
			case SeverityWarning:
				r.Summary.Warnings++
			case SeverityInfo:
				r.Summary.Infos++
			}
		}
	}
}
