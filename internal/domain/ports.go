package domain

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupportedFile is returned by a front end asked to parse a file it does
// not understand.
var ErrUnsupportedFile = errors.New("unsupported source file")

// ErrNoFrontEnd is returned when no registered front end accepts a file.
var ErrNoFrontEnd = errors.New("no front end for file")

// ProjectScanner lists candidate source files below a project root.
type ProjectScanner interface {
	Scan(projectPath string, supported func(relPath string) bool) (*ScanResult, error)
}

// ScanResult holds the result of scanning a project directory.
type ScanResult struct {
	RootPath    string   `json:"root_path"`
	SourceFiles []string `json:"source_files"`
	Skipped     int      `json:"skipped"`
}

// FrontEnd turns one source file into a CompilationUnit.
type FrontEnd interface {
	Name() string
	Supports(relPath string) bool
	Parse(ctx context.Context, rootPath, relPath string) (*CompilationUnit, error)
}

// ConfigLoader loads the lint configuration for a project.
type ConfigLoader interface {
	Load(projectPath string) (LintConfig, error)
}

// DiagnosticSink receives file reports, possibly from concurrent analyses.
type DiagnosticSink interface {
	Emit(report FileReport)
}

// BaselineStore persists accepted diagnostics.
type BaselineStore interface {
	Load(projectPath string) (*Baseline, error)
	Save(projectPath string, baseline *Baseline) error
}

// RunHistory persists summaries of past runs.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}

// GitInfo reads repository metadata.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
	// ChangedFiles lists modified, added and untracked files below
	// projectPath, relative to it and slash-separated.
	ChangedFiles(projectPath string) ([]string, error)
}

// MetricsSink records run statistics for export.
type MetricsSink interface {
	ObserveReport(report *Report, elapsed time.Duration)
	Flush() error
}
