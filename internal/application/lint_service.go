package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/rules"
)

// LintOptions controls a single lint run.
type LintOptions struct {
	// Jobs bounds the number of files analyzed in parallel. Zero means
	// GOMAXPROCS.
	Jobs int
	// Files restricts the run to these paths, relative to the project root or
	// absolute. Empty means scan the whole project.
	Files []string
	// Changed restricts the run to files modified in the git worktree. It
	// requires a GitInfo and is ignored when Files is set.
	Changed bool
	// UseBaseline drops diagnostics accepted in the project baseline.
	UseBaseline bool
	// Record appends a summary of the run to the project history.
	Record bool
}

// LintService orchestrates the lint pipeline:
// load config -> scan -> classify -> parse -> evaluate rules -> collect.
type LintService struct {
	scanner   domain.ProjectScanner
	config    domain.ConfigLoader
	frontEnds FrontEnds
	baseline  domain.BaselineStore
	history   domain.RunHistory
	git       domain.GitInfo
	metrics   domain.MetricsSink
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures optional collaborators of a LintService.
type Option func(*LintService)

// WithBaselineStore enables baseline filtering and creation.
func WithBaselineStore(b domain.BaselineStore) Option {
	return func(s *LintService) { s.baseline = b }
}

// WithHistory enables run recording. git may be nil; it also serves
// LintOptions.Changed.
func WithHistory(h domain.RunHistory, git domain.GitInfo) Option {
	return func(s *LintService) { s.history, s.git = h, git }
}

// WithMetrics exports run statistics after every run.
func WithMetrics(m domain.MetricsSink) Option {
	return func(s *LintService) { s.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *LintService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewLintService(
	scanner domain.ProjectScanner,
	configLoader domain.ConfigLoader,
	frontEnds FrontEnds,
	opts ...Option,
) *LintService {
	s := &LintService{
		scanner:   scanner,
		config:    configLoader,
		frontEnds: frontEnds,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Engine loads the project configuration and builds the rule engine for it.
func (s *LintService) Engine(projectPath string) (*rules.Engine, error) {
	cfg, err := s.config.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return rules.NewEngine(cfg, rules.Default(), s.logger), nil
}

// Lint analyzes a project and returns its report. Only failing to read the
// project root or its configuration is an error; files that cannot be parsed
// are logged and counted as failed.
func (s *LintService) Lint(ctx context.Context, projectPath string, opts LintOptions) (*domain.Report, error) {
	start := s.now()

	root, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	engine, err := s.Engine(root)
	if err != nil {
		return nil, err
	}

	files, err := s.files(root, opts)
	if err != nil {
		return nil, err
	}

	report, err := s.analyze(ctx, engine, root, files, opts.Jobs)
	if err != nil {
		return nil, err
	}

	if opts.UseBaseline && s.baseline != nil {
		b, err := s.baseline.Load(root)
		if err != nil {
			return nil, fmt.Errorf("loading baseline: %w", err)
		}
		report.Summary.Suppressed = b.Filter(report)
		report.Finalize()
	}

	if s.metrics != nil {
		s.metrics.ObserveReport(report, s.now().Sub(start))
		if err := s.metrics.Flush(); err != nil {
			s.logger.Warn("writing metrics", "error", err)
		}
	}

	if opts.Record {
		if err := s.record(root, report); err != nil {
			s.logger.Warn("recording run", "error", err)
		}
	}

	s.logger.Debug("lint finished",
		"root", root, "files", report.Summary.FilesAnalyzed,
		"errors", report.Summary.Errors, "warnings", report.Summary.Warnings,
		"elapsed", s.now().Sub(start))
	return report, nil
}

// CreateBaseline lints the project without a baseline and stores every
// current diagnostic as accepted.
func (s *LintService) CreateBaseline(ctx context.Context, projectPath string) (*domain.Baseline, error) {
	if s.baseline == nil {
		return nil, errors.New("no baseline store configured")
	}
	report, err := s.Lint(ctx, projectPath, LintOptions{})
	if err != nil {
		return nil, err
	}
	b := domain.NewBaseline(report, s.now().UTC())
	if err := s.baseline.Save(report.Root, b); err != nil {
		return nil, fmt.Errorf("saving baseline: %w", err)
	}
	return b, nil
}

// History returns the recorded runs of a project, oldest first.
func (s *LintService) History(projectPath string) ([]domain.RunEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Load(projectPath)
}

func (s *LintService) files(root string, opts LintOptions) ([]string, error) {
	only := opts.Files
	if len(only) == 0 && opts.Changed {
		return s.changedFiles(root)
	}
	if len(only) == 0 {
		scan, err := s.scanner.Scan(root, s.frontEnds.Supports)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		return scan.SourceFiles, nil
	}

	files := make([]string, 0, len(only))
	for _, f := range only {
		if filepath.IsAbs(f) {
			rel, err := filepath.Rel(root, f)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", f, err)
			}
			f = rel
		}
		files = append(files, filepath.ToSlash(f))
	}
	return files, nil
}

func (s *LintService) changedFiles(root string) ([]string, error) {
	if s.git == nil {
		return nil, errors.New("no git information configured")
	}
	if !s.git.IsGitRepo(root) {
		return nil, fmt.Errorf("%s is not inside a git repository", root)
	}
	changed, err := s.git.ChangedFiles(root)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}
	files := make([]string, 0, len(changed))
	for _, f := range changed {
		if s.frontEnds.Supports(f) {
			files = append(files, f)
		}
	}
	return files, nil
}

func (s *LintService) analyze(ctx context.Context, engine *rules.Engine, root string, files []string, jobs int) (*domain.Report, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	col := NewCollector()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.analyzeFile(gctx, engine, root, f, col)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyzing project: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyzing project: %w", err)
	}
	return col.Report(root), nil
}

func (s *LintService) analyzeFile(ctx context.Context, engine *rules.Engine, root, relPath string, sink *Collector) {
	if pc := engine.Classify(relPath); pc.Exclusion.Excluded() {
		s.logger.Debug("skipping file", "file", relPath, "status", pc.Exclusion)
		sink.Exclude()
		return
	}

	fe, err := s.frontEnds.For(relPath)
	if err != nil {
		s.logger.Debug("skipping file", "file", relPath, "error", err)
		sink.Fail()
		return
	}
	unit, err := fe.Parse(ctx, root, relPath)
	if err != nil {
		s.logger.Warn("parsing file", "file", relPath, "frontend", fe.Name(), "error", err)
		sink.Fail()
		return
	}
	if unit.Path == "" {
		unit.Path = relPath
	}
	report := engine.Analyze(unit)
	if report.Class.Exclusion.Excluded() {
		s.logger.Debug("skipping file", "file", unit.Path, "status", report.Class.Exclusion)
		sink.Exclude()
		return
	}
	sink.Emit(report)
}

func (s *LintService) record(root string, report *domain.Report) error {
	if s.history == nil {
		return errors.New("no history store configured")
	}
	entry := domain.RunEntry{
		RunID:     uuid.NewString(),
		Timestamp: s.now().UTC(),
		Files:     report.Summary.FilesAnalyzed,
		Errors:    report.Summary.Errors,
		Warnings:  report.Summary.Warnings,
		Infos:     report.Summary.Infos,
	}
	if s.git != nil && s.git.IsGitRepo(root) {
		hash, err := s.git.CommitHash(root)
		if err != nil {
			s.logger.Debug("reading commit hash", "error", err)
		}
		entry.CommitHash = hash
	}
	return s.history.Save(root, entry)
}
