// Package layers classifies source file paths into architectural layers,
// role hints and exclusion status.
package layers

import (
	"path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/layerlint/layerlint/internal/domain"
)

var (
	testDirs     = []string{"/test/", "/tests/", "/__tests__/", "/integration_test/", "/test_driver/"}
	testMarkers  = []string{".test.", ".spec.", "_test."}
	genSuffixes  = []string{".g.dart", ".freezed.dart", ".gr.dart", ".mocks.dart", ".config.dart", ".pb.dart", ".pbenum.dart", ".pbjson.dart", ".d.ts", ".pb.go"}
	genMarkers   = []string{".generated.", ".gen."}
	genDirs      = []string{"/generated/"}
	buildDirs    = []string{"/build/", "/.dart_tool/", "/dist/", "/node_modules/", "/out/", "/.git/", "/coverage/"}
	fileSuffixes = []struct {
		suffix string
		hint   domain.RoleHint
	}{
		{"_repository_impl", domain.HintRepository},
		{"_repository_implementation", domain.HintRepository},
		{"_repository", domain.HintRepository},
		{"_use_case", domain.HintUseCase},
		{"_usecase", domain.HintUseCase},
		{"_data_source", domain.HintDataSource},
		{"_datasource", domain.HintDataSource},
		{"_entity", domain.HintEntity},
		{"_state", domain.HintState},
		{"_bloc", domain.HintState},
		{"_cubit", domain.HintState},
		{"_notifier", domain.HintState},
		{"_store", domain.HintState},
		{"_view_model", domain.HintState},
		{"_viewmodel", domain.HintState},
	}
)

type layerPatterns struct {
	layer    domain.Layer
	patterns []string
}

type hintPatterns struct {
	hint     domain.RoleHint
	patterns []string
}

// Classifier is a pure path classifier. Results are memoized per path; the
// cache is safe for concurrent use.
type Classifier struct {
	layers  []layerPatterns
	hints   []hintPatterns
	exclude []string
	cache   sync.Map // raw path -> domain.PathClass
}

// New builds a classifier from a normalized configuration.
func New(cfg domain.LintConfig) *Classifier {
	return &Classifier{
		layers: []layerPatterns{
			{domain.LayerDomain, normalizePatterns(cfg.DomainPaths)},
			{domain.LayerData, normalizePatterns(cfg.DataPaths)},
			{domain.LayerPresentation, normalizePatterns(cfg.PresentationPaths)},
			{domain.LayerInfrastructure, normalizePatterns(cfg.InfrastructurePaths)},
		},
		hints: []hintPatterns{
			{domain.HintEntity, normalizePatterns(cfg.EntityPaths)},
			{domain.HintUseCase, normalizePatterns(cfg.UseCasePaths)},
			{domain.HintRepository, normalizePatterns(cfg.RepositoryPaths)},
			{domain.HintDataSource, normalizePatterns(cfg.DataSourcePaths)},
			{domain.HintState, normalizePatterns(cfg.StatePaths)},
		},
		exclude: cfg.Exclude,
	}
}

// Classify returns the layer, role hint and exclusion status of a path.
// Exclusion takes precedence: an excluded path is never layer-classified.
func (c *Classifier) Classify(p string) domain.PathClass {
	if v, ok := c.cache.Load(p); ok {
		return v.(domain.PathClass)
	}

	norm := Normalize(p)
	pc := domain.PathClass{
		Path:      strings.TrimPrefix(norm, "/"),
		Layer:     domain.LayerUnknown,
		Hint:      domain.HintNone,
		Exclusion: c.exclusion(norm),
	}
	if !pc.Exclusion.Excluded() {
		lower := strings.ToLower(norm)
		pc.Layer = c.layerOf(lower)
		pc.Hint = c.hintOf(lower)
	}

	c.cache.Store(p, pc)
	return pc
}

// LayerOf classifies a path into a layer without applying exclusion rules.
// It is used for import targets, whose own exclusion is irrelevant. A target
// may name a directory (a Go package, a TS index import), so its last
// segment is matched like a directory.
func (c *Classifier) LayerOf(p string) domain.Layer {
	return c.layerOf(ensureTrailingSlash(strings.ToLower(Normalize(p))))
}

// Normalize converts a path to forward slashes, cleans it and gives it a
// leading slash so substring patterns like "/domain/" match at the root.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return "/"
	}
	cleaned := path.Clean("/" + p)
	return cleaned
}

func (c *Classifier) exclusion(norm string) domain.ExclusionStatus {
	lower := strings.ToLower(norm)
	dir, base := path.Split(lower)
	dir = ensureTrailingSlash(dir)

	if containsAny(dir, testDirs) || containsAny(base, testMarkers) || hasStemSuffix(base, "_test") {
		return domain.StatusExcludedTest
	}
	if hasAnySuffix(base, genSuffixes) || containsAny(base, genMarkers) || containsAny(dir, genDirs) {
		return domain.StatusExcludedGenerated
	}
	if containsAny(dir, buildDirs) {
		return domain.StatusExcludedBuild
	}

	rel := strings.TrimPrefix(norm, "/")
	for _, pattern := range c.exclude {
		if ok, _ := doublestar.Match(strings.TrimPrefix(pattern, "/"), rel); ok {
			return domain.StatusExcludedConfig
		}
	}
	return domain.StatusAnalyzed
}

// layerOf runs the longest-match scan. More path segments win; among equally
// specific patterns the match nearest the file (rightmost) wins, so
// /features/todos/domain/ is Domain rather than the legacy /features/ synonym.
func (c *Classifier) layerOf(lower string) domain.Layer {
	best := domain.LayerUnknown
	bestSegs, bestIdx := 0, -1
	for _, lp := range c.layers {
		for _, pattern := range lp.patterns {
			idx := strings.LastIndex(lower, pattern)
			if idx < 0 {
				continue
			}
			segs := segmentCount(pattern)
			if segs > bestSegs || (segs == bestSegs && idx > bestIdx) {
				best, bestSegs, bestIdx = lp.layer, segs, idx
			}
		}
	}
	return best
}

// hintOf prefers a filename suffix over a directory token.
func (c *Classifier) hintOf(lower string) domain.RoleHint {
	stem := fileStem(path.Base(lower))
	for _, fs := range fileSuffixes {
		if strings.HasSuffix(stem, fs.suffix) || stem == strings.TrimPrefix(fs.suffix, "_") {
			return fs.hint
		}
	}

	best := domain.HintNone
	bestSegs, bestIdx := 0, -1
	dir := ensureTrailingSlash(path.Dir(lower))
	for _, hp := range c.hints {
		for _, pattern := range hp.patterns {
			idx := strings.LastIndex(dir, pattern)
			if idx < 0 {
				continue
			}
			segs := segmentCount(pattern)
			if segs > bestSegs || (segs == bestSegs && idx > bestIdx) {
				best, bestSegs, bestIdx = hp.hint, segs, idx
			}
		}
	}
	return best
}

// fileStem strips extensions and folds "." and "-" separators to "_":
// "todo.repository.impl.ts" -> "todo_repository_impl".
func fileStem(base string) string {
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.NewReplacer(".", "_", "-", "_").Replace(base)
}

func hasStemSuffix(base, suffix string) bool {
	return strings.HasSuffix(fileStem(base), suffix)
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(p), `\`, "/"))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		out = append(out, ensureTrailingSlash(p))
	}
	return out
}

func segmentCount(pattern string) int {
	n := 0
	for _, s := range strings.Split(pattern, "/") {
		if s != "" {
			n++
		}
	}
	return n
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
