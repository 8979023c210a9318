package rules

import (
	"fmt"
	"log/slog"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/direction"
	"github.com/layerlint/layerlint/internal/domain/exceptions"
	"github.com/layerlint/layerlint/internal/domain/layers"
	"github.com/layerlint/layerlint/internal/domain/roles"
	"github.com/layerlint/layerlint/internal/domain/typealias"
)

type activeRule struct {
	rule     *Rule
	severity domain.Severity
}

// Engine evaluates a rule set over compilation units. It is built once per
// run and is safe for concurrent use: all of its state is read-only.
type Engine struct {
	cfg    domain.LintConfig
	rules  []Rule
	active []activeRule
	logger *slog.Logger

	layers     *layers.Classifier
	roles      *roles.Classifier
	direction  *direction.Checker
	outcomes   *typealias.Resolver
	exceptions *exceptions.Taxonomy
}

// NewEngine normalizes cfg against the rule set and resolves every rule's
// effective severity. Rules resolved to SeverityNone are dropped.
func NewEngine(cfg domain.LintConfig, rules []Rule, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Normalize(IDs(rules))
	for _, w := range cfg.Warnings {
		logger.Warn("config", "warning", w)
	}

	cls := layers.New(cfg)
	e := &Engine{
		cfg:        cfg,
		rules:      rules,
		logger:     logger,
		layers:     cls,
		roles:      roles.New(),
		direction:  direction.New(cfg, cls),
		outcomes:   typealias.New(cfg.OutcomeTypes, cfg.AsyncWrappers),
		exceptions: exceptions.New(cfg.MinFeaturePrefixLength),
	}
	if !cfg.IsEnabled() {
		return e
	}
	for i := range e.rules {
		r := &e.rules[i]
		sev := cfg.SeverityFor(r.ID, r.DefaultSeverity)
		if sev == domain.SeverityNone {
			logger.Debug("rule disabled", "rule", r.ID)
			continue
		}
		e.active = append(e.active, activeRule{rule: r, severity: sev})
	}
	return e
}

// Config returns the normalized configuration.
func (e *Engine) Config() domain.LintConfig { return e.cfg }

// Rules returns the full rule set, enabled or not.
func (e *Engine) Rules() []Rule { return e.rules }

// Severity returns the effective severity of a rule, SeverityNone when it is
// disabled or unknown.
func (e *Engine) Severity(ruleID string) domain.Severity {
	for _, a := range e.active {
		if a.rule.ID == ruleID {
			return a.severity
		}
	}
	return domain.SeverityNone
}

// Classify classifies a path with the engine's path classifier.
func (e *Engine) Classify(p string) domain.PathClass { return e.layers.Classify(p) }

// ClassifyDecl classifies a declaration found in the given file.
func (e *Engine) ClassifyDecl(decl *domain.Declaration, pc domain.PathClass) roles.Classification {
	return e.roles.Classify(decl, pc)
}

// Exceptions returns the engine's exception taxonomy.
func (e *Engine) Exceptions() *exceptions.Taxonomy { return e.exceptions }

// Analyze runs every enabled rule over the unit in a single ordered traversal.
// Excluded files return an empty report carrying their exclusion status.
// A rule that panics is recorded as a RuleFailure; its findings for that node
// are discarded and every other rule and node continues.
func (e *Engine) Analyze(unit *domain.CompilationUnit) domain.FileReport {
	pc := e.layers.Classify(unit.Path)
	fr := domain.FileReport{Path: pc.Path, Class: pc, Diagnostics: []domain.Diagnostic{}}
	if pc.Exclusion.Excluded() || len(e.active) == 0 {
		return fr
	}

	ctx := &Context{
		Unit:   unit,
		Class:  pc,
		engine: e,
		roles:  make(map[*domain.Declaration]roles.Classification),
	}
	for _, n := range unit.Nodes() {
		for i := range e.active {
			a := &e.active[i]
			if !a.rule.listens(n.Kind) {
				continue
			}
			diags, failure := e.invoke(ctx, a, n)
			if failure != nil {
				fr.Failures = append(fr.Failures, *failure)
				continue
			}
			fr.Diagnostics = append(fr.Diagnostics, diags...)
		}
	}
	return fr
}

func (e *Engine) invoke(ctx *Context, a *activeRule, n domain.Node) (diags []domain.Diagnostic, failure *domain.RuleFailure) {
	ctx.rule, ctx.severity, ctx.pending = a.rule, a.severity, nil
	defer func() {
		if rec := recover(); rec != nil {
			failure = &domain.RuleFailure{
				RuleID:  a.rule.ID,
				Node:    n.Label(),
				Message: fmt.Sprint(rec),
			}
			e.logger.Warn("rule failed",
				"rule", a.rule.ID, "file", ctx.Class.Path, "node", n.Label(), "panic", rec)
			diags = nil
		}
	}()
	a.rule.visit(ctx, n)
	return ctx.pending, nil
}
