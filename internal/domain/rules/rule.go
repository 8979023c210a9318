// Package rules holds the rule catalogue and the engine that evaluates it
// over compilation units.
package rules

import (
	"fmt"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/direction"
	"github.com/layerlint/layerlint/internal/domain/exceptions"
	"github.com/layerlint/layerlint/internal/domain/roles"
	"github.com/layerlint/layerlint/internal/domain/typealias"
)

// Rule is one architectural check. A rule registers interest in a node kind
// by supplying the matching hook; nil hooks are never called.
type Rule struct {
	ID              string
	Summary         string
	DefaultSeverity domain.Severity

	OnClass  func(ctx *Context, decl *domain.Declaration)
	OnImport func(ctx *Context, imp *domain.Import)
	OnThrow  func(ctx *Context, site *domain.ThrowSite)
}

// Interests lists the node kinds the rule listens to.
func (r *Rule) Interests() []domain.NodeKind {
	var kinds []domain.NodeKind
	if r.OnImport != nil {
		kinds = append(kinds, domain.NodeImport)
	}
	if r.OnClass != nil {
		kinds = append(kinds, domain.NodeClass)
	}
	if r.OnThrow != nil {
		kinds = append(kinds, domain.NodeThrow)
	}
	return kinds
}

func (r *Rule) visit(ctx *Context, n domain.Node) {
	switch n.Kind {
	case domain.NodeImport:
		if r.OnImport != nil {
			r.OnImport(ctx, n.Import)
		}
	case domain.NodeClass:
		if r.OnClass != nil {
			r.OnClass(ctx, n.Decl)
		}
	case domain.NodeThrow:
		if r.OnThrow != nil {
			r.OnThrow(ctx, n.Throw)
		}
	}
}

func (r *Rule) listens(kind domain.NodeKind) bool {
	switch kind {
	case domain.NodeImport:
		return r.OnImport != nil
	case domain.NodeClass:
		return r.OnClass != nil
	case domain.NodeThrow:
		return r.OnThrow != nil
	}
	return false
}

// IDs returns the ids of the given rules in order.
func IDs(rules []Rule) []string {
	ids := make([]string, len(rules))
	for i := range rules {
		ids[i] = rules[i].ID
	}
	return ids
}

// Context is handed to every hook invocation for one unit. It carries the
// unit, its path classification and the shared, immutable analyzers.
type Context struct {
	Unit  *domain.CompilationUnit
	Class domain.PathClass

	engine   *Engine
	rule     *Rule
	severity domain.Severity
	pending  []domain.Diagnostic
	roles    map[*domain.Declaration]roles.Classification
}

// Layer is the layer of the unit under analysis.
func (c *Context) Layer() domain.Layer { return c.Class.Layer }

// Classify returns the role classification of a declaration of this unit.
func (c *Context) Classify(decl *domain.Declaration) roles.Classification {
	if cls, ok := c.roles[decl]; ok {
		return cls
	}
	cls := c.engine.roles.Classify(decl, c.Class)
	c.roles[decl] = cls
	return cls
}

// Direction returns the dependency direction checker.
func (c *Context) Direction() *direction.Checker { return c.engine.direction }

// Outcomes returns the outcome-type resolver.
func (c *Context) Outcomes() *typealias.Resolver { return c.engine.outcomes }

// Exceptions returns the exception taxonomy.
func (c *Context) Exceptions() *exceptions.Taxonomy { return c.engine.exceptions }

// IsOutcome reports whether ref is an outcome type under the unit's aliases.
func (c *Context) IsOutcome(ref domain.TypeRef) bool {
	return c.engine.outcomes.IsOutcomeType(ref, c.Unit.Aliases)
}

// Report emits a diagnostic for the rule currently running.
func (c *Context) Report(span domain.Span, problem, correction string) {
	c.pending = append(c.pending, domain.Diagnostic{
		RuleID:     c.rule.ID,
		Problem:    problem,
		Correction: correction,
		Severity:   c.severity,
		Location:   domain.Location{File: c.Class.Path, Span: span},
	})
}

// Reportf is Report with a formatted problem.
func (c *Context) Reportf(span domain.Span, correction, format string, args ...any) {
	c.Report(span, fmt.Sprintf(format, args...), correction)
}
