// Package typealias decides whether a declared type is, or resolves through
// local type aliases to, a tagged success/failure outcome type.
package typealias

import (
	"github.com/layerlint/layerlint/internal/domain"
)

// Resolver holds the outcome-wrapper and async-wrapper vocabularies.
// It is immutable and safe for concurrent use.
type Resolver struct {
	outcome map[string]bool
	async   map[string]bool
}

// New creates a resolver. Empty vocabularies fall back to the defaults.
func New(outcomeTypes, asyncWrappers []string) *Resolver {
	if len(outcomeTypes) == 0 {
		outcomeTypes = domain.DefaultOutcomeTypes
	}
	if len(asyncWrappers) == 0 {
		asyncWrappers = domain.DefaultAsyncWrappers
	}
	r := &Resolver{outcome: make(map[string]bool), async: make(map[string]bool)}
	for _, n := range outcomeTypes {
		r.outcome[n] = true
	}
	for _, n := range asyncWrappers {
		r.async[n] = true
	}
	return r
}

// IsOutcomeType reports whether ref is an outcome wrapper, an async wrapper
// around one, or an alias that resolves to either. Alias cycles resolve to
// false and always terminate.
func (r *Resolver) IsOutcomeType(ref domain.TypeRef, aliases domain.TypeAliasTable) bool {
	ok, _ := r.ResolveChain(ref, aliases)
	return ok
}

// ResolveChain is IsOutcomeType that also returns the alias names followed on the
// successful path, outermost first.
func (r *Resolver) ResolveChain(ref domain.TypeRef, aliases domain.TypeAliasTable) (bool, []string) {
	visited := make(map[string]bool)
	var chain []string
	ok := r.resolve(ref, aliases, visited, &chain)
	if !ok {
		return false, nil
	}
	return true, chain
}

func (r *Resolver) resolve(ref domain.TypeRef, aliases domain.TypeAliasTable, visited map[string]bool, chain *[]string) bool {
	base := ref.BaseName()

	if r.outcome[base] {
		return true
	}

	if r.async[base] {
		for _, arg := range ref.Args {
			if r.resolve(arg, aliases, visited, chain) {
				return true
			}
		}
		return false
	}

	alias, ok := aliases.Lookup(ref.Name)
	if !ok {
		return false
	}
	// An alias is expanded at most once per query. A second visit is either a
	// cycle or a branch already known to fail.
	if visited[alias.Name] {
		return false
	}
	visited[alias.Name] = true

	*chain = append(*chain, alias.Name)
	if r.resolve(alias.Target, aliases, visited, chain) {
		return true
	}
	*chain = (*chain)[:len(*chain)-1]
	return false
}
