// Package direction enforces the allowed import directions between layers.
package direction

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/layers"
)

// Violation is a forbidden dependency edge.
type Violation struct {
	Source     domain.Layer `json:"source"`
	Target     domain.Layer `json:"target"`
	ImportPath string       `json:"import"`
	Message    string       `json:"message"`
	Correction string       `json:"correction"`
}

// Target is the resolved destination of an import.
type Target struct {
	Path     string       `json:"path,omitempty"`
	Package  string       `json:"package,omitempty"`
	Layer    domain.Layer `json:"layer"`
	External bool         `json:"external"`
}

type edge struct{ from, to domain.Layer }

var allowed = map[edge]bool{
	{domain.LayerDomain, domain.LayerDomain}:                 true,
	{domain.LayerData, domain.LayerDomain}:                   true,
	{domain.LayerData, domain.LayerData}:                     true,
	{domain.LayerData, domain.LayerInfrastructure}:           true,
	{domain.LayerPresentation, domain.LayerDomain}:           true,
	{domain.LayerPresentation, domain.LayerPresentation}:     true,
	{domain.LayerInfrastructure, domain.LayerInfrastructure}: true,
}

var corrections = map[edge]string{
	{domain.LayerDomain, domain.LayerData}:                 "introduce an abstraction in Domain and implement it in Data",
	{domain.LayerDomain, domain.LayerPresentation}:         "move the shared type into Domain; Domain must not know how it is displayed",
	{domain.LayerDomain, domain.LayerInfrastructure}:       "declare the capability as a Domain interface and implement it in Data on top of the infrastructure package",
	{domain.LayerData, domain.LayerPresentation}:           "move the shared type into Domain so Data does not depend on Presentation",
	{domain.LayerPresentation, domain.LayerData}:           "depend on the Domain use case instead of the Data implementation directly",
	{domain.LayerPresentation, domain.LayerInfrastructure}: "reach infrastructure through a Domain use case backed by a Data repository",
	{domain.LayerInfrastructure, domain.LayerDomain}:       "keep infrastructure adapters generic; bind them to Domain types in Data",
	{domain.LayerInfrastructure, domain.LayerData}:         "invert the dependency: Data may use Infrastructure, not the other way round",
	{domain.LayerInfrastructure, domain.LayerPresentation}: "invert the dependency: Presentation wiring belongs in a composition root",
}

// Checker decides whether an import is allowed. It is immutable once built.
type Checker struct {
	layers      *layers.Classifier
	roots       []string
	shared      []string
	packageName string
	infraPkgs   []string
	uiPkgs      []string
}

// New creates a checker from a normalized configuration.
func New(cfg domain.LintConfig, classifier *layers.Classifier) *Checker {
	c := &Checker{
		layers:      classifier,
		packageName: cfg.PackageName,
		infraPkgs:   cfg.InfrastructurePackages,
		uiPkgs:      cfg.UIPackages,
	}
	for _, r := range cfg.CompositionRoots {
		c.roots = append(c.roots, strings.ToLower(r))
	}
	for _, s := range cfg.SharedPaths {
		c.shared = append(c.shared, strings.ToLower(s))
	}
	return c
}

// CheckEdge judges a single layer edge. It returns nil when the edge is
// allowed or either end is Unknown. Presentation may reach Infrastructure
// only through a UI package on the allow-list.
func (c *Checker) CheckEdge(source, target domain.Layer, importPath string) *Violation {
	if !source.Known() || !target.Known() {
		return nil
	}
	e := edge{source, target}
	if allowed[e] {
		return nil
	}
	if source == domain.LayerPresentation && target == domain.LayerInfrastructure && c.isUIPackage(importPath) {
		return nil
	}

	correction, ok := corrections[e]
	if !ok {
		correction = fmt.Sprintf("move the dependency so %s no longer imports %s", source.Title(), target.Title())
	}
	return &Violation{
		Source:     source,
		Target:     target,
		ImportPath: importPath,
		Message:    fmt.Sprintf("%s layer must not import %s layer (%s)", source.Title(), target.Title(), importPath),
		Correction: correction,
	}
}

// CheckImport resolves an import of the file described by source and judges
// the resulting edge. Composition roots and shared utilities are exempt.
func (c *Checker) CheckImport(source domain.PathClass, importPath string) *Violation {
	if c.IsCompositionRoot(source.Path) {
		return nil
	}
	tgt := c.Resolve(source.Path, importPath)
	if !tgt.External && c.IsShared(tgt.Path) {
		return nil
	}
	return c.CheckEdge(source.Layer, tgt.Layer, importPath)
}

// Resolve maps an import string to a project path or an external package and
// classifies its layer. Unrecognized external packages are Unknown.
func (c *Checker) Resolve(sourcePath, importPath string) Target {
	imp := strings.Trim(strings.TrimSpace(importPath), `'"`)

	switch {
	case imp == "":
		return Target{Layer: domain.LayerUnknown}
	case strings.HasPrefix(imp, "dart:"), strings.HasPrefix(imp, "node:"):
		return Target{Package: imp, Layer: domain.LayerUnknown, External: true}
	case strings.HasPrefix(imp, "package:"):
		rest := strings.TrimPrefix(imp, "package:")
		name, sub, _ := strings.Cut(rest, "/")
		if c.packageName != "" && name == c.packageName {
			return c.project("/lib/" + sub)
		}
		return c.external(name)
	case strings.HasPrefix(imp, "./"), strings.HasPrefix(imp, "../"):
		return c.project(path.Join(path.Dir(layers.Normalize(sourcePath)), imp))
	case strings.HasPrefix(imp, "/"):
		return c.project(imp)
	case strings.HasPrefix(imp, "@/"), strings.HasPrefix(imp, "~/"):
		return c.project(imp[1:])
	case strings.HasSuffix(imp, ".dart"):
		// Dart allows relative imports without a leading "./".
		return c.project(path.Join(path.Dir(layers.Normalize(sourcePath)), imp))
	}
	return c.external(packageName(imp))
}

// IsCompositionRoot reports whether a file may wire layers together.
// Entries containing "/" match anywhere in the path; others match the file
// name without extensions.
func (c *Checker) IsCompositionRoot(p string) bool {
	norm := strings.ToLower(layers.Normalize(p))
	stem := path.Base(norm)
	if i := strings.IndexByte(stem, '.'); i > 0 {
		stem = stem[:i]
	}
	for _, r := range c.roots {
		if strings.Contains(r, "/") {
			if strings.Contains(norm, r) {
				return true
			}
			continue
		}
		if stem == r {
			return true
		}
	}
	return false
}

// IsShared reports whether a project path is a cross-cutting utility.
func (c *Checker) IsShared(p string) bool {
	if p == "" {
		return false
	}
	norm := strings.ToLower(layers.Normalize(p))
	for _, s := range c.shared {
		if strings.Contains(norm, s) {
			return true
		}
	}
	return false
}

func (c *Checker) project(p string) Target {
	norm := layers.Normalize(p)
	return Target{Path: strings.TrimPrefix(norm, "/"), Layer: c.layers.LayerOf(norm)}
}

func (c *Checker) external(name string) Target {
	t := Target{Package: name, Layer: domain.LayerUnknown, External: true}
	if matchAny(c.uiPkgs, name) || matchAny(c.infraPkgs, name) {
		t.Layer = domain.LayerInfrastructure
	}
	return t
}

func (c *Checker) isUIPackage(importPath string) bool {
	imp := strings.Trim(strings.TrimSpace(importPath), `'"`)
	if rest, ok := strings.CutPrefix(imp, "package:"); ok {
		name, _, _ := strings.Cut(rest, "/")
		return matchAny(c.uiPkgs, name)
	}
	return matchAny(c.uiPkgs, packageName(imp))
}

// packageName extracts "react" from "react/jsx-runtime" and "@angular/core"
// from "@angular/core/testing".
func packageName(imp string) string {
	parts := strings.SplitN(imp, "/", 3)
	if strings.HasPrefix(imp, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
