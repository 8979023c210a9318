package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerlint/layerlint/internal/domain"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Severity
		ok   bool
	}{
		{"error", domain.SeverityError, true},
		{" Warning ", domain.SeverityWarning, true},
		{"INFO", domain.SeverityInfo, true},
		{"none", domain.SeverityNone, true},
		{"fatal", domain.SeverityWarning, false},
		{"", domain.SeverityWarning, false},
	}
	for _, tt := range tests {
		got, ok := domain.ParseSeverity(tt.in)
		assert.Equal(t, tt.want, got, "severity %q", tt.in)
		assert.Equal(t, tt.ok, ok, "severity %q", tt.in)
	}
}

func TestSeverity_AtLeast(t *testing.T) {
	assert.True(t, domain.SeverityError.AtLeast(domain.SeverityError))
	assert.True(t, domain.SeverityError.AtLeast(domain.SeverityWarning))
	assert.False(t, domain.SeverityWarning.AtLeast(domain.SeverityError))
	assert.False(t, domain.SeverityNone.AtLeast(domain.SeverityInfo))
}

func TestReport_HasErrors(t *testing.T) {
	r := &domain.Report{Files: []domain.FileReport{
		{Path: "a.dart", Diagnostics: []domain.Diagnostic{{RuleID: "x", Severity: domain.SeverityWarning}}},
	}}
	assert.False(t, r.HasErrors())

	r.Files = append(r.Files, domain.FileReport{
		Path:        "b.dart",
		Diagnostics: []domain.Diagnostic{{RuleID: "y", Severity: domain.SeverityError}},
	})
	assert.True(t, r.HasErrors())
}

func TestReport_Finalize(t *testing.T) {
	r := &domain.Report{Files: []domain.FileReport{
		{Path: "z.dart", Diagnostics: []domain.Diagnostic{{Severity: domain.SeverityError}, {Severity: domain.SeverityInfo}}},
		{Path: "a.dart", Diagnostics: []domain.Diagnostic{{Severity: domain.SeverityWarning}}},
	}}
	r.Finalize()

	require.Len(t, r.Files, 2)
	assert.Equal(t, "a.dart", r.Files[0].Path)
	assert.Equal(t, 2, r.Summary.FilesAnalyzed)
	assert.Equal(t, 1, r.Summary.Errors)
	assert.Equal(t, 1, r.Summary.Warnings)
	assert.Equal(t, 1, r.Summary.Infos)
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "lib/a.dart", domain.Location{File: "lib/a.dart"}.String())
	assert.Equal(t, "lib/a.dart:3:7", domain.Location{File: "lib/a.dart", Span: domain.Span{StartLine: 3, StartCol: 7}}.String())
}

func TestCompilationUnit_NodesInSourceOrder(t *testing.T) {
	u := &domain.CompilationUnit{
		Path:    "lib/domain/a.dart",
		Imports: []domain.Import{{Path: "b.dart", Span: domain.Span{StartLine: 1}}, {Path: "c.dart", Span: domain.Span{StartLine: 2}}},
		Declarations: []domain.Declaration{
			{Name: "Later", Kind: domain.DeclClass, Span: domain.Span{StartLine: 20}},
			{Name: "helper", Kind: domain.DeclFunction, Span: domain.Span{StartLine: 5}},
			{Name: "Earlier", Kind: domain.DeclClass, Span: domain.Span{StartLine: 10}},
		},
		Throws: []domain.ThrowSite{{TypeName: "X", Span: domain.Span{StartLine: 12}}},
	}

	var labels []string
	for _, n := range u.Nodes() {
		labels = append(labels, n.Label())
	}
	assert.Equal(t, []string{"import b.dart", "import c.dart", "class Earlier", "throw X", "class Later"}, labels)
}

func TestTypeAliasTable_Lookup(t *testing.T) {
	table := domain.NewTypeAliasTable(domain.TypeAlias{Name: "R", Target: domain.TypeRef{Name: "Either"}})

	_, ok := table.Lookup("R")
	assert.True(t, ok)
	_, ok = table.Lookup("core.R")
	assert.True(t, ok)
	_, ok = table.Lookup("S")
	assert.False(t, ok)

	var empty domain.TypeAliasTable
	_, ok = empty.Lookup("R")
	assert.False(t, ok, "nil table lookups are safe")
}

func TestDeclaration_Supertypes(t *testing.T) {
	d := domain.Declaration{Extends: []string{"Base"}, Implements: []string{"A", "B"}}
	assert.Equal(t, []string{"Base", "A", "B"}, d.Supertypes())
}
