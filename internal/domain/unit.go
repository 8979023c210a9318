package domain

import (
	"sort"
	"strings"
)

// CompilationUnit is the language-neutral view of one parsed source file,
// supplied by a front end. The engine never mutates it.
type CompilationUnit struct {
	Path         string         `json:"path"`
	Language     string         `json:"language,omitempty"`
	Package      string         `json:"package,omitempty"`
	Imports      []Import       `json:"imports,omitempty"`
	Declarations []Declaration  `json:"declarations,omitempty"`
	Throws       []ThrowSite    `json:"throws,omitempty"`
	Aliases      TypeAliasTable `json:"aliases,omitempty"`
}

// Import is a single import/export-from statement.
type Import struct {
	Path string `json:"path"`
	Span Span   `json:"span"`
}

// DeclKind distinguishes class-like declarations.
type DeclKind string

const (
	DeclClass     DeclKind = "class"
	DeclInterface DeclKind = "interface"
	DeclMixin     DeclKind = "mixin"
	DeclEnum      DeclKind = "enum"
	DeclFunction  DeclKind = "function"
)

// Declaration is a class-like or function-like symbol.
type Declaration struct {
	Name       string   `json:"name"`
	Kind       DeclKind `json:"kind"`
	Abstract   bool     `json:"abstract,omitempty"`
	Extends    []string `json:"extends,omitempty"`
	Implements []string `json:"implements,omitempty"`
	Members    []Member `json:"members,omitempty"`
	Span       Span     `json:"span"`
}

// IsClassLike reports whether rules with class interest should see the node.
func (d *Declaration) IsClassLike() bool {
	switch d.Kind {
	case DeclClass, DeclInterface, DeclMixin, "":
		return true
	}
	return false
}

// Supertypes returns extends followed by implements.
func (d *Declaration) Supertypes() []string {
	out := make([]string, 0, len(d.Extends)+len(d.Implements))
	out = append(out, d.Extends...)
	return append(out, d.Implements...)
}

// MemberKind distinguishes class members.
type MemberKind string

const (
	MemberField       MemberKind = "field"
	MemberMethod      MemberKind = "method"
	MemberGetter      MemberKind = "getter"
	MemberSetter      MemberKind = "setter"
	MemberConstructor MemberKind = "constructor"
)

// Member is a field or method of a declaration.
type Member struct {
	Name     string     `json:"name"`
	Kind     MemberKind `json:"kind"`
	Abstract bool       `json:"abstract,omitempty"`
	Static   bool       `json:"static,omitempty"`
	Private  bool       `json:"private,omitempty"`
	Mutable  bool       `json:"mutable,omitempty"`
	Type     *TypeRef   `json:"type,omitempty"`
	Span     Span       `json:"span"`
}

// IsAccessor reports whether the member is a getter or setter.
func (m Member) IsAccessor() bool {
	return m.Kind == MemberGetter || m.Kind == MemberSetter
}

// ThrowSite is a throw expression that constructs a named type.
type ThrowSite struct {
	TypeName  string `json:"type_name"`
	Enclosing string `json:"enclosing,omitempty"`
	Span      Span   `json:"span"`
}

// TypeRef is a named type reference with generic arguments.
type TypeRef struct {
	Name     string    `json:"name"`
	Args     []TypeRef `json:"args,omitempty"`
	Nullable bool      `json:"nullable,omitempty"`
}

// BaseName strips a package qualifier: "dartz.Either" -> "Either".
func (t TypeRef) BaseName() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

func (t TypeRef) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// TypeAlias is a single `typedef`/`type` declaration.
type TypeAlias struct {
	Name   string   `json:"name"`
	Params []string `json:"params,omitempty"`
	Target TypeRef  `json:"target"`
	Span   Span     `json:"span"`
}

// TypeAliasTable maps alias names to their declarations for one unit.
type TypeAliasTable map[string]TypeAlias

// NewTypeAliasTable builds a table; later duplicates win.
func NewTypeAliasTable(aliases ...TypeAlias) TypeAliasTable {
	t := make(TypeAliasTable, len(aliases))
	for _, a := range aliases {
		t[a.Name] = a
	}
	return t
}

// Lookup finds an alias by plain or qualified name.
func (t TypeAliasTable) Lookup(name string) (TypeAlias, bool) {
	if a, ok := t[name]; ok {
		return a, true
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		a, ok := t[name[i+1:]]
		return a, ok
	}
	return TypeAlias{}, false
}

// NodeKind is the kind of node a rule can register interest in.
type NodeKind string

const (
	NodeImport NodeKind = "import"
	NodeClass  NodeKind = "class"
	NodeThrow  NodeKind = "throw"
)

// Node is one traversal step over a compilation unit.
type Node struct {
	Kind   NodeKind
	Span   Span
	Import *Import
	Decl   *Declaration
	Throw  *ThrowSite
}

// Label describes the node for logs and failure records.
func (n Node) Label() string {
	switch n.Kind {
	case NodeImport:
		return "import " + n.Import.Path
	case NodeClass:
		return "class " + n.Decl.Name
	case NodeThrow:
		return "throw " + n.Throw.TypeName
	}
	return string(n.Kind)
}

// Nodes returns the unit's imports, class-like declarations and throw sites
// in source order. Nodes on the same position keep import, class, throw order.
func (u *CompilationUnit) Nodes() []Node {
	nodes := make([]Node, 0, len(u.Imports)+len(u.Declarations)+len(u.Throws))
	for i := range u.Imports {
		nodes = append(nodes, Node{Kind: NodeImport, Span: u.Imports[i].Span, Import: &u.Imports[i]})
	}
	for i := range u.Declarations {
		if !u.Declarations[i].IsClassLike() {
			continue
		}
		nodes = append(nodes, Node{Kind: NodeClass, Span: u.Declarations[i].Span, Decl: &u.Declarations[i]})
	}
	for i := range u.Throws {
		nodes = append(nodes, Node{Kind: NodeThrow, Span: u.Throws[i].Span, Throw: &u.Throws[i]})
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Span.Before(nodes[j].Span) })
	return nodes
}
