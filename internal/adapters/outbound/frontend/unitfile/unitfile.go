// Package unitfile reads compilation units that external analysis hosts
// serialize as JSON or YAML next to the sources they describe.
//
// A unit file is named after its source with a ".unit.json", ".unit.yaml" or
// ".unit.yml" suffix, e.g. "todo_repository.dart.unit.json". Type references
// are written either as strings ("Future<Either<Failure, Todo>>") or as
// {name, args, nullable} objects.
package unitfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/layerlint/layerlint/internal/domain"
)

var suffixes = []string{".unit.json", ".unit.yaml", ".unit.yml"}

// Reader implements domain.FrontEnd for unit files.
type Reader struct{}

func New() *Reader {
	return &Reader{}
}

func (r *Reader) Name() string { return "unitfile" }

func (r *Reader) Supports(relPath string) bool {
	return suffix(relPath) != ""
}

// SourcePath returns the path of the source a unit file describes.
func SourcePath(relPath string) string {
	return strings.TrimSuffix(relPath, suffix(relPath))
}

func suffix(relPath string) string {
	lower := strings.ToLower(relPath)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) && len(lower) > len(s) {
			return relPath[len(relPath)-len(s):]
		}
	}
	return ""
}

func (r *Reader) Parse(ctx context.Context, rootPath, relPath string) (*domain.CompilationUnit, error) {
	if !r.Supports(relPath) {
		return nil, fmt.Errorf("%s: %w", relPath, domain.ErrUnsupportedFile)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(rootPath, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(relPath, data)
}

// Decode parses unit file content. The format follows the file suffix.
func Decode(relPath string, data []byte) (*domain.CompilationUnit, error) {
	var f file
	var err error
	if strings.EqualFold(path.Ext(relPath), ".json") {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path.Base(relPath), err)
	}

	unit, err := f.unit()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", relPath, err)
	}
	if unit.Path == "" {
		unit.Path = SourcePath(relPath)
	}
	return unit, nil
}

type position struct {
	Line      int `json:"line" yaml:"line"`
	Column    int `json:"column,omitempty" yaml:"column,omitempty"`
	EndLine   int `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	EndColumn int `json:"end_column,omitempty" yaml:"end_column,omitempty"`
}

func (p position) span() domain.Span {
	return domain.Span{StartLine: p.Line, StartCol: p.Column, EndLine: p.EndLine, EndCol: p.EndColumn}
}

type file struct {
	Path         string        `json:"path" yaml:"path"`
	Language     string        `json:"language" yaml:"language"`
	Package      string        `json:"package" yaml:"package"`
	Imports      []importEntry `json:"imports" yaml:"imports"`
	Declarations []declaration `json:"declarations" yaml:"declarations"`
	Throws       []throwSite   `json:"throws" yaml:"throws"`
	Aliases      []alias       `json:"aliases" yaml:"aliases"`
}

type importEntry struct {
	Path     string `json:"path" yaml:"path"`
	position `yaml:",inline"`
}

type declaration struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       string   `json:"kind" yaml:"kind"`
	Abstract   bool     `json:"abstract" yaml:"abstract"`
	Extends    []string `json:"extends" yaml:"extends"`
	Implements []string `json:"implements" yaml:"implements"`
	With       []string `json:"with" yaml:"with"`
	Members    []member `json:"members" yaml:"members"`
	position   `yaml:",inline"`
}

type member struct {
	Name     string   `json:"name" yaml:"name"`
	Kind     string   `json:"kind" yaml:"kind"`
	Abstract bool     `json:"abstract" yaml:"abstract"`
	Static   bool     `json:"static" yaml:"static"`
	Private  bool     `json:"private" yaml:"private"`
	Mutable  bool     `json:"mutable" yaml:"mutable"`
	Type     *typeRef `json:"type" yaml:"type"`
	position `yaml:",inline"`
}

type throwSite struct {
	Type      string `json:"type" yaml:"type"`
	Enclosing string `json:"enclosing" yaml:"enclosing"`
	position  `yaml:",inline"`
}

type alias struct {
	Name     string   `json:"name" yaml:"name"`
	Params   []string `json:"params" yaml:"params"`
	Target   typeRef  `json:"target" yaml:"target"`
	position `yaml:",inline"`
}

var declKinds = map[string]domain.DeclKind{
	"":          domain.DeclClass,
	"class":     domain.DeclClass,
	"interface": domain.DeclInterface,
	"mixin":     domain.DeclMixin,
	"enum":      domain.DeclEnum,
	"function":  domain.DeclFunction,
}

var memberKinds = map[string]domain.MemberKind{
	"field":       domain.MemberField,
	"method":      domain.MemberMethod,
	"getter":      domain.MemberGetter,
	"setter":      domain.MemberSetter,
	"constructor": domain.MemberConstructor,
}

func (f *file) unit() (*domain.CompilationUnit, error) {
	u := &domain.CompilationUnit{
		Path:     f.Path,
		Language: f.Language,
		Package:  f.Package,
		Aliases:  domain.TypeAliasTable{},
	}

	for _, imp := range f.Imports {
		if imp.Path == "" {
			return nil, fmt.Errorf("import at line %d has no path", imp.Line)
		}
		u.Imports = append(u.Imports, domain.Import{Path: imp.Path, Span: imp.span()})
	}

	for _, d := range f.Declarations {
		kind, ok := declKinds[strings.ToLower(d.Kind)]
		if !ok {
			return nil, fmt.Errorf("declaration %s: unknown kind %q", d.Name, d.Kind)
		}
		decl := domain.Declaration{
			Name:       d.Name,
			Kind:       kind,
			Abstract:   d.Abstract || kind == domain.DeclInterface,
			Extends:    typeNames(d.Extends),
			Implements: typeNames(append(d.Implements, d.With...)),
			Span:       d.span(),
		}
		for _, m := range d.Members {
			mk, ok := memberKinds[strings.ToLower(m.Kind)]
			if !ok {
				return nil, fmt.Errorf("member %s.%s: unknown kind %q", d.Name, m.Name, m.Kind)
			}
			dm := domain.Member{
				Name:     m.Name,
				Kind:     mk,
				Abstract: m.Abstract,
				Static:   m.Static,
				Private:  m.Private,
				Mutable:  m.Mutable,
				Span:     m.span(),
			}
			if m.Type != nil {
				ref := m.Type.ref
				dm.Type = &ref
			}
			decl.Members = append(decl.Members, dm)
		}
		u.Declarations = append(u.Declarations, decl)
	}

	for _, t := range f.Throws {
		u.Throws = append(u.Throws, domain.ThrowSite{
			TypeName:  t.Type,
			Enclosing: t.Enclosing,
			Span:      t.span(),
		})
	}

	for _, a := range f.Aliases {
		u.Aliases[a.Name] = domain.TypeAlias{
			Name:   a.Name,
			Params: a.Params,
			Target: a.Target.ref,
			Span:   a.span(),
		}
	}
	return u, nil
}

// typeNames drops type arguments from supertype references.
func typeNames(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if name := domain.ParseTypeRef(r).Name; name != "" {
			out = append(out, name)
		}
	}
	return out
}

// typeRef accepts a type expression string or a structured object.
type typeRef struct {
	ref domain.TypeRef
}

type typeRefObject struct {
	Name     string    `json:"name" yaml:"name"`
	Args     []typeRef `json:"args" yaml:"args"`
	Nullable bool      `json:"nullable" yaml:"nullable"`
}

func (o typeRefObject) ref() domain.TypeRef {
	r := domain.TypeRef{Name: o.Name, Nullable: o.Nullable}
	for _, a := range o.Args {
		r.Args = append(r.Args, a.ref)
	}
	return r
}

func (t *typeRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.ref = domain.ParseTypeRef(s)
		return nil
	}
	var obj typeRefObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("type reference: %w", err)
	}
	t.ref = obj.ref()
	return nil
}

func (t *typeRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.ref = domain.ParseTypeRef(node.Value)
		return nil
	}
	var obj typeRefObject
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("type reference: %w", err)
	}
	t.ref = obj.ref()
	return nil
}
