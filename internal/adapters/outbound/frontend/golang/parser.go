// Package golang turns Go sources into compilation units using go/ast.
//
// Go has no classes, so the mapping is by convention:
//   - struct types are classes; exported fields are mutable, unexported
//     fields are private, embedded fields are extended types
//   - interface types are abstract declarations whose methods are members
//   - methods attach to their receiver's type when it is declared in the file
//   - `var _ I = (*T)(nil)` assertions record T implements I
//   - a trailing error result is reported as the type `error<results...>`,
//     so listing "error" in outcome_types makes outcome rules apply
//   - panics, and returned literals of *Error/*Exception types, are throw sites
//
// Imports under the module path of the project's go.mod are rewritten to
// project paths ("/internal/orders/domain"); everything else stays external.
package golang

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/layerlint/layerlint/internal/domain"
)

// Parser implements domain.FrontEnd for .go files.
type Parser struct {
	modules sync.Map // root -> module path
}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Name() string { return "go" }

func (p *Parser) Supports(relPath string) bool {
	return strings.EqualFold(filepath.Ext(relPath), ".go")
}

// Parse reads rootPath/relPath and extracts its compilation unit.
func (p *Parser) Parse(ctx context.Context, rootPath, relPath string) (*domain.CompilationUnit, error) {
	if !p.Supports(relPath) {
		return nil, fmt.Errorf("%s: %w", relPath, domain.ErrUnsupportedFile)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(rootPath, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseSource(relPath, content, p.modulePath(rootPath))
}

// modulePath returns the module declared by rootPath/go.mod, or "" when the
// root is not a module. Results are cached per root.
func (p *Parser) modulePath(rootPath string) string {
	if v, ok := p.modules.Load(rootPath); ok {
		return v.(string)
	}
	mod := ""
	if data, err := os.ReadFile(filepath.Join(rootPath, "go.mod")); err == nil {
		mod = ModulePath(data)
	}
	p.modules.Store(rootPath, mod)
	return mod
}

// ModulePath extracts the module path from go.mod content.
func ModulePath(gomod []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(gomod))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "module")
		if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		rest = strings.TrimSpace(rest)
		if i := strings.Index(rest, "//"); i >= 0 {
			rest = strings.TrimSpace(rest[:i])
		}
		if unq, err := strconv.Unquote(rest); err == nil {
			return unq
		}
		return rest
	}
	return ""
}

// ParseSource extracts the compilation unit of an in-memory source. Imports
// under modulePath become project paths; an empty modulePath keeps them all
// external.
func ParseSource(relPath string, content []byte, modulePath string) (*domain.CompilationUnit, error) {
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, relPath, content, goparser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relPath, err)
	}

	x := &extractor{
		fset:   fset,
		module: modulePath,
		decls:  make(map[string]int),
		unit: &domain.CompilationUnit{
			Path:     relPath,
			Language: "go",
			Package:  file.Name.Name,
		},
	}

	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		x.unit.Imports = append(x.unit.Imports, domain.Import{Path: x.importPath(path), Span: x.span(imp)})
	}

	// Types first so methods and assertions can find their declarations
	// regardless of where they appear in the file.
	var aliases []domain.TypeAlias
	for _, d := range file.Decls {
		if gd, ok := d.(*ast.GenDecl); ok && gd.Tok == token.TYPE {
			aliases = append(aliases, x.typeDecl(gd)...)
		}
	}
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			if d.Tok == token.VAR {
				x.assertions(d)
			}
		case *ast.FuncDecl:
			x.funcDecl(d)
		}
	}

	x.unit.Aliases = domain.NewTypeAliasTable(aliases...)
	return x.unit, nil
}

type extractor struct {
	fset   *token.FileSet
	module string
	unit   *domain.CompilationUnit
	decls  map[string]int // type name -> index in unit.Declarations
}

func (x *extractor) importPath(path string) string {
	if x.module == "" {
		return path
	}
	if path == x.module {
		return "/"
	}
	if rest, ok := strings.CutPrefix(path, x.module+"/"); ok {
		return "/" + rest
	}
	return path
}

func (x *extractor) typeDecl(gd *ast.GenDecl) []domain.TypeAlias {
	var aliases []domain.TypeAlias
	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if ts.Assign.IsValid() {
			aliases = append(aliases, domain.TypeAlias{
				Name:   ts.Name.Name,
				Params: typeParams(ts.TypeParams),
				Target: typeRef(ts.Type),
				Span:   x.span(ts),
			})
			continue
		}

		switch t := ts.Type.(type) {
		case *ast.StructType:
			decl := domain.Declaration{Name: ts.Name.Name, Kind: domain.DeclClass, Span: x.span(ts)}
			for _, f := range t.Fields.List {
				if len(f.Names) == 0 {
					decl.Extends = append(decl.Extends, typeRef(f.Type).Name)
					continue
				}
				ref := typeRef(f.Type)
				for _, n := range f.Names {
					exported := ast.IsExported(n.Name)
					decl.Members = append(decl.Members, domain.Member{
						Name:    n.Name,
						Kind:    domain.MemberField,
						Private: !exported,
						Mutable: exported,
						Type:    &ref,
						Span:    x.span(n),
					})
				}
			}
			x.add(decl)
		case *ast.InterfaceType:
			decl := domain.Declaration{Name: ts.Name.Name, Kind: domain.DeclInterface, Abstract: true, Span: x.span(ts)}
			for _, m := range t.Methods.List {
				ft, isFunc := m.Type.(*ast.FuncType)
				if len(m.Names) == 0 || !isFunc {
					// Embedded interface or type-set element.
					decl.Extends = append(decl.Extends, typeRef(m.Type).Name)
					continue
				}
				for _, n := range m.Names {
					decl.Members = append(decl.Members, domain.Member{
						Name:     n.Name,
						Kind:     domain.MemberMethod,
						Abstract: true,
						Type:     resultType(ft),
						Span:     x.span(n),
					})
				}
			}
			x.add(decl)
		}
	}
	return aliases
}

func (x *extractor) add(decl domain.Declaration) {
	x.decls[decl.Name] = len(x.unit.Declarations)
	x.unit.Declarations = append(x.unit.Declarations, decl)
}

func (x *extractor) lookup(name string) *domain.Declaration {
	i, ok := x.decls[name]
	if !ok {
		return nil
	}
	return &x.unit.Declarations[i]
}

// assertions records `var _ I = (*T)(nil)` and `var _ I = T{}` as T
// implementing I.
func (x *extractor) assertions(gd *ast.GenDecl) {
	for _, spec := range gd.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok || vs.Type == nil || len(vs.Names) != 1 || vs.Names[0].Name != "_" || len(vs.Values) != 1 {
			continue
		}
		decl := x.lookup(assertedType(vs.Values[0]))
		if decl == nil {
			continue
		}
		decl.Implements = append(decl.Implements, typeRef(vs.Type).Name)
	}
}

func assertedType(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.CallExpr:
		// (*T)(nil)
		if _, ok := e.Fun.(*ast.ParenExpr); ok && len(e.Args) == 1 {
			return baseIdent(e.Fun)
		}
	case *ast.CompositeLit:
		return baseIdent(e.Type)
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return assertedType(e.X)
		}
	}
	return ""
}

func baseIdent(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.ParenExpr:
		return baseIdent(e.X)
	case *ast.StarExpr:
		return baseIdent(e.X)
	case *ast.IndexExpr:
		return baseIdent(e.X)
	case *ast.IndexListExpr:
		return baseIdent(e.X)
	}
	return ""
}

func (x *extractor) funcDecl(fd *ast.FuncDecl) {
	enclosing := fd.Name.Name
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		recv := baseIdent(fd.Recv.List[0].Type)
		enclosing = recv + "." + fd.Name.Name
		if decl := x.lookup(recv); decl != nil {
			decl.Members = append(decl.Members, domain.Member{
				Name:    fd.Name.Name,
				Kind:    domain.MemberMethod,
				Private: !ast.IsExported(fd.Name.Name),
				Type:    resultType(fd.Type),
				Span:    x.span(fd),
			})
		}
	}
	if fd.Body == nil {
		return
	}

	ast.Inspect(fd.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpr:
			if id, ok := n.Fun.(*ast.Ident); ok && id.Name == "panic" && len(n.Args) == 1 {
				if name := constructedType(n.Args[0]); name != "" {
					x.throw(name, enclosing, n)
				}
			}
		case *ast.ReturnStmt:
			for _, r := range n.Results {
				if name := constructedType(r); isErrorTypeName(name) {
					x.throw(name, enclosing, r)
				}
			}
		}
		return true
	})
}

func (x *extractor) throw(name, enclosing string, n ast.Node) {
	x.unit.Throws = append(x.unit.Throws, domain.ThrowSite{
		TypeName:  name,
		Enclosing: enclosing,
		Span:      x.span(n),
	})
}

// constructedType names the type built by T{...}, &T{...} or NewT(...).
func constructedType(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return constructedType(e.X)
		}
	case *ast.CompositeLit:
		if e.Type != nil {
			return typeRef(e.Type).BaseName()
		}
	case *ast.CallExpr:
		var fn string
		switch f := e.Fun.(type) {
		case *ast.Ident:
			fn = f.Name
		case *ast.SelectorExpr:
			fn = f.Sel.Name
		}
		if name, ok := strings.CutPrefix(fn, "New"); ok && ast.IsExported(name) {
			return name
		}
	}
	return ""
}

func isErrorTypeName(name string) bool {
	return name != "" && (strings.HasSuffix(name, "Error") || strings.HasSuffix(name, "Exception"))
}

// resultType maps a signature's results to a single type reference. A
// trailing error folds the other results into its arguments.
func resultType(ft *ast.FuncType) *domain.TypeRef {
	if ft.Results == nil {
		return nil
	}
	var refs []domain.TypeRef
	for _, f := range ft.Results.List {
		ref := typeRef(f.Type)
		n := max(len(f.Names), 1)
		for range n {
			refs = append(refs, ref)
		}
	}
	switch {
	case len(refs) == 0:
		return nil
	case len(refs) == 1:
		return &refs[0]
	case refs[len(refs)-1].Name == "error":
		return &domain.TypeRef{Name: "error", Args: refs[:len(refs)-1]}
	}
	return &domain.TypeRef{Name: "tuple", Args: refs}
}

func typeRef(expr ast.Expr) domain.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		return domain.TypeRef{Name: t.Name}
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			return domain.TypeRef{Name: pkg.Name + "." + t.Sel.Name}
		}
	case *ast.ParenExpr:
		return typeRef(t.X)
	case *ast.StarExpr:
		ref := typeRef(t.X)
		ref.Nullable = true
		return ref
	case *ast.ArrayType:
		return domain.TypeRef{Name: "Array", Args: []domain.TypeRef{typeRef(t.Elt)}}
	case *ast.MapType:
		return domain.TypeRef{Name: "Map", Args: []domain.TypeRef{typeRef(t.Key), typeRef(t.Value)}}
	case *ast.ChanType:
		return domain.TypeRef{Name: "chan", Args: []domain.TypeRef{typeRef(t.Value)}}
	case *ast.IndexExpr:
		ref := typeRef(t.X)
		ref.Args = []domain.TypeRef{typeRef(t.Index)}
		return ref
	case *ast.IndexListExpr:
		ref := typeRef(t.X)
		for _, idx := range t.Indices {
			ref.Args = append(ref.Args, typeRef(idx))
		}
		return ref
	case *ast.FuncType:
		return domain.TypeRef{Name: "func"}
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return domain.TypeRef{Name: "any"}
		}
	}
	return domain.TypeRef{Name: types.ExprString(expr)}
}

func typeParams(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}
	var out []string
	for _, f := range fl.List {
		for _, n := range f.Names {
			out = append(out, n.Name)
		}
	}
	return out
}

func (x *extractor) span(n ast.Node) domain.Span {
	start := x.fset.Position(n.Pos())
	end := x.fset.Position(n.End())
	return domain.Span{
		StartLine: start.Line,
		StartCol:  start.Column,
		EndLine:   end.Line,
		EndCol:    end.Column,
	}
}
