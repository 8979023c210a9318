// Package ts turns TypeScript sources into compilation units using tree-sitter.
package ts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/layerlint/layerlint/internal/domain"
)

// Parser implements domain.FrontEnd for .ts, .tsx, .mts and .cts files.
// Declaration files (.d.ts) are not analyzed.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Name() string { return "typescript" }

func (p *Parser) Supports(relPath string) bool {
	lower := strings.ToLower(relPath)
	if strings.HasSuffix(lower, ".d.ts") {
		return false
	}
	switch filepath.Ext(lower) {
	case ".ts", ".tsx", ".mts", ".cts":
		return true
	}
	return false
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
	return p.ParseSource(ctx, relPath, content)
}

// ParseSource extracts the compilation unit of an in-memory source.
func (p *Parser) ParseSource(ctx context.Context, relPath string, content []byte) (*domain.CompilationUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(language(relPath))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x := &extractor{
		source: content,
		unit: &domain.CompilationUnit{
			Path:     relPath,
			Language: "typescript",
			Aliases:  domain.TypeAliasTable{},
		},
	}
	x.walk(tree.RootNode(), "")
	return x.unit, nil
}

func language(relPath string) *sitter.Language {
	if strings.EqualFold(filepath.Ext(relPath), ".tsx") {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

type extractor struct {
	source []byte
	unit   *domain.CompilationUnit
}

// walk visits every node once. enclosing names the innermost class, method
// or function and labels throw sites.
func (x *extractor) walk(node *sitter.Node, enclosing string) {
	switch node.Type() {
	case "import_statement", "export_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			x.addImport(src, node)
		}

	case "call_expression":
		// require('x') and import('x')
		fn := node.ChildByFieldName("function")
		args := node.ChildByFieldName("arguments")
		if fn != nil && args != nil && (fn.Type() == "import" || x.text(fn) == "require") {
			if s := firstNamedOfType(args, "string"); s != nil {
				x.addImport(s, node)
			}
		}

	case "class_declaration", "abstract_class_declaration":
		if decl := x.class(node); decl != nil {
			x.unit.Declarations = append(x.unit.Declarations, *decl)
			enclosing = decl.Name
		}

	case "interface_declaration":
		if decl := x.iface(node); decl != nil {
			x.unit.Declarations = append(x.unit.Declarations, *decl)
		}
		return

	case "enum_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			x.unit.Declarations = append(x.unit.Declarations, domain.Declaration{
				Name: x.text(name),
				Kind: domain.DeclEnum,
				Span: span(node),
			})
		}
		return

	case "type_alias_declaration":
		x.alias(node)
		return

	case "method_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			enclosing = qualify(enclosing, x.text(name))
		}

	case "function_declaration", "generator_function_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			enclosing = x.text(name)
		}

	case "throw_statement":
		x.throw(node, enclosing)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		x.walk(node.NamedChild(i), enclosing)
	}
}

func (x *extractor) addImport(src, stmt *sitter.Node) {
	path := strings.Trim(x.text(src), "'\"`")
	if path == "" {
		return
	}
	x.unit.Imports = append(x.unit.Imports, domain.Import{Path: path, Span: span(stmt)})
}

func (x *extractor) class(node *sitter.Node) *domain.Declaration {
	name := node.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	decl := &domain.Declaration{
		Name:     x.text(name),
		Kind:     domain.DeclClass,
		Abstract: node.Type() == "abstract_class_declaration",
		Span:     span(node),
	}

	if heritage := firstNamedOfType(node, "class_heritage"); heritage != nil {
		for i := 0; i < int(heritage.NamedChildCount()); i++ {
			clause := heritage.NamedChild(i)
			switch clause.Type() {
			case "extends_clause":
				decl.Extends = append(decl.Extends, x.typeNames(clause)...)
			case "implements_clause":
				decl.Implements = append(decl.Implements, x.typeNames(clause)...)
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			decl.Members = append(decl.Members, x.classMember(body.NamedChild(i))...)
		}
	}
	return decl
}

func (x *extractor) iface(node *sitter.Node) *domain.Declaration {
	name := node.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	decl := &domain.Declaration{
		Name:     x.text(name),
		Kind:     domain.DeclInterface,
		Abstract: true,
		Span:     span(node),
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "extends_type_clause" || child.Type() == "extends_clause" {
			decl.Extends = append(decl.Extends, x.typeNames(child)...)
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			switch child.Type() {
			case "property_signature":
				if m, ok := x.field(child); ok {
					decl.Members = append(decl.Members, m)
				}
			case "method_signature":
				if m, ok := x.method(child); ok {
					m.Abstract = true
					decl.Members = append(decl.Members, m)
				}
			}
		}
	}
	return decl
}

func (x *extractor) classMember(node *sitter.Node) []domain.Member {
	switch node.Type() {
	case "public_field_definition", "property_signature":
		if m, ok := x.field(node); ok {
			return []domain.Member{m}
		}
	case "method_definition":
		m, ok := x.method(node)
		if !ok {
			return nil
		}
		if m.Kind == domain.MemberConstructor {
			return append([]domain.Member{m}, x.parameterProperties(node)...)
		}
		return []domain.Member{m}
	case "abstract_method_signature", "method_signature":
		if m, ok := x.method(node); ok {
			m.Abstract = node.Type() == "abstract_method_signature" || m.Abstract
			return []domain.Member{m}
		}
	}
	return nil
}

func (x *extractor) field(node *sitter.Node) (domain.Member, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return domain.Member{}, false
	}
	m := domain.Member{
		Name:    x.text(name),
		Kind:    domain.MemberField,
		Static:  hasToken(node, "static"),
		Private: x.private(node, name),
		Mutable: !hasToken(node, "readonly"),
		Span:    span(node),
	}
	m.Type = x.typeAnnotation(node.ChildByFieldName("type"))
	return m, true
}

func (x *extractor) method(node *sitter.Node) (domain.Member, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return domain.Member{}, false
	}
	m := domain.Member{
		Name:    x.text(name),
		Kind:    domain.MemberMethod,
		Static:  hasToken(node, "static"),
		Private: x.private(node, name),
		Span:    span(node),
	}
	switch {
	case m.Name == "constructor":
		m.Kind = domain.MemberConstructor
	case hasToken(node, "get"):
		m.Kind = domain.MemberGetter
	case hasToken(node, "set"):
		m.Kind = domain.MemberSetter
	}
	m.Type = x.typeAnnotation(node.ChildByFieldName("return_type"))
	return m, true
}

// parameterProperties returns the fields declared through constructor
// parameters such as `private readonly repo: TodoRepository`.
func (x *extractor) parameterProperties(ctor *sitter.Node) []domain.Member {
	params := ctor.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []domain.Member
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		if param.Type() != "required_parameter" && param.Type() != "optional_parameter" {
			continue
		}
		modifier := firstNamedOfType(param, "accessibility_modifier")
		readonly := hasToken(param, "readonly")
		if modifier == nil && !readonly {
			continue
		}
		pattern := param.ChildByFieldName("pattern")
		if pattern == nil {
			pattern = firstNamedOfType(param, "identifier")
		}
		if pattern == nil {
			continue
		}
		out = append(out, domain.Member{
			Name:    x.text(pattern),
			Kind:    domain.MemberField,
			Private: modifier != nil && x.text(modifier) == "private",
			Mutable: !readonly,
			Type:    x.typeAnnotation(param.ChildByFieldName("type")),
			Span:    span(param),
		})
	}
	return out
}

func (x *extractor) private(node, name *sitter.Node) bool {
	if strings.HasPrefix(x.text(name), "#") || name.Type() == "private_property_identifier" {
		return true
	}
	if mod := firstNamedOfType(node, "accessibility_modifier"); mod != nil {
		return x.text(mod) == "private"
	}
	return false
}

func (x *extractor) alias(node *sitter.Node) {
	name := node.ChildByFieldName("name")
	value := node.ChildByFieldName("value")
	if name == nil || value == nil {
		return
	}
	a := domain.TypeAlias{
		Name:   x.text(name),
		Target: domain.ParseTypeRef(x.text(value)),
		Span:   span(node),
	}
	if params := node.ChildByFieldName("type_parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			param := params.NamedChild(i)
			if n := param.ChildByFieldName("name"); n != nil {
				a.Params = append(a.Params, x.text(n))
			}
		}
	}
	x.unit.Aliases[a.Name] = a
}

func (x *extractor) throw(node *sitter.Node, enclosing string) {
	expr := firstNamedOfType(node, "new_expression")
	if expr == nil {
		return
	}
	ctor := expr.ChildByFieldName("constructor")
	if ctor == nil {
		return
	}
	x.unit.Throws = append(x.unit.Throws, domain.ThrowSite{
		TypeName:  stripTypeArgs(x.text(ctor)),
		Enclosing: enclosing,
		Span:      span(node),
	})
}

// typeNames lists the supertypes of an extends/implements clause without
// their type arguments.
func (x *extractor) typeNames(clause *sitter.Node) []string {
	var names []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "type_arguments", "comment":
			continue
		case "generic_type":
			if n := child.ChildByFieldName("name"); n != nil {
				child = n
			}
		}
		if name := stripTypeArgs(x.text(child)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (x *extractor) typeAnnotation(node *sitter.Node) *domain.TypeRef {
	if node == nil {
		return nil
	}
	expr := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(x.text(node)), ":"))
	if expr == "" {
		return nil
	}
	ref := domain.ParseTypeRef(expr)
	return &ref
}

func (x *extractor) text(node *sitter.Node) string {
	return node.Content(x.source)
}

func qualify(outer, inner string) string {
	if outer == "" {
		return inner
	}
	return outer + "." + inner
}

func stripTypeArgs(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func hasToken(node *sitter.Node, token string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

func firstNamedOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == typ {
			return child
		}
	}
	return nil
}

func span(node *sitter.Node) domain.Span {
	start, end := node.StartPoint(), node.EndPoint()
	return domain.Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
	}
}
