package domain

import "strings"

// ParseTypeRef parses a type expression such as
// "Future<Either<Failure, List<Todo>>>?" into a TypeRef.
//
// Generic arguments use <> (TypeScript/Dart/Java), array suffixes "T[]" become
// Array<T>, and unions become a TypeRef named "|" whose arguments are the
// members. Anything the parser does not understand collapses into a single
// name holding the trimmed text, so callers never see an error.
func ParseTypeRef(expr string) TypeRef {
	p := &typeParser{src: strings.TrimSpace(expr)}
	ref, ok := p.parseUnion()
	p.skipSpace()
	if !ok || p.pos != len(p.src) {
		return TypeRef{Name: p.src}
	}
	return ref
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) parseUnion() (TypeRef, bool) {
	// Leading "|" is legal in TypeScript multi-line unions.
	if p.peek() == '|' {
		p.pos++
	}
	first, ok := p.parseType()
	if !ok {
		return TypeRef{}, false
	}
	if p.peek() != '|' {
		return first, true
	}
	union := TypeRef{Name: "|", Args: []TypeRef{first}}
	for p.peek() == '|' {
		p.pos++
		next, ok := p.parseType()
		if !ok {
			return TypeRef{}, false
		}
		union.Args = append(union.Args, next)
	}
	return union, true
}

func (p *typeParser) parseType() (TypeRef, bool) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isTypeNameByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return TypeRef{}, false
	}
	ref := TypeRef{Name: p.src[start:p.pos]}

	if p.peek() == '<' {
		p.pos++
		for {
			arg, ok := p.parseUnion()
			if !ok {
				return TypeRef{}, false
			}
			ref.Args = append(ref.Args, arg)
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return TypeRef{}, false
			}
			break
		}
	}

	for {
		switch {
		case p.peek() == '?':
			p.pos++
			ref.Nullable = true
			continue
		case strings.HasPrefix(p.src[p.pos:], "[]"):
			p.pos += 2
			ref = TypeRef{Name: "Array", Args: []TypeRef{ref}}
			continue
		}
		break
	}
	return ref, true
}

func isTypeNameByte(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
