package parser

import (
	"strconv"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/text"
)

// parseArgs parses a function-signature/struct-field argument list.
// Consecutive names sharing one trailing `: Type` or `= default` all get
// that type/default: `x, y: Int` yields two Args with the same type.
func (p *parser) parseArgs(pos int) ([]ast.Arg, int) {
	var args []ast.Arg
	for {
		batchStart := pos
		var defaultVal ast.Node
		var argType ast.TypeNode
		var names []string
		for {
			pos = p.whitespace(pos)
			name, next, ok := p.getID(pos)
			if !ok {
				break
			}
			pos = p.whitespace(next)

			if afterColon, ok := p.match(pos, ":"); ok {
				argType, pos = p.parseType(p.spaces(afterColon))
				if argType == nil {
					p.bail(afterColon-1, pos, "I expected a type here")
				}
				names = append(names, name)
				pos = p.whitespace(pos)
				if afterEq, ok := p.match(pos, "="); ok {
					defaultVal, pos = p.parseTerm(p.spaces(afterEq))
					if defaultVal == nil {
						p.bail(afterEq-1, pos, "I expected a value after this '='")
					}
				}
				break
			}
			if afterEq, ok := p.match(pos, "="); ok && p.byteAt(afterEq) != '=' {
				defaultVal, pos = p.parseTerm(p.spaces(afterEq))
				if defaultVal == nil {
					p.bail(afterEq-1, pos, "I expected a value after this '='")
				}
				names = append(names, name)
				break
			}
			names = append(names, name)
			pos = p.spaces(pos)
			var ok2 bool
			pos, ok2 = p.match(pos, ",")
			if !ok2 {
				break
			}
		}
		if len(names) == 0 {
			break
		}
		if defaultVal == nil && argType == nil {
			p.bail(batchStart, pos, "I expected a ':' and type, or '=' and a default value after this parameter (%s)", names[len(names)-1])
		}
		for _, name := range names {
			args = append(args, ast.Arg{Name: name, Type: argType, Default: defaultVal})
		}
		var ok bool
		pos, ok = p.matchSeparator(pos)
		if !ok {
			break
		}
	}
	return args, pos
}

// parseNamespaceBody parses the indented body of a type definition.
func (p *parser) parseNamespaceBody(pos int) (ast.Node, int) {
	start := pos
	pos = p.whitespace(pos)
	indentLevel := p.getIndent(pos)
	var statements []ast.Node
	for {
		next := p.whitespace(pos)
		if p.getIndent(next) != indentLevel {
			break
		}
		stmt, afterStmt := p.parseNamespaceStatement(next)
		if stmt == nil {
			if p.getIndent(next) > indentLevel && next < p.eol(next) {
				p.bail(next, p.eol(next), "I couldn't parse this namespace declaration")
			}
			break
		}
		statements = append(statements, stmt)
		pos = p.whitespace(afterStmt)
	}
	return &ast.Block{Span: p.span(start, pos), Statements: statements}, pos
}

func (p *parser) parseNamespaceStatement(pos int) (ast.Node, int) {
	if n, next := p.parseStructDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseFuncDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseEnumDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseLangDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseExtendDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseConvertDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseUse(pos); n != nil {
		return n, next
	}
	if n, next := p.parseExtern(pos); n != nil {
		return n, next
	}
	if n, next := p.parseInlineC(pos); n != nil {
		return n, next
	}
	if n, next := p.parseDeclaration(pos); n != nil {
		return n, next
	}
	return nil, pos
}

// parseOptionalNamespace parses the `: body` namespace of a type
// definition when the following text is indented deeper than the
// definition itself.
func (p *parser) parseOptionalNamespace(pos, startingIndent int) (ast.Node, int) {
	nsPos := p.whitespace(pos)
	if p.getIndent(nsPos) > startingIndent {
		ns, after := p.parseNamespaceBody(nsPos)
		if ns != nil {
			return ns, after
		}
	}
	return &ast.Block{Span: p.span(pos, pos)}, pos
}

func (p *parser) parseStructDef(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "struct")
	if !ok {
		return nil, start
	}
	startingIndent := p.getIndent(pos)
	pos = p.spaces(pos)
	name, pos, ok := p.getID(pos)
	if !ok {
		p.bail(start, pos, "I expected a name for this struct")
	}
	pos = p.spaces(pos)
	pos, ok = p.match(pos, "(")
	if !ok {
		p.bail(pos, pos, "I expected a '(' and a list of fields here")
	}
	fields, pos := p.parseArgs(pos)

	pos = p.whitespace(pos)
	var secret, external, opaque bool
	if next, ok := p.match(pos, ";"); ok {
		pos = p.whitespace(next)
		for {
			if next, ok := p.matchWord(pos, "secret"); ok {
				secret, pos = true, next
			} else if next, ok := p.matchWord(pos, "extern"); ok {
				external, pos = true, next
			} else if next, ok := p.matchWord(pos, "opaque"); ok {
				if len(fields) > 0 {
					p.bail(next-len("opaque"), next, "A struct can't be opaque if it has fields defined")
				}
				opaque, pos = true, next
			} else {
				break
			}
			pos, ok = p.matchSeparator(pos)
			if !ok {
				break
			}
		}
	}
	pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this struct")

	namespace, pos := p.parseOptionalNamespace(pos, startingIndent)
	return &ast.StructDef{
		Span: p.span(start, pos), Name: name, Fields: fields, Namespace: namespace,
		Secret: secret, External: external, Opaque: opaque,
	}, pos
}

func (p *parser) parseEnumDef(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "enum")
	if !ok {
		return nil, start
	}
	startingIndent := p.getIndent(pos)
	pos = p.spaces(pos)
	name, pos, ok := p.getID(pos)
	if !ok {
		p.bail(start, pos, "I expected a name for this enum")
	}
	pos = p.spaces(pos)
	pos, ok = p.match(pos, "(")
	if !ok {
		return nil, start
	}

	var tags []ast.EnumTag
	pos = p.whitespace(pos)
	for {
		pos = p.spaces(pos)
		tagName, next, ok := p.getID(pos)
		if !ok {
			break
		}
		pos = p.spaces(next)

		var fields []ast.Arg
		secret := false
		if afterParen, ok := p.match(pos, "("); ok {
			fields, pos = p.parseArgs(p.whitespace(afterParen))
			pos = p.whitespace(pos)
			if afterSemi, ok := p.match(pos, ";"); ok {
				pos = p.whitespace(afterSemi)
				if next, ok := p.matchWord(pos, "secret"); ok {
					secret, pos = true, next
				}
				pos = p.whitespace(pos)
			}
			pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this tagged union member")
		}

		var value int64
		if afterEq, ok := p.match(p.spaces(pos), "="); ok {
			intLit, afterInt := p.parseIntLiteral(p.spaces(afterEq))
			i, isInt := intLit.(*ast.Int)
			if !isInt {
				p.bail(pos, afterInt, "I expected an integer value for this tag")
			}
			value, _ = strconv.ParseInt(i.Digits, 0, 64)
			pos = afterInt
		}

		tags = append(tags, ast.EnumTag{Name: tagName, Fields: fields, Secret: secret, Value: value})
		pos, ok = p.matchSeparator(pos)
		if !ok {
			break
		}
	}

	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this enum definition")

	if len(tags) == 0 {
		p.bail(start, pos, "This enum does not have any tags!")
	}

	namespace, pos := p.parseOptionalNamespace(pos, startingIndent)
	return &ast.EnumDef{Span: p.span(start, pos), Name: name, Tags: tags, Namespace: namespace}, pos
}

func (p *parser) parseLangDef(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "lang")
	if !ok {
		return nil, start
	}
	startingIndent := p.getIndent(pos)
	pos = p.spaces(pos)
	name, pos, ok := p.getID(pos)
	if !ok {
		p.bail(start, pos, "I expected a name for this lang")
	}
	pos = p.spaces(pos)
	namespace, pos := p.parseOptionalNamespace(pos, startingIndent)
	return &ast.LangDef{Span: p.span(start, pos), Name: name, Namespace: namespace}, pos
}

func (p *parser) parseExtendDef(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "extend")
	if !ok {
		return nil, start
	}
	startingIndent := p.getIndent(pos)
	pos = p.spaces(pos)
	name, pos, ok := p.getID(pos)
	if !ok {
		p.bail(start, pos, "I expected a name for this extend")
	}
	body, pos := p.parseOptionalNamespace(pos, startingIndent)
	return &ast.Extend{Span: p.span(start, pos), Name: name, Body: body}, pos
}

// parseFuncSpecials parses the `; inline, cached, cache_size=n` flag
// list shared by func and convert definitions.
func (p *parser) parseFuncSpecials(start, pos int) (bool, ast.Node, int) {
	isInline := false
	var cache ast.Node
	pos = p.whitespace(pos)
	next, specials := p.match(pos, ";")
	for specials {
		pos = next
		flagStart := p.spaces(pos)
		if afterFlag, ok := p.matchWord(flagStart, "inline"); ok {
			isInline = true
			pos = afterFlag
		} else if afterFlag, ok := p.matchWord(flagStart, "cached"); ok {
			if cache == nil {
				cache = &ast.Int{Span: p.span(afterFlag, afterFlag), Digits: "-1"}
			}
			pos = afterFlag
		} else if afterFlag, ok := p.matchWord(flagStart, "cache_size"); ok {
			afterFlag = p.whitespace(afterFlag)
			afterEq, ok := p.match(afterFlag, "=")
			if !ok {
				p.bail(flagStart, afterFlag, "I expected a value for 'cache_size'")
			}
			cache, pos = p.parseExpr(p.whitespace(afterEq))
			if cache == nil {
				p.bail(start, afterEq, "I expected a maximum size for the cache")
			}
		} else {
			break
		}
		next, specials = p.matchSeparator(pos)
	}
	return isInline, cache, pos
}

func (p *parser) parseFuncDef(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "func")
	if !ok {
		return nil, start
	}
	name, pos := p.parseVar(p.spaces(pos))
	if name == nil {
		return nil, start
	}
	pos = p.spaces(pos)
	pos = p.expectStr(start, pos, "(", "I expected a parenthesis for this function's arguments")
	args, pos := p.parseArgs(pos)
	pos = p.spaces(pos)
	var retType ast.TypeNode
	if next, ok := p.match(pos, "->"); ok {
		retType, pos = p.parseType(p.spaces(next))
	}
	isInline, cache, pos := p.parseFuncSpecials(start, pos)
	pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this function definition")

	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "This function needs a body block")
	}
	return &ast.FunctionDef{
		Span: p.span(start, pos), Name: name, Args: args, RetType: retType,
		Body: body, Cache: cache, Inline: isInline,
	}, pos
}

func (p *parser) parseConvertDef(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "convert")
	if !ok {
		return nil, start
	}
	pos = p.spaces(pos)
	pos, ok = p.match(pos, "(")
	if !ok {
		return nil, start
	}
	args, pos := p.parseArgs(pos)
	pos = p.spaces(pos)
	var retType ast.TypeNode
	if next, ok := p.match(pos, "->"); ok {
		retType, pos = p.parseType(p.spaces(next))
	}
	isInline, cache, pos := p.parseFuncSpecials(start, pos)
	pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this convert definition")

	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "This convert needs a body block")
	}
	return &ast.ConvertDef{
		Span: p.span(start, pos), Args: args, RetType: retType,
		Body: body, Cache: cache, Inline: isInline,
	}, pos
}

func (p *parser) parseExtern(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "extern")
	if !ok {
		return nil, start
	}
	name, pos, _ := p.getID(p.spaces(pos))
	pos = p.spaces(pos)
	pos, ok = p.match(pos, ":")
	if !ok {
		p.bail(start, pos, "I couldn't get a type for this extern")
	}
	t, pos := p.parseType(p.spaces(pos))
	if t == nil {
		p.bail(start, pos, "I couldn't parse the type for this extern")
	}
	return &ast.Extern{Span: p.span(start, pos), Name: name, Type: t}, pos
}

// parseInlineC parses `C_code [: Type] { ... }` (or parenthesized when
// typed), with '@' interpolation inside the C text.
func (p *parser) parseInlineC(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "C_code")
	if !ok {
		return nil, start
	}
	pos = p.spaces(pos)
	var cType ast.TypeNode
	var chunks []ast.Node
	if afterColon, ok := p.match(pos, ":"); ok {
		cType, pos = p.parseType(p.spaces(afterColon))
		if cType == nil {
			p.bail(start, pos, "I couldn't parse the type for this C_code code")
		}
		pos = p.spaces(pos)
		pos, ok = p.match(pos, "(")
		if !ok {
			p.bail(start, pos, "I expected a '(' here")
		}
		open := &ast.TextLiteral{Span: p.span(pos, pos), Value: text.FromString("({")}
		body, afterBody := p.parseTextChunks(pos, '(', ')', '@', false)
		pos = afterBody
		closeLit := &ast.TextLiteral{Span: p.span(pos, pos), Value: text.FromString("; })")}
		chunks = append([]ast.Node{open}, body...)
		chunks = append(chunks, closeLit)
	} else {
		pos, ok = p.match(pos, "{")
		if !ok {
			p.bail(start, pos, "I expected a '{' here")
		}
		chunks, pos = p.parseTextChunks(pos, '{', '}', '@', false)
	}
	return &ast.InlineCCode{Span: p.span(start, pos), Chunks: chunks, Type: cType}, pos
}

// parseUse parses `use path` or `var := use path`.
func (p *parser) parseUse(pos int) (ast.Node, int) {
	start := pos
	v, afterVar := p.parseVar(pos)
	if v != nil {
		next := p.spaces(afterVar)
		next, ok := p.match(next, ":=")
		if !ok {
			v = nil
		} else {
			pos = p.spaces(next)
		}
	}

	pos, ok := p.matchWord(pos, "use")
	if !ok {
		return nil, start
	}
	pos = p.spaces(pos)
	nameEnd := p.someNot(pos, " \t\r\n;")
	if nameEnd == pos {
		p.bail(start, pos, "There is no module name here to use")
	}
	name := p.text[pos:nameEnd]
	pos = nameEnd
	for {
		next, ok := p.match(pos, ";")
		if !ok {
			break
		}
		pos = next
	}
	what := ast.ClassifyUsePath(name)
	return &ast.Use{Span: p.span(start, pos), Var: v, Path: name, What: what}, pos
}

// parseTopDeclaration marks a declaration as file-scope.
func (p *parser) parseTopDeclaration(pos int) (ast.Node, int) {
	decl, next := p.parseDeclaration(pos)
	if decl != nil {
		decl.(*ast.Declare).TopLevel = true
	}
	return decl, next
}

// parseFileBody parses the top level of a file: only declarations of
// some kind are permitted.
func (p *parser) parseFileBody(pos int) (*ast.Block, int) {
	start := pos
	pos = p.whitespace(pos)
	var statements []ast.Node
	for {
		next := p.whitespace(pos)
		if p.getIndent(next) != 0 {
			break
		}
		stmt, afterStmt := p.parseTopStatement(next)
		if stmt == nil {
			break
		}
		statements = append(statements, stmt)
		pos = p.whitespace(afterStmt)
	}
	pos = p.whitespace(pos)
	if pos < len(p.text) {
		p.bail(pos, p.eol(pos), "I expect all top-level statements to be declarations of some kind")
	}
	return &ast.Block{Span: p.span(start, pos), Statements: statements}, pos
}

func (p *parser) parseTopStatement(pos int) (ast.Node, int) {
	if n, next := p.parseStructDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseFuncDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseEnumDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseLangDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseExtendDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseConvertDef(pos); n != nil {
		return n, next
	}
	if n, next := p.parseUse(pos); n != nil {
		return n, next
	}
	if n, next := p.parseExtern(pos); n != nil {
		return n, next
	}
	if n, next := p.parseInlineC(pos); n != nil {
		return n, next
	}
	if n, next := p.parseTopDeclaration(pos); n != nil {
		return n, next
	}
	return nil, pos
}
