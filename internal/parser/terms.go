package parser

import (
	"github.com/tomo-lang/tomoc/internal/ast"
)

func (p *parser) parseVar(pos int) (*ast.Var, int) {
	start := pos
	name, pos, ok := p.getID(pos)
	if !ok {
		return nil, start
	}
	return &ast.Var{Span: p.span(start, pos), Name: name}, pos
}

// parseParens handles parenthesized expressions (which may carry
// comprehension suffixes). The resulting node's span is widened to
// include the parentheses.
func (p *parser) parseParens(pos int) (ast.Node, int) {
	start := pos
	pos = p.spaces(pos)
	pos, ok := p.match(pos, "(")
	if !ok {
		return nil, start
	}
	pos = p.whitespace(pos)
	expr, pos := p.parseExtendedExpr(pos)
	if expr == nil {
		return nil, start
	}
	for {
		comp, next := p.parseComprehensionSuffix(expr)
		if comp == nil {
			break
		}
		expr, pos = comp, next
	}
	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this expression")
	return widenSpan(expr, p.span(start, pos)), pos
}

// widenSpan rebuilds a node's span to cover surrounding delimiters.
func widenSpan(node ast.Node, span ast.Span) ast.Node {
	switch n := node.(type) {
	case *ast.BinaryOp:
		cp := *n
		cp.Span = span
		return &cp
	case *ast.Min:
		cp := *n
		cp.Span = span
		return &cp
	case *ast.Max:
		cp := *n
		cp.Span = span
		return &cp
	default:
		return node
	}
}

func (p *parser) parseArray(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.match(pos, "[")
	if !ok {
		return nil, start
	}
	pos = p.whitespace(pos)

	var items []ast.Node
	for {
		item, next := p.parseExtendedExpr(p.spaces(pos))
		if item == nil {
			break
		}
		pos = next
		for {
			comp, afterComp := p.parseComprehensionSuffix(item)
			if comp == nil {
				break
			}
			item, pos = comp, afterComp
		}
		items = append(items, item)
		pos, ok = p.matchSeparator(pos)
		if !ok {
			break
		}
	}
	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, "]", "I wasn't able to parse the rest of this array")
	return &ast.Array{Span: p.span(start, pos), Items: items}, pos
}

func (p *parser) parseTable(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.match(pos, "{")
	if !ok {
		return nil, start
	}
	pos = p.whitespace(pos)

	var entries []ast.Node
	for {
		entryStart := p.spaces(pos)
		key, next := p.parseExtendedExpr(entryStart)
		if key == nil {
			break
		}
		next = p.whitespace(next)
		next, ok = p.match(next, "=")
		if !ok {
			return nil, start
		}
		value, next := p.parseExpr(p.spaces(next))
		if value == nil {
			p.bail(entryStart, next, "I couldn't parse the value for this table entry")
		}
		var entry ast.Node = &ast.TableEntry{Span: p.span(entryStart, next), Key: key, Value: value}
		pos = next
		for {
			comp, afterComp := p.parseComprehensionSuffix(entry)
			if comp == nil {
				break
			}
			entry, pos = comp, afterComp
		}
		entries = append(entries, entry)
		pos, ok = p.matchSeparator(pos)
		if !ok {
			break
		}
	}

	pos = p.whitespace(pos)
	var fallback, defaultValue ast.Node
	if next, ok := p.match(pos, ";"); ok {
		pos = next
		for {
			pos = p.whitespace(pos)
			attrStart := pos
			if next, ok := p.matchWord(pos, "fallback"); ok {
				next = p.whitespace(next)
				next, ok = p.match(next, "=")
				if !ok {
					p.bail(attrStart, next, "I expected an '=' after 'fallback'")
				}
				if fallback != nil {
					p.bail(attrStart, next, "This table already has a fallback")
				}
				fallback, pos = p.parseExpr(p.spaces(next))
				if fallback == nil {
					p.bail(attrStart, next, "I expected a fallback table")
				}
			} else if next, ok := p.matchWord(pos, "default"); ok {
				next = p.whitespace(next)
				next, ok = p.match(next, "=")
				if !ok {
					p.bail(attrStart, next, "I expected an '=' after 'default'")
				}
				if defaultValue != nil {
					p.bail(attrStart, next, "This table already has a default")
				}
				defaultValue, pos = p.parseExpr(p.spaces(next))
				if defaultValue == nil {
					p.bail(attrStart, next, "I expected a default value")
				}
			} else {
				break
			}
			pos = p.whitespace(pos)
			if next, ok := p.match(pos, ","); ok {
				pos = next
			} else {
				break
			}
		}
	}

	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, "}", "I wasn't able to parse the rest of this table")
	return &ast.Table{Span: p.span(start, pos), Entries: entries, Fallback: fallback, Default: defaultValue}, pos
}

func (p *parser) parseSet(pos int) (ast.Node, int) {
	start := pos
	if next, ok := p.match(pos, "||"); ok {
		return &ast.Set{Span: p.span(start, next)}, next
	}
	pos, ok := p.match(pos, "|")
	if !ok {
		return nil, start
	}
	pos = p.whitespace(pos)

	var items []ast.Node
	for {
		item, next := p.parseExtendedExpr(p.spaces(pos))
		if item == nil {
			break
		}
		pos = p.whitespace(next)
		for {
			comp, afterComp := p.parseComprehensionSuffix(item)
			if comp == nil {
				break
			}
			item, pos = comp, afterComp
		}
		items = append(items, item)
		pos, ok = p.matchSeparator(pos)
		if !ok {
			break
		}
	}

	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, "|", "I wasn't able to parse the rest of this set")
	return &ast.Set{Span: p.span(start, pos), Items: items}, pos
}

// parseReduction parses `(op[.key-chain]: iter)`.
func (p *parser) parseReduction(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.match(pos, "(")
	if !ok {
		return nil, start
	}
	pos = p.whitespace(pos)
	op, pos := p.matchBinaryOperator(pos)
	if op == ast.OpUnknown {
		return nil, start
	}

	key, pos := p.parseKeyChain(pos)

	pos = p.whitespace(pos)
	pos, ok = p.match(pos, ":")
	if !ok {
		return nil, start
	}

	iter, pos := p.parseExtendedExpr(p.spaces(pos))
	if iter == nil {
		return nil, start
	}
	for {
		comp, next := p.parseComprehensionSuffix(iter)
		if comp == nil {
			break
		}
		iter, pos = comp, next
	}

	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this reduction")
	return &ast.Reduction{Span: p.span(start, pos), Iter: iter, Op: op, Key: key}, pos
}

// parseKeyChain parses the optional key expression used by _min_/_max_
// and reductions: suffixes stacked over a sentinel Var("$"). Returns nil
// when no suffix was present.
func (p *parser) parseKeyChain(pos int) (ast.Node, int) {
	var key ast.Node = &ast.Var{Span: p.span(pos, pos), Name: "$"}
	for {
		newTerm, next := p.parseSuffix(key, pos)
		if newTerm == nil {
			break
		}
		key, pos = newTerm, next
	}
	if v, ok := key.(*ast.Var); ok && v.Name == "$" {
		return nil, pos
	}
	return key, pos
}

// parseSuffix tries each suffix parser in order on the given term. pos
// is the position just after the term.
func (p *parser) parseSuffix(term ast.Node, pos int) (ast.Node, int) {
	if n, next := p.parseIndexSuffix(term, pos); n != nil {
		return n, next
	}
	if n, next := p.parseMethodCallSuffix(term, pos); n != nil {
		return n, next
	}
	if n, next := p.parseFieldSuffix(term, pos); n != nil {
		return n, next
	}
	if n, next := p.parseFncallSuffix(term, pos); n != nil {
		return n, next
	}
	if n, next := p.parseOptionalSuffix(term, pos); n != nil {
		return n, next
	}
	if n, next := p.parseNonOptionalSuffix(term, pos); n != nil {
		return n, next
	}
	return nil, pos
}

func (p *parser) parseIndexSuffix(lhs ast.Node, pos int) (ast.Node, int) {
	start := lhs.NodeSpan().Start
	pos, ok := p.match(pos, "[")
	if !ok {
		return nil, pos
	}
	pos = p.whitespace(pos)
	index, pos := p.parseExtendedExpr(pos)
	pos = p.whitespace(pos)
	unchecked := false
	if next, ok := p.match(pos, ";"); ok {
		next = p.spaces(next)
		if next, ok = p.matchWord(next, "unchecked"); ok {
			unchecked = true
			pos = next
		}
	}
	pos = p.expectClosing(pos, "]", "I wasn't able to parse the rest of this index")
	return &ast.Index{Span: p.span(start, pos), Obj: lhs, Key: index, Unchecked: unchecked}, pos
}

func (p *parser) parseFieldSuffix(lhs ast.Node, pos int) (ast.Node, int) {
	start := lhs.NodeSpan().Start
	orig := pos
	pos = p.whitespace(pos)
	pos, ok := p.match(pos, ".")
	if !ok || p.byteAt(pos) == '.' {
		return nil, orig
	}
	pos = p.whitespace(pos)
	pos, dollar := p.match(pos, "$")
	field, pos, ok := p.getID(pos)
	if !ok {
		return nil, orig
	}
	if dollar {
		field = "$" + field
	}
	return &ast.FieldAccess{Span: p.span(start, pos), Obj: lhs, Name: field}, pos
}

func (p *parser) parseOptionalSuffix(lhs ast.Node, pos int) (ast.Node, int) {
	if next, ok := p.match(pos, "?"); ok {
		return &ast.Optional{Span: p.span(lhs.NodeSpan().Start, next), Value: lhs}, next
	}
	return nil, pos
}

func (p *parser) parseNonOptionalSuffix(lhs ast.Node, pos int) (ast.Node, int) {
	if next, ok := p.match(pos, "!"); ok {
		return &ast.NonOptional{Span: p.span(lhs.NodeSpan().Start, next), Value: lhs}, next
	}
	return nil, pos
}

// parseCallArgs parses the argument list of a call, stopping before the
// closing paren.
func (p *parser) parseCallArgs(pos int) ([]ast.CallArg, int) {
	var args []ast.CallArg
	for {
		argStart := pos
		name, next, hasName := p.getID(pos)
		if hasName {
			next = p.whitespace(next)
			if afterEq, ok := p.match(next, "="); ok && p.byteAt(afterEq) != '=' {
				next = afterEq
			} else {
				hasName = false
				next = argStart
			}
		} else {
			next = argStart
		}

		arg, afterArg := p.parseExpr(p.spaces(next))
		if arg == nil {
			if hasName {
				p.bail(argStart, next, "I expected an argument here")
			}
			break
		}
		if !hasName {
			name = ""
		}
		args = append(args, ast.CallArg{Name: name, Value: arg})
		pos = afterArg
		var ok bool
		pos, ok = p.matchSeparator(pos)
		if !ok {
			break
		}
	}
	return args, pos
}

func (p *parser) parseMethodCallSuffix(self ast.Node, pos int) (ast.Node, int) {
	start := self.NodeSpan().Start
	orig := pos
	pos, ok := p.match(pos, ".")
	if !ok || p.byteAt(pos) == ' ' {
		return nil, orig
	}
	name, pos, ok := p.getID(pos)
	if !ok {
		return nil, orig
	}
	pos = p.spaces(pos)
	pos, ok = p.match(pos, "(")
	if !ok {
		return nil, orig
	}
	pos = p.whitespace(pos)
	args, pos := p.parseCallArgs(pos)
	pos = p.whitespace(pos)
	pos, ok = p.match(pos, ")")
	if !ok {
		p.bail(start, pos, "This parenthesis is unclosed")
	}
	return &ast.MethodCall{Span: p.span(start, pos), Self: self, Name: name, Args: args}, pos
}

func (p *parser) parseFncallSuffix(fn ast.Node, pos int) (ast.Node, int) {
	start := fn.NodeSpan().Start
	orig := pos
	pos, ok := p.match(pos, "(")
	if !ok {
		return nil, orig
	}
	pos = p.whitespace(pos)
	args, pos := p.parseCallArgs(pos)
	pos = p.whitespace(pos)
	pos, ok = p.match(pos, ")")
	if !ok {
		p.bail(start, pos, "This parenthesis is unclosed")
	}
	return &ast.FunctionCall{Span: p.span(start, pos), Fn: fn, Args: args}, pos
}

// parsePrefixed parses @expr and &expr, which take index/call/field
// suffix chains on the value and Optional/NonOptional suffixes on the
// whole reference.
func (p *parser) parsePrefixed(pos int, marker string, wrap func(ast.Span, ast.Node) ast.Node) (ast.Node, int) {
	start := pos
	pos, ok := p.match(pos, marker)
	if !ok {
		return nil, start
	}
	pos = p.spaces(pos)
	val, pos := p.parseTermNoSuffix(pos)
	if val == nil {
		p.bail(start, pos, "I expected an expression for this '%s'", marker)
	}
	for {
		var newTerm ast.Node
		var next int
		if newTerm, next = p.parseIndexSuffix(val, pos); newTerm == nil {
			if newTerm, next = p.parseFncallSuffix(val, pos); newTerm == nil {
				if newTerm, next = p.parseMethodCallSuffix(val, pos); newTerm == nil {
					newTerm, next = p.parseFieldSuffix(val, pos)
				}
			}
		}
		if newTerm == nil {
			break
		}
		val, pos = newTerm, next
	}

	node := wrap(p.span(start, pos), val)
	for {
		if next, after := p.parseOptionalSuffix(node, pos); next != nil {
			node, pos = next, after
			continue
		}
		if next, after := p.parseNonOptionalSuffix(node, pos); next != nil {
			node, pos = next, after
			continue
		}
		break
	}
	return node, pos
}

func (p *parser) parseHeapAlloc(pos int) (ast.Node, int) {
	return p.parsePrefixed(pos, "@", func(span ast.Span, v ast.Node) ast.Node {
		return &ast.HeapAllocate{Span: span, Value: v}
	})
}

func (p *parser) parseStackReference(pos int) (ast.Node, int) {
	return p.parsePrefixed(pos, "&", func(span ast.Span, v ast.Node) ast.Node {
		return &ast.StackReference{Span: span, Value: v}
	})
}

func (p *parser) parseNot(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "not")
	if !ok {
		return nil, start
	}
	val, pos := p.parseTerm(p.spaces(pos))
	if val == nil {
		p.bail(start, pos, "I expected an expression for this 'not'")
	}
	return &ast.Not{Span: p.span(start, pos), Value: val}, pos
}

func (p *parser) parseNegative(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.match(pos, "-")
	if !ok {
		return nil, start
	}
	val, pos := p.parseTerm(p.spaces(pos))
	if val == nil {
		p.bail(start, pos, "I expected an expression for this '-'")
	}
	return &ast.Negative{Span: p.span(start, pos), Value: val}, pos
}

func (p *parser) parseLambda(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "func")
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
	var ret ast.TypeNode
	if next, ok := p.match(pos, "->"); ok {
		ret, pos = p.parseType(p.spaces(next))
	}
	pos = p.spaces(pos)
	pos = p.expectClosing(pos, ")", "I was expecting a ')' to finish this anonymous function's arguments")
	body, pos := p.parseBlock(pos)
	if body == nil {
		body = &ast.Block{Span: p.span(pos, pos)}
	}
	p.nextLambdaID++
	return &ast.Lambda{Span: p.span(start, pos), ID: p.nextLambdaID, Args: args, RetType: ret, Body: body}, pos
}

func (p *parser) parseDeserialize(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "deserialize")
	if !ok {
		return nil, start
	}
	pos = p.spaces(pos)
	pos = p.expectStr(start, pos, "(", "I expected arguments for this `deserialize` call")
	pos = p.whitespace(pos)
	value, pos := p.parseExtendedExpr(pos)
	if value == nil {
		p.bail(start, pos, "I expected an expression here")
	}
	pos = p.whitespace(pos)
	pos = p.expectStr(start, pos, "->", "I expected a `-> Type` for this `deserialize` call so I know what it deserializes to")
	t, pos := p.parseType(p.whitespace(pos))
	if t == nil {
		p.bail(start, pos, "I couldn't parse the type for this deserialization")
	}
	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, ")", "I expected a closing ')' for this `deserialize` call")
	return &ast.Deserialize{Span: p.span(start, pos), Value: value, Type: t}, pos
}

func (p *parser) parseTermNoSuffix(pos int) (ast.Node, int) {
	pos = p.spaces(pos)
	type termParser func(int) (ast.Node, int)
	parsers := []termParser{
		p.parseNone,
		p.parseNumLiteral, // must come before int
		p.parseIntLiteral,
		p.parseNegative, // must come after num/int
		p.parseHeapAlloc,
		p.parseStackReference,
		p.parseBool,
		p.parseText,
		p.parsePathLiteral,
		p.parseLambda,
		p.parseParens,
		p.parseTable,
		p.parseSet,
		p.parseDeserialize,
		p.parseVarTerm,
		p.parseArray,
		p.parseReduction,
		p.parsePass,
		p.parseDefer,
		p.parseSkip,
		p.parseStop,
		p.parseReturn,
		p.parseNot,
		p.parseExtern,
		p.parseInlineC,
	}
	for _, parse := range parsers {
		if term, next := parse(pos); term != nil {
			return term, next
		}
	}
	return nil, pos
}

func (p *parser) parseVarTerm(pos int) (ast.Node, int) {
	v, next := p.parseVar(pos)
	if v == nil {
		return nil, pos
	}
	return v, next
}

func (p *parser) parseTerm(pos int) (ast.Node, int) {
	start := pos
	if next, ok := p.match(p.spaces(pos), "???"); ok {
		p.bail(start, next, "This value needs to be filled in!")
	}
	term, pos := p.parseTermNoSuffix(pos)
	if term == nil {
		return nil, start
	}
	for {
		newTerm, next := p.parseSuffix(term, pos)
		if newTerm == nil {
			break
		}
		term, pos = newTerm, next
	}
	return term, pos
}
