package parser

import (
	"github.com/tomo-lang/tomoc/internal/ast"
)

// matchBinaryOperator consumes a binary operator at pos, or reports
// OpUnknown without advancing.
func (p *parser) matchBinaryOperator(pos int) (ast.BinOp, int) {
	switch p.byteAt(pos) {
	case '+':
		if next, ok := p.match(pos+1, "+"); ok {
			return ast.OpConcat, next
		}
		return ast.OpPlus, pos + 1
	case '-':
		// `fn -5` is a call argument, not subtraction.
		if p.byteAt(pos+1) != ' ' && pos > 0 && p.byteAt(pos-1) == ' ' {
			return ast.OpUnknown, pos
		}
		return ast.OpMinus, pos + 1
	case '*':
		return ast.OpMultiply, pos + 1
	case '/':
		return ast.OpDivide, pos + 1
	case '^':
		return ast.OpPower, pos + 1
	case '<':
		pos++
		if next, ok := p.match(pos, "="); ok {
			return ast.OpLessThanOrEqual, next
		}
		if next, ok := p.match(pos, ">"); ok {
			return ast.OpCompare, next
		}
		if next, ok := p.match(pos, "<"); ok {
			if next2, ok := p.match(next, "<"); ok {
				return ast.OpUnsignedLeftShift, next2
			}
			return ast.OpLeftShift, next
		}
		return ast.OpLessThan, pos
	case '>':
		pos++
		if next, ok := p.match(pos, "="); ok {
			return ast.OpGreaterThanOrEqual, next
		}
		if next, ok := p.match(pos, ">"); ok {
			if next2, ok := p.match(next, ">"); ok {
				return ast.OpUnsignedRightShift, next2
			}
			return ast.OpRightShift, next
		}
		return ast.OpGreaterThan, pos
	}
	if next, ok := p.match(pos, "!="); ok {
		return ast.OpNotEqual, next
	}
	if next, ok := p.match(pos, "=="); ok && p.byteAt(next) != '=' {
		return ast.OpEqual, next
	}
	if next, ok := p.matchWord(pos, "and"); ok {
		return ast.OpAnd, next
	}
	if next, ok := p.matchWord(pos, "or"); ok {
		return ast.OpOr, next
	}
	if next, ok := p.matchWord(pos, "xor"); ok {
		return ast.OpXor, next
	}
	if next, ok := p.matchWord(pos, "mod1"); ok {
		return ast.OpMod1, next
	}
	if next, ok := p.matchWord(pos, "mod"); ok {
		return ast.OpMod, next
	}
	if next, ok := p.matchWord(pos, "_min_"); ok {
		return ast.OpMin, next
	}
	if next, ok := p.matchWord(pos, "_max_"); ok {
		return ast.OpMax, next
	}
	return ast.OpUnknown, pos
}

// parseInfixExpr climbs operator precedence, left-associating at each
// tightness level. _min_/_max_ additionally accept a key chain over the
// sentinel Var("$") so `a _min_ b.field` means "min by .field".
func (p *parser) parseInfixExpr(pos int, minTightness int) (ast.Node, int) {
	lhs, pos := p.parseTerm(p.spaces(pos))
	if lhs == nil {
		return nil, pos
	}

	startingLine := p.file.LineNumber(pos)
	startingIndent := p.getIndent(pos)
	pos = p.spaces(pos)
	for {
		beforeOp := pos
		op, afterOp := p.matchBinaryOperator(pos)
		if op == ast.OpUnknown || op.Tightness() < minTightness {
			break
		}
		pos = afterOp

		var key ast.Node
		if op == ast.OpMin || op == ast.OpMax {
			key, pos = p.parseKeyChain(pos)
		}

		pos = p.whitespace(pos)
		if p.file.LineNumber(pos) != startingLine && p.getIndent(pos) < startingIndent {
			p.bail(pos, p.eol(pos), "I expected this line to be at least as indented than the line above it")
		}

		rhs, afterRhs := p.parseInfixExpr(pos, op.Tightness()+1)
		if rhs == nil {
			// Leave the operator unconsumed (e.g. the '+' of '+=').
			pos = beforeOp
			break
		}
		pos = afterRhs

		span := p.span(lhs.NodeSpan().Start, rhs.NodeSpan().End)
		switch op {
		case ast.OpMin:
			return &ast.Min{Span: span, Lhs: lhs, Rhs: rhs, Key: key}, pos
		case ast.OpMax:
			return &ast.Max{Span: span, Lhs: lhs, Rhs: rhs, Key: key}, pos
		default:
			lhs = &ast.BinaryOp{Span: span, Op: op, Lhs: lhs, Rhs: rhs}
		}
		pos = p.spaces(pos)
	}
	return lhs, pos
}

func (p *parser) parseExpr(pos int) (ast.Node, int) {
	return p.parseInfixExpr(pos, 0)
}

// parseExtendedExpr also allows block-form expressions (if/when/loops).
func (p *parser) parseExtendedExpr(pos int) (ast.Node, int) {
	pos = p.spaces(pos)
	if n, next := p.parseFor(pos); n != nil {
		return n, next
	}
	if n, next := p.parseWhile(pos); n != nil {
		return n, next
	}
	if n, next := p.parseIf(pos); n != nil {
		return n, next
	}
	if n, next := p.parseWhen(pos); n != nil {
		return n, next
	}
	if n, next := p.parseRepeat(pos); n != nil {
		return n, next
	}
	if n, next := p.parseDo(pos); n != nil {
		return n, next
	}
	return p.parseExpr(pos)
}

// parseComprehensionSuffix parses `<expr> for vars in iter [if cond |
// unless cond]` after an already-parsed expression.
func (p *parser) parseComprehensionSuffix(expr ast.Node) (ast.Node, int) {
	start := expr.NodeSpan().Start
	pos := expr.NodeSpan().End
	pos = p.whitespace(pos)
	pos, ok := p.matchWord(pos, "for")
	if !ok {
		return nil, pos
	}

	var vars []ast.Node
	for {
		v, next := p.parseVar(p.spaces(pos))
		if v != nil {
			vars = append(vars, v)
			pos = next
		}
		pos = p.spaces(pos)
		pos, ok = p.match(pos, ",")
		if !ok {
			break
		}
	}

	pos = p.expectStr(start, pos, "in", "I expected an 'in' for this 'for'")
	iter, pos := p.parseExpr(p.spaces(pos))
	if iter == nil {
		p.bail(start, pos, "I expected an iterable value for this 'for'")
	}

	var filter ast.Node
	next := p.whitespace(pos)
	if afterIf, ok := p.matchWord(next, "if"); ok {
		filter, pos = p.parseExpr(p.spaces(afterIf))
		if filter == nil {
			p.bail(afterIf-2, afterIf, "I expected a condition for this 'if'")
		}
	} else if afterUnless, ok := p.matchWord(next, "unless"); ok {
		filter, pos = p.parseExpr(p.spaces(afterUnless))
		if filter == nil {
			p.bail(afterUnless-6, afterUnless, "I expected a condition for this 'unless'")
		}
		filter = &ast.Not{Span: filter.NodeSpan(), Value: filter}
	}
	return &ast.Comprehension{Span: p.span(start, pos), Expr: expr, Vars: vars, Iter: iter, Filter: filter}, pos
}

// parseOptionalConditionalSuffix wraps a statement in If when followed
// by a trailing `if`/`unless` condition.
func (p *parser) parseOptionalConditionalSuffix(stmt ast.Node) (ast.Node, int) {
	start := stmt.NodeSpan().Start
	pos := stmt.NodeSpan().End
	if next, ok := p.matchWord(pos, "if"); ok {
		condition, after := p.parseExpr(p.spaces(next))
		if condition == nil {
			p.bail(next-2, next, "I expected a condition for this 'if'")
		}
		return &ast.If{Span: p.span(start, after), Condition: condition, Body: stmt}, after
	}
	if next, ok := p.matchWord(pos, "unless"); ok {
		condition, after := p.parseExpr(p.spaces(next))
		if condition == nil {
			p.bail(next-6, next, "I expected a condition for this 'unless'")
		}
		notCond := &ast.Not{Span: condition.NodeSpan(), Value: condition}
		return &ast.If{Span: p.span(start, after), Condition: notCond, Body: stmt}, after
	}
	return stmt, pos
}
