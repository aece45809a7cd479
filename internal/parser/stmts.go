package parser

import (
	"strings"

	"github.com/tomo-lang/tomoc/internal/ast"
)

func (p *parser) parsePass(pos int) (ast.Node, int) {
	start := pos
	if next, ok := p.matchWord(pos, "pass"); ok {
		return &ast.Pass{Span: p.span(start, next)}, next
	}
	return nil, start
}

func (p *parser) parseDefer(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "defer")
	if !ok {
		return nil, start
	}
	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "I expected a block to be deferred here")
	}
	return &ast.Defer{Span: p.span(start, pos), Body: body}, pos
}

// loopTarget parses the optional `for`/`while`/identifier target of
// skip/stop.
func (p *parser) loopTarget(pos int) (string, int) {
	if next, ok := p.matchWord(pos, "for"); ok {
		return "for", next
	}
	if next, ok := p.matchWord(pos, "while"); ok {
		return "while", next
	}
	if id, next, ok := p.getID(pos); ok {
		return id, next
	}
	return "", pos
}

func (p *parser) parseSkip(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "continue")
	if !ok {
		pos, ok = p.matchWord(pos, "skip")
		if !ok {
			return nil, start
		}
	}
	target, pos := p.loopTarget(pos)
	var node ast.Node = &ast.Skip{Span: p.span(start, pos), Target: target}
	return p.parseOptionalConditionalSuffix(node)
}

func (p *parser) parseStop(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "stop")
	if !ok {
		pos, ok = p.matchWord(pos, "break")
		if !ok {
			return nil, start
		}
	}
	target, pos := p.loopTarget(pos)
	var node ast.Node = &ast.Stop{Span: p.span(start, pos), Target: target}
	return p.parseOptionalConditionalSuffix(node)
}

func (p *parser) parseReturn(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "return")
	if !ok {
		return nil, start
	}
	value, pos := p.parseExpr(p.spaces(pos))
	var node ast.Node = &ast.Return{Span: p.span(start, pos), Value: value}
	return p.parseOptionalConditionalSuffix(node)
}

func (p *parser) parseDocTest(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.match(pos, ">>")
	if !ok {
		return nil, start
	}
	pos = p.spaces(pos)
	expr, pos := p.parseStatement(pos)
	if expr == nil {
		p.bail(start, pos, "I couldn't parse the expression for this doctest")
	}
	next := p.whitespace(pos)
	var expected ast.Node
	if afterEq, ok := p.match(next, "="); ok {
		expected, pos = p.parseExtendedExpr(p.spaces(afterEq))
		if expected == nil {
			p.bail(start, afterEq, "I couldn't parse the expected expression here")
		}
	}
	return &ast.DocTest{Span: p.span(start, pos), Expr: expr, Expected: expected}, pos
}

func (p *parser) parseAssert(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "assert")
	if !ok {
		return nil, start
	}
	expr, pos := p.parseExtendedExpr(p.spaces(pos))
	if expr == nil {
		p.bail(start, pos, "I couldn't parse the expression for this assert")
	}
	next := p.spaces(pos)
	var message ast.Node
	if afterComma, ok := p.match(next, ","); ok {
		message, pos = p.parseExtendedExpr(p.whitespace(afterComma))
		if message == nil {
			p.bail(start, afterComma, "I couldn't parse the error message for this assert")
		}
	}
	return &ast.Assert{Span: p.span(start, pos), Expr: expr, Message: message}, pos
}

// parseDeclaration parses `var : [Type] [= value]`.
func (p *parser) parseDeclaration(pos int) (ast.Node, int) {
	start := pos
	v, pos := p.parseVar(pos)
	if v == nil {
		return nil, start
	}
	pos = p.spaces(pos)
	pos, ok := p.match(pos, ":")
	if !ok {
		return nil, start
	}
	declType, pos := p.parseType(p.spaces(pos))
	pos = p.spaces(pos)
	var value ast.Node
	if next, ok := p.match(pos, "="); ok {
		value, pos = p.parseExtendedExpr(p.spaces(next))
		if value == nil {
			if use, _ := p.parseUse(p.spaces(next)); use != nil {
				p.bail(start, pos, "'use' statements are only allowed at the top level of a file")
			}
			p.bail(pos, p.eol(pos), "This is not a valid expression")
		}
	}
	return &ast.Declare{Span: p.span(start, pos), Var: v, Type: declType, Value: value}, pos
}

var updateOps = []struct {
	token string
	op    ast.BinOp
}{
	// Longer tokens first so "<<<=" wins over "<<=".
	{"<<<=", ast.OpUnsignedLeftShift},
	{">>>=", ast.OpUnsignedRightShift},
	{"<<=", ast.OpLeftShift},
	{">>=", ast.OpRightShift},
	{"++=", ast.OpConcat},
	{"and=", ast.OpAnd},
	{"or=", ast.OpOr},
	{"xor=", ast.OpXor},
	{"+=", ast.OpPlus},
	{"-=", ast.OpMinus},
	{"*=", ast.OpMultiply},
	{"/=", ast.OpDivide},
	{"^=", ast.OpPower},
}

func (p *parser) parseUpdate(pos int) (ast.Node, int) {
	start := pos
	lhs, pos := p.parseExpr(p.spaces(pos))
	if lhs == nil {
		return nil, start
	}
	pos = p.spaces(pos)
	for _, candidate := range updateOps {
		if next, ok := p.match(pos, candidate.token); ok {
			rhs, after := p.parseExtendedExpr(p.spaces(next))
			if rhs == nil {
				p.bail(start, next, "I expected an expression here")
			}
			return &ast.UpdateAssign{Span: p.span(start, after), Op: candidate.op, Lhs: lhs, Rhs: rhs}, after
		}
	}
	return nil, start
}

func (p *parser) parseAssignment(pos int) (ast.Node, int) {
	start := pos
	var targets []ast.Node
	for {
		lhs, next := p.parseTerm(p.spaces(pos))
		if lhs == nil {
			break
		}
		targets = append(targets, lhs)
		pos = p.spaces(next)
		var ok bool
		pos, ok = p.match(pos, ",")
		if !ok {
			break
		}
		pos = p.whitespace(pos)
	}
	if len(targets) == 0 {
		return nil, start
	}

	pos = p.spaces(pos)
	pos, ok := p.match(pos, "=")
	if !ok {
		return nil, start
	}
	if _, isEq := p.match(pos, "="); isEq { // == comparison
		return nil, start
	}

	var values []ast.Node
	for {
		rhs, next := p.parseExtendedExpr(p.spaces(pos))
		if rhs == nil {
			break
		}
		values = append(values, rhs)
		pos = p.spaces(next)
		var afterComma int
		afterComma, ok = p.match(pos, ",")
		if !ok {
			break
		}
		pos = p.whitespace(afterComma)
	}

	return &ast.Assign{Span: p.span(start, pos), Targets: targets, Values: values}, pos
}

// parseStatement dispatches to declarations, doctests, asserts, update
// assignments, assignments, and extended expressions, then applies
// statement-level call suffixes.
func (p *parser) parseStatement(pos int) (ast.Node, int) {
	if stmt, next := p.parseDeclaration(pos); stmt != nil {
		return stmt, next
	}
	if stmt, next := p.parseDocTest(pos); stmt != nil {
		return stmt, next
	}
	if stmt, next := p.parseAssert(pos); stmt != nil {
		return stmt, next
	}

	stmt, pos := p.parseUpdate(pos)
	if stmt == nil {
		stmt, pos = p.parseAssignment(pos)
	}
	if stmt == nil {
		stmt, pos = p.parseExtendedExpr(pos)
	}
	if stmt == nil {
		return nil, pos
	}

	for {
		switch stmt.(type) {
		case *ast.Var:
			if newStmt, next := p.parseMethodCallSuffix(stmt, pos); newStmt != nil {
				stmt, pos = newStmt, next
				continue
			}
			if newStmt, next := p.parseFncallSuffix(stmt, pos); newStmt != nil {
				stmt, pos = newStmt, next
				continue
			}
		case *ast.FunctionCall, *ast.MethodCall:
			newStmt, next := p.parseOptionalConditionalSuffix(stmt)
			if newStmt != stmt {
				stmt, pos = newStmt, next
				continue
			}
		}
		return stmt, pos
	}
}

// parseBlock parses an inline (`;`-separated) or indented block.
func (p *parser) parseBlock(pos int) (ast.Node, int) {
	start := pos
	pos = p.spaces(pos)

	var statements []ast.Node
	if indented, ok := p.indent(pos); ok {
		pos = indented
		blockIndent := p.getIndent(pos)
		pos = p.whitespace(pos)
		for pos < len(p.text) {
			stmt, next := p.parseStatement(p.spaces(pos))
			if stmt == nil {
				lineStart := pos
				if _, ok := p.matchWord(pos, "struct"); ok {
					p.bail(lineStart, p.eol(pos), "Struct definitions are only allowed at the top level")
				}
				if _, ok := p.matchWord(pos, "enum"); ok {
					p.bail(lineStart, p.eol(pos), "Enum definitions are only allowed at the top level")
				}
				if _, ok := p.matchWord(pos, "func"); ok {
					p.bail(lineStart, p.eol(pos), "Function definitions are only allowed at the top level")
				}
				if _, ok := p.matchWord(pos, "use"); ok {
					p.bail(lineStart, p.eol(pos), "'use' statements are only allowed at the top level")
				}
				next := p.spaces(pos)
				if next < len(p.text) && p.text[next] != '\r' && p.text[next] != '\n' {
					p.bail(next, p.eol(next), "I couldn't parse this line")
				}
				break
			}
			statements = append(statements, stmt)
			pos = p.whitespace(next)

			// Two statements on one line (no newline between them) is an
			// error unless the line ends here.
			if !strings.ContainsRune(p.text[stmt.NodeSpan().End:pos], '\n') {
				if pos < len(p.text) {
					p.bail(pos, p.eol(pos), "I don't know how to parse the rest of this line")
				}
				pos = stmt.NodeSpan().End
				break
			}

			if p.getIndent(pos) != blockIndent {
				pos = stmt.NodeSpan().End // backtrack
				break
			}
		}
		return &ast.Block{Span: p.span(start, pos), Statements: statements}, pos
	}

	// Inline block
	pos = p.spaces(pos)
	for pos < len(p.text) {
		stmt, next := p.parseStatement(p.spaces(pos))
		if stmt == nil {
			break
		}
		statements = append(statements, stmt)
		pos = p.spaces(next)
		var ok bool
		pos, ok = p.match(pos, ";")
		if !ok {
			break
		}
	}
	if len(statements) == 0 {
		return nil, start
	}
	return &ast.Block{Span: p.span(start, pos), Statements: statements}, pos
}

func (p *parser) parseIf(pos int) (ast.Node, int) {
	start := pos
	startingIndent := p.getIndent(pos)

	var unless bool
	if next, ok := p.matchWord(pos, "if"); ok {
		unless, pos = false, next
	} else if next, ok := p.matchWord(pos, "unless"); ok {
		unless, pos = true, next
	} else {
		return nil, start
	}

	var condition ast.Node
	if !unless {
		condition, pos = p.parseDeclaration(p.spaces(pos))
	}
	if condition == nil {
		condition, pos = p.parseExpr(p.spaces(pos))
		if condition == nil {
			p.bail(start, pos, "I expected to find a condition for this 'if'")
		}
	}
	if unless {
		condition = &ast.Not{Span: condition.NodeSpan(), Value: condition}
	}

	if next, ok := p.matchWord(pos, "then"); ok { // optional 'then'
		pos = next
	}
	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "I expected a body for this 'if' statement")
	}

	var elseBody ast.Node
	tmp := p.whitespace(pos)
	if p.getIndent(tmp) == startingIndent {
		if next, ok := p.matchWord(tmp, "else"); ok {
			elseStart := pos
			next = p.spaces(next)
			elseBody, pos = p.parseIf(next)
			if elseBody == nil {
				elseBody, pos = p.parseBlock(next)
				if elseBody == nil {
					p.bail(elseStart, next, "I expected a body for this 'else'")
				}
			}
		}
	}
	return &ast.If{Span: p.span(start, pos), Condition: condition, Body: body, Else: elseBody}, pos
}

func (p *parser) parseWhen(pos int) (ast.Node, int) {
	start := pos
	startingIndent := p.getIndent(pos)

	pos, ok := p.matchWord(pos, "when")
	if !ok {
		return nil, start
	}

	subject, pos := p.parseDeclaration(p.spaces(pos))
	if subject == nil {
		subject, pos = p.parseExpr(p.spaces(pos))
		if subject == nil {
			p.bail(start, pos, "I expected to find an expression for this 'when'")
		}
	}

	var clauses []ast.WhenClause
	tmp := p.whitespace(pos)
	for p.getIndent(tmp) == startingIndent {
		next, ok := p.matchWord(tmp, "is")
		if !ok {
			break
		}
		pos = p.spaces(next)
		pattern, afterPattern := p.parseExpr(pos)
		if pattern == nil {
			p.bail(start, pos, "I expected a pattern to match here")
		}
		patterns := []ast.Node{pattern}
		pos = p.spaces(afterPattern)
		for {
			afterComma, ok := p.match(pos, ",")
			if !ok {
				break
			}
			pattern, afterPattern = p.parseExpr(p.spaces(afterComma))
			if pattern == nil {
				p.bail(start, afterComma, "I expected a pattern to match here")
			}
			patterns = append(patterns, pattern)
			pos = p.spaces(afterPattern)
		}
		if next, ok := p.matchWord(pos, "then"); ok { // optional 'then'
			pos = next
		}
		body, afterBody := p.parseBlock(pos)
		if body == nil {
			p.bail(start, pos, "I expected a body for this 'when' clause")
		}
		pos = afterBody
		clauses = append(clauses, ast.WhenClause{Patterns: patterns, Body: body})
		tmp = p.whitespace(pos)
	}

	var elseBody ast.Node
	if p.getIndent(tmp) == startingIndent {
		if next, ok := p.matchWord(tmp, "else"); ok {
			elseStart := pos
			elseBody, pos = p.parseBlock(next)
			if elseBody == nil {
				p.bail(elseStart, next, "I expected a body for this 'else'")
			}
		}
	}
	return &ast.When{Span: p.span(start, pos), Subject: subject, Clauses: clauses, Else: elseBody}, pos
}

func (p *parser) parseFor(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "for")
	if !ok {
		return nil, start
	}
	startingIndent := p.getIndent(pos)
	pos = p.spaces(pos)
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

	pos = p.spaces(pos)
	pos = p.expectStr(start, pos, "in", "I expected an 'in' for this 'for'")
	iter, pos := p.parseExpr(p.spaces(pos))
	if iter == nil {
		p.bail(start, pos, "I expected an iterable value for this 'for'")
	}

	if next, ok := p.matchWord(pos, "do"); ok { // optional 'do'
		pos = next
	}
	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "I expected a body for this 'for'")
	}

	var empty ast.Node
	elseStart := p.whitespace(pos)
	if next, ok := p.matchWord(elseStart, "else"); ok && p.getIndent(elseStart) == startingIndent {
		empty, pos = p.parseBlock(next)
		if empty == nil {
			p.bail(next, next, "I expected a body for this 'else'")
		}
	}
	return &ast.For{Span: p.span(start, pos), Vars: vars, Iter: iter, Body: body, Empty: empty}, pos
}

func (p *parser) parseWhile(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "while")
	if !ok {
		return nil, start
	}

	// Shorthand: `while when ...` loops until no clause matches.
	if _, isWhen := p.matchWord(pos, "when"); isWhen {
		when, afterWhen := p.parseWhen(p.spaces(pos))
		if when == nil {
			p.bail(start, pos, "I expected a 'when' block after this")
		}
		pos = afterWhen
		w := when.(*ast.When)
		if w.Else == nil {
			w.Else = &ast.Stop{Span: p.span(pos, pos)}
		}
		return &ast.While{Span: p.span(start, pos), Body: when}, pos
	}

	if next, ok := p.matchWord(pos, "do"); ok { // optional 'do'
		pos = next
	}

	condition, pos := p.parseExpr(p.spaces(pos))
	if condition == nil {
		p.bail(start, pos, "I don't see a viable condition for this 'while'")
	}
	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "I expected a body for this 'while'")
	}
	return &ast.While{Span: p.span(start, pos), Condition: condition, Body: body}, pos
}

func (p *parser) parseRepeat(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "repeat")
	if !ok {
		return nil, start
	}
	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "I expected a body for this 'repeat'")
	}
	return &ast.Repeat{Span: p.span(start, pos), Body: body}, pos
}

// parseDo parses `do body`; the result is the block itself, giving a
// scoped group of statements.
func (p *parser) parseDo(pos int) (ast.Node, int) {
	start := pos
	pos, ok := p.matchWord(pos, "do")
	if !ok {
		return nil, start
	}
	body, pos := p.parseBlock(pos)
	if body == nil {
		p.bail(start, pos, "I expected a body for this 'do'")
	}
	return &ast.Do{Span: p.span(start, pos), Body: body}, pos
}
