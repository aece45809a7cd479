package parser

import (
	"github.com/tomo-lang/tomoc/internal/ast"
)

func (p *parser) parseTableType(pos int) (ast.TypeNode, int) {
	start := pos
	pos, ok := p.match(pos, "{")
	if !ok {
		return nil, start
	}
	pos = p.whitespace(pos)
	keyType, pos := p.parseType(pos)
	if keyType == nil {
		return nil, start
	}
	pos = p.whitespace(pos)
	var valueType ast.TypeNode
	if next, ok := p.match(pos, "="); ok {
		valueType, pos = p.parseType(p.whitespace(next))
		if valueType == nil {
			p.bail(start, pos, "I couldn't parse the rest of this table type")
		}
	} else {
		return nil, start
	}
	pos = p.spaces(pos)
	var defaultValue ast.Node
	if next, ok := p.match(pos, ";"); ok {
		if next, ok = p.matchWord(next, "default"); ok {
			next = p.spaces(next)
			next, ok = p.match(next, "=")
			if !ok {
				p.bail(pos, next, "I expected an '=' here")
			}
			defaultValue, pos = p.parseExtendedExpr(p.spaces(next))
			if defaultValue == nil {
				p.bail(start, next, "I couldn't parse the default value for this table")
			}
		}
	}
	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, "}", "I wasn't able to parse the rest of this table type")
	return &ast.TableTypeAST{TypeSpanBase: p.typeSpan(start, pos), Key: keyType, Value: valueType, Default: defaultValue}, pos
}

func (p *parser) parseSetType(pos int) (ast.TypeNode, int) {
	start := pos
	pos, ok := p.match(pos, "|")
	if !ok {
		return nil, start
	}
	pos = p.whitespace(pos)
	item, pos := p.parseType(pos)
	if item == nil {
		return nil, start
	}
	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, "|", "I wasn't able to parse the rest of this set type")
	return &ast.SetTypeAST{TypeSpanBase: p.typeSpan(start, pos), Item: item}, pos
}

func (p *parser) parseFuncType(pos int) (ast.TypeNode, int) {
	start := pos
	pos, ok := p.matchWord(pos, "func")
	if !ok {
		return nil, start
	}
	pos = p.spaces(pos)
	pos, ok = p.match(pos, "(")
	if !ok {
		p.bail(start, pos, "I expected a parenthesis here")
	}
	args, pos := p.parseArgs(pos)
	pos = p.spaces(pos)
	var ret ast.TypeNode
	if next, ok := p.match(pos, "->"); ok {
		ret, pos = p.parseType(p.spaces(next))
	}
	pos = p.expectClosing(pos, ")", "I wasn't able to parse the rest of this function type")
	return &ast.FunctionTypeAST{TypeSpanBase: p.typeSpan(start, pos), Args: args, Ret: ret}, pos
}

func (p *parser) parseArrayType(pos int) (ast.TypeNode, int) {
	start := pos
	pos, ok := p.match(pos, "[")
	if !ok {
		return nil, start
	}
	item, pos := p.parseType(p.spaces(pos))
	if item == nil {
		p.bail(start, pos, "I couldn't parse an array item type after this point")
	}
	pos = p.expectClosing(pos, "]", "I wasn't able to parse the rest of this array type")
	return &ast.ArrayTypeAST{TypeSpanBase: p.typeSpan(start, pos), Item: item}, pos
}

func (p *parser) parseChannelType(pos int) (ast.TypeNode, int) {
	start := pos
	pos, ok := p.match(pos, "|:")
	if !ok {
		return nil, start
	}
	item, pos := p.parseType(p.whitespace(pos))
	if item == nil {
		return nil, start
	}
	pos = p.whitespace(pos)
	pos = p.expectClosing(pos, "|", "I wasn't able to parse the rest of this channel type")
	return &ast.ChannelTypeAST{TypeSpanBase: p.typeSpan(start, pos), Item: item}, pos
}

func (p *parser) parsePointerType(pos int) (ast.TypeNode, int) {
	start := pos
	var isStack bool
	if next, ok := p.match(pos, "@"); ok {
		isStack, pos = false, next
	} else if next, ok := p.match(pos, "&"); ok {
		isStack, pos = true, next
	} else {
		return nil, start
	}
	pos = p.spaces(pos)
	pointed, pos := p.parseNonOptionalType(pos)
	if pointed == nil {
		p.bail(start, pos, "I couldn't parse a pointer type after this point")
	}
	var t ast.TypeNode = &ast.PointerTypeAST{TypeSpanBase: p.typeSpan(start, pos), IsStack: isStack, Pointed: pointed}
	pos = p.spaces(pos)
	for {
		next, ok := p.match(pos, "?")
		if !ok {
			break
		}
		pos = next
		t = &ast.OptionalTypeAST{TypeSpanBase: p.typeSpan(start, pos), Inner: t}
	}
	return t, pos
}

func (p *parser) parseTypeName(pos int) (ast.TypeNode, int) {
	start := pos
	id, pos, ok := p.getID(pos)
	if !ok {
		return nil, start
	}
	for {
		next := p.spaces(pos)
		next, dotted := p.match(next, ".")
		if !dotted {
			break
		}
		nextID, afterID, ok := p.getID(next)
		if !ok {
			break
		}
		id = id + "." + nextID
		pos = afterID
	}
	return &ast.VarTypeAST{TypeSpanBase: p.typeSpan(start, pos), Name: id}, pos
}

func (p *parser) parseNonOptionalType(pos int) (ast.TypeNode, int) {
	start := pos
	if t, next := p.parsePointerType(pos); t != nil {
		return t, next
	}
	if t, next := p.parseArrayType(pos); t != nil {
		return t, next
	}
	if t, next := p.parseTableType(pos); t != nil {
		return t, next
	}
	if t, next := p.parseChannelType(pos); t != nil {
		return t, next
	}
	if t, next := p.parseSetType(pos); t != nil {
		return t, next
	}
	if t, next := p.parseFuncType(pos); t != nil {
		return t, next
	}
	if t, next := p.parseTypeName(pos); t != nil {
		return t, next
	}
	// Parenthesized type
	if next, ok := p.match(pos, "("); ok {
		t, after := p.parseType(p.whitespace(next))
		if t == nil {
			return nil, start
		}
		after = p.whitespace(after)
		after = p.expectClosing(after, ")", "I wasn't able to parse the rest of this type")
		return t, after
	}
	return nil, start
}

func (p *parser) parseType(pos int) (ast.TypeNode, int) {
	start := pos
	t, pos := p.parseNonOptionalType(pos)
	if t == nil {
		return nil, start
	}
	pos = p.spaces(pos)
	for {
		next, ok := p.match(pos, "?")
		if !ok {
			break
		}
		pos = next
		t = &ast.OptionalTypeAST{TypeSpanBase: p.typeSpan(start, pos), Inner: t}
	}
	return t, pos
}
