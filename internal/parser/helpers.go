package parser

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SpacesPerIndent is the fixed indent unit; a tab counts as this many
// spaces.
const SpacesPerIndent = 4

// Reserved words, sorted for binary search.
var keywords = []string{
	"C_code", "_max_", "_min_", "and", "assert", "break", "continue",
	"defer", "deserialize", "do", "else", "enum", "extend", "extern",
	"for", "func", "if", "in", "lang", "mod", "mod1", "no", "none",
	"not", "or", "pass", "return", "skip", "stop", "struct", "then",
	"unless", "use", "when", "while", "xor", "yes",
}

func isKeyword(word string) bool {
	i := sort.SearchStrings(keywords, word)
	return i < len(keywords) && keywords[i] == word
}

// someOf advances past characters in allow, returning the new position.
func (p *parser) someOf(pos int, allow string) int {
	for pos < len(p.text) && strings.IndexByte(allow, p.text[pos]) >= 0 {
		pos++
	}
	return pos
}

// someNot advances past characters not in forbid.
func (p *parser) someNot(pos int, forbid string) int {
	for pos < len(p.text) && strings.IndexByte(forbid, p.text[pos]) < 0 {
		pos++
	}
	return pos
}

// spaces skips spaces and tabs.
func (p *parser) spaces(pos int) int {
	return p.someOf(pos, " \t")
}

// comment skips a '#' line comment, reporting whether one was present.
func (p *parser) comment(pos int) (int, bool) {
	if pos < len(p.text) && p.text[pos] == '#' {
		return p.someNot(pos, "\r\n"), true
	}
	return pos, false
}

// whitespace skips spaces, tabs, newlines, and comments.
func (p *parser) whitespace(pos int) int {
	for {
		next := p.someOf(pos, " \t\r\n")
		next, _ = p.comment(next)
		if next == pos {
			return pos
		}
		pos = next
	}
}

// match consumes the literal target if present.
func (p *parser) match(pos int, target string) (int, bool) {
	if strings.HasPrefix(p.text[pos:], target) {
		return pos + len(target), true
	}
	return pos, false
}

func isXIDStart(r rune) bool {
	return unicode.IsLetter(r) || unicode.In(r, unicode.Other_ID_Start)
}

func isXIDContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Other_ID_Continue)
}

func (p *parser) xidContinueNext(pos int) bool {
	if pos >= len(p.text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(p.text[pos:])
	return isXIDContinue(r)
}

// matchWord consumes the keyword (after optional spaces) only when it is
// not followed by an identifier-continue character.
func (p *parser) matchWord(pos int, word string) (int, bool) {
	next := p.spaces(pos)
	next, ok := p.match(next, word)
	if !ok || p.xidContinueNext(next) {
		return pos, false
	}
	return next, true
}

// getWord reads a Unicode identifier (XID-start or '_', then
// XID-continue), without rejecting reserved words.
func (p *parser) getWord(pos int) (string, int, bool) {
	pos = p.spaces(pos)
	start := pos
	r, size := utf8.DecodeRuneInString(p.text[pos:])
	if size == 0 || (!isXIDStart(r) && r != '_') {
		return "", pos, false
	}
	pos += size
	for pos < len(p.text) {
		r, size = utf8.DecodeRuneInString(p.text[pos:])
		if !isXIDContinue(r) {
			break
		}
		pos += size
	}
	return p.text[start:pos], pos, true
}

// getID is getWord restricted to non-reserved words.
func (p *parser) getID(pos int) (string, int, bool) {
	word, next, ok := p.getWord(pos)
	if !ok || isKeyword(word) {
		return "", pos, false
	}
	return word, next, true
}

// eol returns the position of the end of the current line.
func (p *parser) eol(pos int) int {
	return p.someNot(pos, "\r\n")
}

// lineStart returns the offset at which pos's line begins.
func (p *parser) lineStart(pos int) int {
	if pos > len(p.text) {
		pos = len(p.text)
	}
	start := strings.LastIndexByte(p.text[:pos], '\n')
	return start + 1
}

// getIndent measures the indentation of pos's line in spaces (a tab is
// SpacesPerIndent); mixing tabs and spaces in one line's indentation is
// a hard error.
func (p *parser) getIndent(pos int) int {
	line := p.lineStart(pos)
	switch {
	case line >= len(p.text):
		return 0
	case p.text[line] == ' ':
		n := p.someOf(line, " ")
		if n < len(p.text) && p.text[n] == '\t' {
			p.bail(n, n+1, "This is a tab following spaces, and you can't mix tabs and spaces")
		}
		return n - line
	case p.text[line] == '\t':
		n := p.someOf(line, "\t")
		if n < len(p.text) && p.text[n] == ' ' {
			p.bail(n, n+1, "This is a space following tabs, and you can't mix tabs and spaces")
		}
		return (n - line) * SpacesPerIndent
	default:
		return 0
	}
}

// indent reports whether a new block begins after pos: whitespace leads
// to a later line indented exactly one level deeper. On success, the
// returned position is just past the new line's indentation.
func (p *parser) indent(pos int) (int, bool) {
	startingIndent := p.getIndent(pos)
	next := p.whitespace(pos)
	line := p.lineStart(next)
	if line <= pos {
		return pos, false
	}
	if p.getIndent(line) != startingIndent+SpacesPerIndent {
		return pos, false
	}
	return p.someOf(line, " \t"), true
}

// newlineWithIndentation consumes a newline followed by at least target
// spaces of indentation (or an empty line), leaving pos just past the
// target column.
func (p *parser) newlineWithIndentation(pos int, target int) (int, bool) {
	if pos < len(p.text) && p.text[pos] == '\r' {
		pos++
	}
	if pos >= len(p.text) || p.text[pos] != '\n' {
		return pos, false
	}
	pos++
	if pos >= len(p.text) || p.text[pos] == '\r' || p.text[pos] == '\n' {
		// Empty line
		return pos, true
	}
	if p.text[pos] == ' ' {
		if p.someOf(pos, " ")-pos >= target {
			return pos + target, true
		}
	} else if (p.someOf(pos, "\t")-pos)*SpacesPerIndent >= target {
		return pos + target/SpacesPerIndent, true
	}
	return pos, false
}

// expectStr consumes target (after optional spaces) or bails with the
// given message. Word-like targets must not run into an identifier.
func (p *parser) expectStr(start, pos int, target, message string) int {
	pos = p.spaces(pos)
	next, ok := p.match(pos, target)
	if !ok {
		p.bail(start, pos, "%s", message)
	}
	last := target[len(target)-1]
	if (last >= 'a' && last <= 'z') || (last >= 'A' && last <= 'Z') ||
		(last >= '0' && last <= '9') || last == '_' {
		if p.xidContinueNext(next) {
			p.bail(start, next, "%s", message)
		}
	}
	return next
}

// expectClosing consumes a closing delimiter or bails, pointing the
// error at the text up to the nearest newline or matching close.
func (p *parser) expectClosing(pos int, close, message string) int {
	start := pos
	pos = p.spaces(pos)
	next, ok := p.match(pos, close)
	if !ok {
		end := p.eol(pos)
		if idx := strings.Index(p.text[pos:], close); idx >= 0 && pos+idx < end {
			end = pos + idx
		}
		p.bail(start, end, "%s", message)
	}
	return next
}

// matchSeparator consumes one or more commas/newlines (plus surrounding
// spaces and comments), reporting whether any separator was present.
func (p *parser) matchSeparator(pos int) (int, bool) {
	cur := pos
	separators := 0
	for {
		next := p.someOf(cur, "\r\n,")
		if next > cur {
			separators++
			cur = next
			continue
		}
		next, wasComment := p.comment(cur)
		if !wasComment {
			next = p.someOf(cur, " \t")
			if next == cur {
				break
			}
		}
		cur = next
	}
	if separators > 0 {
		return cur, true
	}
	return pos, false
}
