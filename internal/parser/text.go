package parser

import (
	"strings"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/text"
)

// closingDelim maps pair-style opening brackets to their mirrors; other
// quote characters close with themselves.
var closingDelim = map[byte]byte{'(': ')', '[': ']', '<': '>', '{': '}'}

const interpChars = `~!@#$%^&*+=\?`
const quoteChars = "\"'`|/;([{<"

// noInterp disables interpolation ($$-prefixed custom strings).
const noInterp = '\x03'

// parseTextChunks reads string contents until the closing quote,
// collecting literal chunks and interpolation terms. Multi-line strings
// must be indented one level beyond the opening line; dedented
// continuation lines starting with ".." join without a newline.
func (p *parser) parseTextChunks(pos int, openQuote, closeQuote, openInterp byte, allowEscapes bool) ([]ast.Node, int) {
	startingIndent := p.getIndent(pos)
	stringIndent := startingIndent + SpacesPerIndent

	var chunks []ast.Node
	var chunk strings.Builder
	chunkStart := pos
	depth := 1
	leadingNewline := false

	flushChunk := func(end int) {
		if chunk.Len() > 0 {
			chunks = append(chunks, &ast.TextLiteral{
				Span:  p.span(chunkStart, end),
				Value: text.FromString(chunk.String()),
			})
			chunk.Reset()
		}
	}

	for pos < len(p.text) && depth > 0 {
		c := p.text[pos]
		switch {
		case c == openInterp:
			interpStart := pos
			flushChunk(pos)
			pos++
			if c := p.byteAt(pos); c == ' ' || c == '\t' {
				p.bail(pos, pos+1, "Whitespace is not allowed before an interpolation here")
			}
			interp, next := p.parseTermNoSuffix(pos)
			if interp == nil {
				p.bail(interpStart, pos, "I expected an interpolation term here")
			}
			chunks = append(chunks, interp)
			pos = next
			chunkStart = pos
		case allowEscapes && c == '\\':
			s, next := p.unescape(pos)
			chunk.WriteString(s)
			pos = next
		case !leadingNewline && c == openQuote && closingDelim[openQuote] != 0:
			if p.getIndent(pos) == startingIndent {
				depth++
			}
			chunk.WriteByte(c)
			pos++
		case !leadingNewline && c == closeQuote:
			if p.getIndent(pos) == startingIndent {
				depth--
				if depth == 0 {
					goto done
				}
			}
			chunk.WriteByte(c)
			pos++
		default:
			if next, ok := p.newlineWithIndentation(pos, stringIndent); ok {
				if !leadingNewline && chunk.Len() == 0 && len(chunks) == 0 {
					leadingNewline = true
				} else {
					chunk.WriteByte('\n')
				}
				pos = next
				continue
			}
			if next, ok := p.newlineWithIndentation(pos, startingIndent); ok {
				if p.byteAt(next) == closeQuote {
					pos = next
					goto done
				}
				dots := p.someOf(next, ".")
				if dots-next >= 2 {
					// Line continuation: join without a newline.
					pos = dots
					continue
				}
				p.bail(next, p.eol(next), "This multi-line string should be either indented or have '..' at the front")
			}
			chunk.WriteByte(c)
			pos++
		}
	}
done:
	flushChunk(pos)
	pos = p.expectClosing(pos, string(closeQuote), "I was expecting a "+string(closeQuote)+" to finish this string")
	return chunks, pos
}

// parseText parses all five string forms: double-quoted (escapes +
// interpolation), single-quoted and backtick (interpolation only), and
// `$[lang][interp-char]Q...Q` custom strings with selectable
// interpolation and quote characters.
func (p *parser) parseText(pos int) (ast.Node, int) {
	start := pos
	var lang string
	var openQuote, closeQuote byte
	openInterp := byte('$')
	allowEscapes := true

	switch {
	case p.byteAt(pos) == '"':
		openQuote, closeQuote = '"', '"'
		pos++
	case p.byteAt(pos) == '\'':
		openQuote, closeQuote = '\'', '\''
		allowEscapes = false
		pos++
	case p.byteAt(pos) == '`':
		openQuote, closeQuote = '`', '`'
		allowEscapes = false
		pos++
	case p.byteAt(pos) == '$':
		pos++
		if id, next, ok := p.getID(pos); ok {
			lang = id
			pos = next
		}
		if next, ok := p.match(pos, "$"); ok {
			openInterp = noInterp
			pos = next
		} else if c := p.byteAt(pos); c != 0 && strings.IndexByte(interpChars, c) >= 0 {
			openInterp = c
			pos++
		}
		c := p.byteAt(pos)
		if c == 0 || strings.IndexByte(quoteChars, c) < 0 {
			p.bail(pos, pos+1, "This is not a valid string quotation character. Valid characters are: \"'`|/;([{<")
		}
		openQuote = c
		pos++
		if mirrored := closingDelim[openQuote]; mirrored != 0 {
			closeQuote = mirrored
		} else {
			closeQuote = openQuote
		}
		allowEscapes = openQuote != '`'
	default:
		return nil, start
	}

	chunks, pos := p.parseTextChunks(pos, openQuote, closeQuote, openInterp, allowEscapes)
	return &ast.TextJoin{Span: p.span(start, pos), Lang: lang, Children: chunks}, pos
}
