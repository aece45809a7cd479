// Package parser implements the recursive-descent, indentation-aware
// reader that turns source text into an AST. There is no token stream:
// parsing works directly over the raw UTF-8 buffer with explicit cursor
// positions, a handful of matching primitives, and one parse function
// per grammar production.
//
// The parser never recovers; it bails on the first unexpected input.
// The public entry points return the bail as an *Error value.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/srcfile"
)

// parseCacheSize bounds the per-process parse cache; the size is part of
// the compiler's observable performance envelope and must stay at 100.
const parseCacheSize = 100

type parser struct {
	file         *srcfile.File
	text         string
	nextLambdaID int
}

func newParser(file *srcfile.File) *parser {
	return &parser{file: file, text: file.Text}
}

func (p *parser) span(start, end int) ast.Span {
	return ast.NewSpan(p.file, start, end)
}

func (p *parser) typeSpan(start, end int) ast.TypeSpanBase {
	return ast.TypeSpanBase{Span: ast.NewSpan(p.file, start, end)}
}

var fileCache, _ = lru.New[string, *ast.Block](parseCacheSize)

// ParseFile parses the file at the given absolute path (or a spoofed
// "<name>..." string), memoizing results per path in an LRU cache of
// 100 entries. Repeated calls for an unchanged path return the same AST.
func ParseFile(path string) (*ast.Block, error) {
	if !strings.HasPrefix(path, "<") && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("parser: path is not fully resolved: %s", path)
	}
	if cached, ok := fileCache.Get(path); ok {
		return cached, nil
	}

	var file *srcfile.File
	if strings.HasPrefix(path, "<") {
		endBracket := strings.IndexByte(path, '>')
		if endBracket < 0 {
			return nil, fmt.Errorf("parser: malformed spoofed path: %s", path)
		}
		file = srcfile.Spoof(path[:endBracket+1], path[endBracket+1:])
	} else {
		var err error
		file, err = srcfile.Load(path)
		if err != nil {
			return nil, err
		}
	}

	block, err := ParseFileSource(file)
	if err != nil {
		return nil, err
	}
	fileCache.Add(path, block)
	return block, nil
}

// ParseFileSource parses an already-loaded file without touching the
// cache.
func ParseFileSource(file *srcfile.File) (block *ast.Block, err error) {
	defer recoverError(&err)
	p := newParser(file)
	pos := 0
	if next, ok := p.match(pos, "#!"); ok { // shebang
		pos = p.someNot(next, "\r\n")
	}
	pos = p.whitespace(pos)
	block, pos = p.parseFileBody(pos)
	pos = p.whitespace(pos)
	if pos < len(p.text) {
		p.bail(pos, len(p.text), "I couldn't parse this part of the file")
	}
	return block, nil
}

// Parse parses a string as a file body.
func Parse(source string) (*ast.Block, error) {
	return ParseFileSource(srcfile.Spoof("<string>", source))
}

// ParseExpression parses a string as a single expression.
func ParseExpression(source string) (node ast.Node, err error) {
	defer recoverError(&err)
	file := srcfile.Spoof("<string>", source)
	p := newParser(file)
	pos := p.whitespace(0)
	node, pos = p.parseExtendedExpr(pos)
	if node == nil {
		p.bail(pos, len(p.text), "I couldn't parse this expression")
	}
	pos = p.whitespace(pos)
	if pos < len(p.text) {
		p.bail(pos, len(p.text), "I couldn't parse this part of the string")
	}
	return node, nil
}

// ParseType parses a string as a type expression.
func ParseType(source string) (node ast.TypeNode, err error) {
	defer recoverError(&err)
	file := srcfile.Spoof("<type>", source)
	p := newParser(file)
	pos := p.whitespace(0)
	node, pos = p.parseType(pos)
	if node == nil {
		p.bail(pos, len(p.text), "I couldn't parse this type")
	}
	pos = p.whitespace(pos)
	if pos < len(p.text) {
		p.bail(pos, len(p.text), "I couldn't parse this part of the type")
	}
	return node, nil
}

// MustParseFile is ParseFile for callers that treat a parse failure as
// fatal.
func MustParseFile(path string) *ast.Block {
	block, err := ParseFile(path)
	if err != nil {
		panic(err)
	}
	return block
}

// ResetCache clears the parse cache. Tests only.
func ResetCache() {
	fileCache.Purge()
}
