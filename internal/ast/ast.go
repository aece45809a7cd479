// Package ast defines the syntax tree produced by the parser: a node
// family for expressions and statements, a disjoint family for type
// expressions, and the argument records shared by function signatures,
// struct fields, and enum tag payloads.
//
// Every node carries the source file it was parsed from and the exact
// byte range of source text it covers, so diagnostics and debug dumps
// can always reconstruct a node textually.
package ast

import (
	"github.com/tomo-lang/tomoc/internal/srcfile"
)

// Span is the source extent of a node: a file plus the [Start, End) byte
// range within it.
type Span struct {
	File  *srcfile.File
	Start int
	End   int
}

// NewSpan builds a span over file bytes [start, end).
func NewSpan(file *srcfile.File, start, end int) Span {
	return Span{File: file, Start: start, End: end}
}

// NodeSpan implements Node for every struct that embeds Span.
func (s Span) NodeSpan() Span { return s }

// Source returns the source text the span covers.
func (s Span) Source() string {
	if s.File == nil {
		return ""
	}
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(s.File.Text) {
		end = len(s.File.Text)
	}
	if start > end {
		return ""
	}
	return s.File.Text[start:end]
}

// Position renders the span's start as "file:line:col".
func (s Span) Position() string {
	if s.File == nil {
		return "<no source>"
	}
	return s.File.Position(s.Start)
}

// Node is any expression or statement node.
type Node interface {
	NodeSpan() Span
}

// TypeNode is any type-expression node. The two families are disjoint:
// a TypeNode never appears where a Node is expected and vice versa.
type TypeNode interface {
	TypeSpan() Span
}

// TypeSpanBase is embedded by type-expression nodes to carry their span.
type TypeSpanBase struct {
	Span
}

// TypeSpan implements TypeNode.
func (s TypeSpanBase) TypeSpan() Span { return s.Span }

// Arg is one argument record, used for function parameters, struct
// fields, and enum tag fields. At least one of Type or Default is always
// set; the parser enforces this. Several Args produced from a shared
// trailing ": Type" or "= default" reference the same Type/Default
// values.
type Arg struct {
	Name    string
	Type    TypeNode
	Default Node
}

// CallArg is one argument at a call site, optionally named.
type CallArg struct {
	Name  string
	Value Node
}
