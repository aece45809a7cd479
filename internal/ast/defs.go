package ast

import "strings"

// FunctionDef is `func name(args [-> T]) [; inline, cached,
// cache_size=n] body`.
type FunctionDef struct {
	Span
	Name    *Var
	Args    []Arg
	RetType TypeNode
	Body    Node
	Cache   Node
	Inline  bool
}

// ConvertDef is `convert(args [-> T]) body`, defining a conversion for
// its return type.
type ConvertDef struct {
	Span
	Args    []Arg
	RetType TypeNode
	Body    Node
	Cache   Node
	Inline  bool
}

// StructDef is `struct Name(fields [; secret, extern, opaque]) [: body]`.
type StructDef struct {
	Span
	Name      string
	Fields    []Arg
	Namespace Node
	Secret    bool
	External  bool
	Opaque    bool
}

// EnumTag is one tag of an enum, optionally with payload fields and an
// explicit value.
type EnumTag struct {
	Name   string
	Fields []Arg
	Secret bool
	Value  int64
}

// EnumDef is `enum Name(tags) [: body]`.
type EnumDef struct {
	Span
	Name      string
	Tags      []EnumTag
	Namespace Node
}

// LangDef is `lang Name [: body]`, defining a text subtype.
type LangDef struct {
	Span
	Name      string
	Namespace Node
}

// Extend is `extend Name: body`, adding to an existing type's
// namespace.
type Extend struct {
	Span
	Name string
	Body Node
}

// Extern is `extern name: T`.
type Extern struct {
	Span
	Name string
	Type TypeNode
}

// UseKind classifies what a `use` statement imports.
type UseKind int

const (
	UseLocal UseKind = iota
	UseModule
	UseSharedObject
	UseHeader
	UseCCode
	UseAsm
)

func (k UseKind) String() string {
	switch k {
	case UseLocal:
		return "local"
	case UseModule:
		return "module"
	case UseSharedObject:
		return "shared-object"
	case UseHeader:
		return "header"
	case UseCCode:
		return "c-code"
	case UseAsm:
		return "asm"
	}
	return "unknown"
}

// ClassifyUsePath determines the use kind from the path's shape, checked
// in this order: shared objects end in .so or start with -l, headers end
// in .h, C sources in .c, assembly in .S/.s; local paths end in .tm or
// start with ./, ../, / or ~/; anything else is an installed module name.
func ClassifyUsePath(path string) UseKind {
	switch {
	case strings.HasSuffix(path, ".so") || strings.HasPrefix(path, "-l"):
		return UseSharedObject
	case strings.HasSuffix(path, ".h"):
		return UseHeader
	case strings.HasSuffix(path, ".c"):
		return UseCCode
	case strings.HasSuffix(path, ".S") || strings.HasSuffix(path, ".s"):
		return UseAsm
	case strings.HasSuffix(path, ".tm"),
		strings.HasPrefix(path, "./"), strings.HasPrefix(path, "../"),
		strings.HasPrefix(path, "/"), strings.HasPrefix(path, "~/"):
		return UseLocal
	default:
		return UseModule
	}
}

// Use is `use path` or `var := use path`.
type Use struct {
	Span
	Var  *Var
	Path string
	What UseKind
}
