package ast

import "github.com/tomo-lang/tomoc/internal/text"

// Int is an integer literal. Digits holds the digit string verbatim
// (underscores stripped, base prefix retained); Bits is 0 for the
// default width or 8/16/32/64 from a suffix.
type Int struct {
	Span
	Digits string
	Bits   int
}

// Num is a floating-point literal. Bits is 0 or 32/64 from a suffix.
type Num struct {
	Span
	Value float64
	Bits  int
}

// Bool is a yes/no literal.
type Bool struct {
	Span
	Value bool
}

// TextLiteral is one literal chunk of a string. Interpolated strings
// become a TextJoin of TextLiterals and expression nodes.
type TextLiteral struct {
	Span
	Value text.Text
}

// TextJoin is a string with interpolations: its children alternate
// between TextLiteral chunks and arbitrary expressions. Lang is the
// language tag of a `$tag"..."` custom string, or "".
type TextJoin struct {
	Span
	Lang     string
	Children []Node
}

// Null is a `none` literal with its declared type.
type Null struct {
	Span
	Type TypeNode
}

// Path is a path literal like (./foo/bar.txt).
type Path struct {
	Span
	Path string
}

// Var is a variable reference.
type Var struct {
	Span
	Name string
}

// BinaryOp applies Op to Lhs and Rhs.
type BinaryOp struct {
	Span
	Op  BinOp
	Lhs Node
	Rhs Node
}

// UpdateAssign is `lhs op= rhs`.
type UpdateAssign struct {
	Span
	Op  BinOp
	Lhs Node
	Rhs Node
}

// Negative is unary minus.
type Negative struct {
	Span
	Value Node
}

// Not is logical/bitwise negation.
type Not struct {
	Span
	Value Node
}

// Min is `lhs _min_ rhs`, optionally with a sort key built over the
// sentinel Var("$").
type Min struct {
	Span
	Lhs Node
	Rhs Node
	Key Node
}

// Max is `lhs _max_ rhs`, optionally with a sort key.
type Max struct {
	Span
	Lhs Node
	Rhs Node
	Key Node
}

// HeapAllocate is `@expr`.
type HeapAllocate struct {
	Span
	Value Node
}

// StackReference is `&expr`.
type StackReference struct {
	Span
	Value Node
}

// Index is `obj[key]`, or a pointer dereference `obj[]` when Key is nil.
// Unchecked marks `obj[key; unchecked]`.
type Index struct {
	Span
	Obj       Node
	Key       Node
	Unchecked bool
}

// FieldAccess is `obj.name`.
type FieldAccess struct {
	Span
	Obj  Node
	Name string
}

// FunctionCall is `fn(args)`.
type FunctionCall struct {
	Span
	Fn   Node
	Args []CallArg
}

// MethodCall is `self.name(args)`.
type MethodCall struct {
	Span
	Self Node
	Name string
	Args []CallArg
}

// Optional is the `?` suffix.
type Optional struct {
	Span
	Value Node
}

// NonOptional is the `!` suffix.
type NonOptional struct {
	Span
	Value Node
}

// Array is an array literal, optionally typed: `[:T]` or `[items...]`.
type Array struct {
	Span
	ItemType TypeNode
	Items    []Node
}

// Set is a set literal.
type Set struct {
	Span
	ItemType TypeNode
	Items    []Node
}

// Table is a table literal with optional fallback table and default
// value.
type Table struct {
	Span
	KeyType   TypeNode
	ValueType TypeNode
	Entries   []Node
	Fallback  Node
	Default   Node
}

// TableEntry is one `key = value` inside a table literal.
type TableEntry struct {
	Span
	Key   Node
	Value Node
}

// Channel is a channel constructor with optional bound.
type Channel struct {
	Span
	ItemType TypeNode
	MaxSize  Node
}

// Comprehension is `expr for vars in iter [if filter]`, usable inside
// array/set/table literals and reductions.
type Comprehension struct {
	Span
	Expr   Node
	Vars   []Node
	Iter   Node
	Filter Node
}

// Reduction is `(op: iter)` or `(op: expr for ... in ...)`; Key carries
// the operator's key chain for _min_/_max_ reductions.
type Reduction struct {
	Span
	Iter Node
	Op   BinOp
	Key  Node
}

// Lambda is an anonymous function. ID makes the generated symbol unique
// within its file.
type Lambda struct {
	Span
	ID      int
	Args    []Arg
	RetType TypeNode
	Body    Node
}

// InlineCCode is a `C_code [: T] { ... }` escape hatch; chunks alternate
// literal C text and interpolated expressions.
type InlineCCode struct {
	Span
	Chunks []Node
	Type   TypeNode
}

// Deserialize is `deserialize(value -> T)`.
type Deserialize struct {
	Span
	Value Node
	Type  TypeNode
}

// Unknown is the `???` placeholder; parsing it is a hard error, but the
// node exists so tooling can represent holes.
type Unknown struct {
	Span
}
