package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomo-lang/tomoc/internal/ast"
)

func parseOneStatement(t *testing.T, source string) ast.Node {
	t.Helper()
	block, err := Parse(source)
	require.NoError(t, err, "parsing %q", source)
	require.Len(t, block.Statements, 1, "expected a single statement in %q", source)
	return block.Statements[0]
}

func parseExpr(t *testing.T, source string) ast.Node {
	t.Helper()
	node, err := ParseExpression(source)
	require.NoError(t, err, "parsing %q", source)
	return node
}

func TestOperatorPrecedence(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, "a + b * c")
	add, ok := node.(*ast.BinaryOp)
	require.True(t, ok, "got %T", node)
	assert.Equal(t, ast.OpPlus, add.Op)
	assert.Equal(t, "a", add.Lhs.(*ast.Var).Name)
	mul, ok := add.Rhs.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMultiply, mul.Op)
	assert.Equal(t, "b", mul.Lhs.(*ast.Var).Name)
	assert.Equal(t, "c", mul.Rhs.(*ast.Var).Name)
}

func TestLeftAssociativity(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, "a - b - c")
	outer, ok := node.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMinus, outer.Op)
	inner, ok := outer.Lhs.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "a", inner.Lhs.(*ast.Var).Name)
	assert.Equal(t, "c", outer.Rhs.(*ast.Var).Name)
}

func TestConcatAndComparisonPrecedence(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, `a ++ b == c`)
	eq, ok := node.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpEqual, eq.Op)
	concat, ok := eq.Lhs.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpConcat, concat.Op)
}

func TestIntLiterals(t *testing.T) {
	t.Parallel()
	tests := []struct {
		source string
		digits string
	}{
		{"1234", "1234"},
		{"1_000_000", "1000000"},
		{"0xDEAD_beef", "0xDEADbeef"},
		{"0o777", "0o777"},
		{"0b1010", "0b1010"},
		{"-42", "-42"},
	}
	for _, tt := range tests {
		node := parseExpr(t, tt.source)
		i, ok := node.(*ast.Int)
		require.True(t, ok, "%q parsed as %T", tt.source, node)
		assert.Equal(t, tt.digits, i.Digits)
	}
}

func TestNumLiterals(t *testing.T) {
	t.Parallel()
	tests := []struct {
		source string
		value  float64
	}{
		{"3.14", 3.14},
		{"1e3", 1000},
		{"2.5e-1", 0.25},
		{"-1.5", -1.5},
		{"50%", 0.5},
	}
	for _, tt := range tests {
		node := parseExpr(t, tt.source)
		n, ok := node.(*ast.Num)
		require.True(t, ok, "%q parsed as %T", tt.source, node)
		assert.InDelta(t, tt.value, n.Value, 1e-12)
	}
}

func TestIntPercentBecomesNum(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, "25%")
	n, ok := node.(*ast.Num)
	require.True(t, ok)
	assert.InDelta(t, 0.25, n.Value, 1e-12)
}

func TestBoolLiterals(t *testing.T) {
	t.Parallel()
	assert.True(t, parseExpr(t, "yes").(*ast.Bool).Value)
	assert.False(t, parseExpr(t, "no").(*ast.Bool).Value)
}

func TestInterpolation(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, `"x=$(1+2) done"`)
	join, ok := node.(*ast.TextJoin)
	require.True(t, ok, "got %T", node)
	require.Len(t, join.Children, 3)

	lit, ok := join.Children[0].(*ast.TextLiteral)
	require.True(t, ok)
	assert.Equal(t, "x=", lit.Value.String())

	op, ok := join.Children[1].(*ast.BinaryOp)
	require.True(t, ok, "interpolated child is %T", join.Children[1])
	assert.Equal(t, ast.OpPlus, op.Op)
	assert.Equal(t, "1", op.Lhs.(*ast.Int).Digits)
	assert.Equal(t, "2", op.Rhs.(*ast.Int).Digits)

	tail, ok := join.Children[2].(*ast.TextLiteral)
	require.True(t, ok)
	assert.Equal(t, " done", tail.Value.String())
}

func TestCustomString(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, `$shell"echo $name"`)
	join, ok := node.(*ast.TextJoin)
	require.True(t, ok)
	assert.Equal(t, "shell", join.Lang)
	require.Len(t, join.Children, 2)
	assert.Equal(t, "echo ", join.Children[0].(*ast.TextLiteral).Value.String())
	assert.Equal(t, "name", join.Children[1].(*ast.Var).Name)
}

func TestCustomStringBrackets(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, `$[one [two] three]`)
	join, ok := node.(*ast.TextJoin)
	require.True(t, ok)
	require.Len(t, join.Children, 1)
	assert.Equal(t, "one [two] three", join.Children[0].(*ast.TextLiteral).Value.String())
}

func TestDisabledInterpolation(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, `$$"costs $5"`)
	join := node.(*ast.TextJoin)
	require.Len(t, join.Children, 1)
	assert.Equal(t, "costs $5", join.Children[0].(*ast.TextLiteral).Value.String())
}

func TestEscapeSequences(t *testing.T) {
	t.Parallel()
	tests := []struct {
		source string
		want   string
	}{
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"\x41"`, "A"},
		{`"\101"`, "A"},
		{`"\{U0041}"`, "A"},
		{`"\{LATIN SMALL LETTER A}"`, "a"},
		{`"spa\_ce"`, "spa ce"},
		{`"esc\[1]"`, "esc\x1b[1m"},
	}
	for _, tt := range tests {
		join := parseExpr(t, tt.source).(*ast.TextJoin)
		require.Len(t, join.Children, 1, "source %q", tt.source)
		assert.Equal(t, tt.want, join.Children[0].(*ast.TextLiteral).Value.String(), "source %q", tt.source)
	}
}

func TestSingleQuoteNoEscapes(t *testing.T) {
	t.Parallel()
	join := parseExpr(t, `'a\nb'`).(*ast.TextJoin)
	require.Len(t, join.Children, 1)
	assert.Equal(t, `a\nb`, join.Children[0].(*ast.TextLiteral).Value.String())
}

func TestPathLiteral(t *testing.T) {
	t.Parallel()
	p, ok := parseExpr(t, "(./foo/bar.txt)").(*ast.Path)
	require.True(t, ok)
	assert.Equal(t, "./foo/bar.txt", p.Path)

	home, ok := parseExpr(t, "(~/docs)").(*ast.Path)
	require.True(t, ok)
	assert.Equal(t, "~/docs", home.Path)
}

func TestComprehension(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, "[x*2 for x in xs if x > 0]")
	arr, ok := node.(*ast.Array)
	require.True(t, ok, "got %T", node)
	require.Len(t, arr.Items, 1)
	comp, ok := arr.Items[0].(*ast.Comprehension)
	require.True(t, ok, "item is %T", arr.Items[0])

	mul, ok := comp.Expr.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMultiply, mul.Op)

	require.Len(t, comp.Vars, 1)
	assert.Equal(t, "x", comp.Vars[0].(*ast.Var).Name)
	assert.Equal(t, "xs", comp.Iter.(*ast.Var).Name)

	filter, ok := comp.Filter.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpGreaterThan, filter.Op)
}

func TestReduction(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, "(+: nums)")
	red, ok := node.(*ast.Reduction)
	require.True(t, ok, "got %T", node)
	assert.Equal(t, ast.OpPlus, red.Op)
	assert.Equal(t, "nums", red.Iter.(*ast.Var).Name)
	assert.Nil(t, red.Key)
}

func TestMinMaxWithKey(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, "a _min_.field b")
	m, ok := node.(*ast.Min)
	require.True(t, ok, "got %T", node)
	assert.Equal(t, "a", m.Lhs.(*ast.Var).Name)
	assert.Equal(t, "b", m.Rhs.(*ast.Var).Name)
	key, ok := m.Key.(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "field", key.Name)
	assert.Equal(t, "$", key.Obj.(*ast.Var).Name)
}

func TestSuffixes(t *testing.T) {
	t.Parallel()
	node := parseExpr(t, "obj.field[3].method(x)!")
	nonOpt, ok := node.(*ast.NonOptional)
	require.True(t, ok, "got %T", node)
	call, ok := nonOpt.Value.(*ast.MethodCall)
	require.True(t, ok)
	assert.Equal(t, "method", call.Name)
	idx, ok := call.Self.(*ast.Index)
	require.True(t, ok)
	assert.Equal(t, "3", idx.Key.(*ast.Int).Digits)
	field, ok := idx.Obj.(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "field", field.Name)
}

func TestNamedCallArgs(t *testing.T) {
	t.Parallel()
	call := parseExpr(t, "f(1, size=2)").(*ast.FunctionCall)
	require.Len(t, call.Args, 2)
	assert.Empty(t, call.Args[0].Name)
	assert.Equal(t, "size", call.Args[1].Name)
}

func TestHeapAndStackRefs(t *testing.T) {
	t.Parallel()
	heap, ok := parseExpr(t, "@[1, 2]").(*ast.HeapAllocate)
	require.True(t, ok)
	_, ok = heap.Value.(*ast.Array)
	assert.True(t, ok)

	stack, ok := parseExpr(t, "&x").(*ast.StackReference)
	require.True(t, ok)
	assert.Equal(t, "x", stack.Value.(*ast.Var).Name)
}

func TestUnfilledPlaceholderIsError(t *testing.T) {
	t.Parallel()
	_, err := ParseExpression("???")
	assert.Error(t, err)
}

func TestReservedWordsNotIdentifiers(t *testing.T) {
	t.Parallel()
	for _, kw := range []string{"for", "while", "if", "use", "struct"} {
		_, err := ParseExpression(kw + " ")
		assert.Error(t, err, "%q must not parse as an identifier", kw)
	}
}

func TestBlockStructure(t *testing.T) {
	t.Parallel()
	block, err := Parse("func main()\n    x := 1\n    y := 2\n")
	require.NoError(t, err)
	require.Len(t, block.Statements, 1)
	fn := block.Statements[0].(*ast.FunctionDef)
	assert.Equal(t, "main", fn.Name.Name)
	body := fn.Body.(*ast.Block)
	require.Len(t, body.Statements, 2)
	decl := body.Statements[0].(*ast.Declare)
	assert.Equal(t, "x", decl.Var.Name)
}

func TestDedentEndsBlock(t *testing.T) {
	t.Parallel()
	block, err := Parse("func f()\n    x := 1\nfunc g()\n    y := 2\n")
	require.NoError(t, err)
	require.Len(t, block.Statements, 2)
}

func TestMixedTabsAndSpacesError(t *testing.T) {
	t.Parallel()
	_, err := Parse("func f()\n    \tx := 1\n")
	assert.Error(t, err)
}

func TestNestedStatementsRejectTopLevelForms(t *testing.T) {
	t.Parallel()
	_, err := Parse("func f()\n    struct Inner(x:Int)\n")
	assert.Error(t, err)
}

func TestIfElse(t *testing.T) {
	t.Parallel()
	stmt := parseOneStatement(t, "func f()\n    if x > 0\n        pass\n    else\n        pass\n")
	fn := stmt.(*ast.FunctionDef)
	body := fn.Body.(*ast.Block)
	require.Len(t, body.Statements, 1)
	ifStmt := body.Statements[0].(*ast.If)
	assert.NotNil(t, ifStmt.Condition)
	assert.NotNil(t, ifStmt.Else)
}

func TestUnlessBecomesNotIf(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    unless done\n        pass\n").(*ast.FunctionDef)
	ifStmt := fn.Body.(*ast.Block).Statements[0].(*ast.If)
	_, ok := ifStmt.Condition.(*ast.Not)
	assert.True(t, ok)
}

func TestWhenClauses(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    when x\n    is 1, 2\n        pass\n    is 3\n        pass\n    else\n        pass\n").(*ast.FunctionDef)
	when := fn.Body.(*ast.Block).Statements[0].(*ast.When)
	require.Len(t, when.Clauses, 2)
	assert.Len(t, when.Clauses[0].Patterns, 2)
	assert.Len(t, when.Clauses[1].Patterns, 1)
	assert.NotNil(t, when.Else)
}

func TestForLoop(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    for k, v in table\n        pass\n    else\n        pass\n").(*ast.FunctionDef)
	forStmt := fn.Body.(*ast.Block).Statements[0].(*ast.For)
	require.Len(t, forStmt.Vars, 2)
	assert.Equal(t, "k", forStmt.Vars[0].(*ast.Var).Name)
	assert.NotNil(t, forStmt.Empty)
}

func TestWhileAndRepeat(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    while x < 10\n        x = x + 1\n").(*ast.FunctionDef)
	while := fn.Body.(*ast.Block).Statements[0].(*ast.While)
	assert.NotNil(t, while.Condition)

	fn = parseOneStatement(t, "func f()\n    repeat\n        stop if done\n").(*ast.FunctionDef)
	_, ok := fn.Body.(*ast.Block).Statements[0].(*ast.Repeat)
	assert.True(t, ok)
}

func TestSkipStopTargets(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    for x in xs\n        skip for\n").(*ast.FunctionDef)
	forStmt := fn.Body.(*ast.Block).Statements[0].(*ast.For)
	skip := forStmt.Body.(*ast.Block).Statements[0].(*ast.Skip)
	assert.Equal(t, "for", skip.Target)
}

func TestStructDef(t *testing.T) {
	t.Parallel()
	def := parseOneStatement(t, "struct Point(x, y: Num)\n").(*ast.StructDef)
	assert.Equal(t, "Point", def.Name)
	require.Len(t, def.Fields, 2)
	assert.Equal(t, "x", def.Fields[0].Name)
	assert.Equal(t, "y", def.Fields[1].Name)
	// Shared trailing type applies to both fields.
	assert.Equal(t, def.Fields[0].Type, def.Fields[1].Type)
}

func TestStructFlags(t *testing.T) {
	t.Parallel()
	def := parseOneStatement(t, "struct Handle(; opaque)\n").(*ast.StructDef)
	assert.True(t, def.Opaque)
	assert.Empty(t, def.Fields)
}

func TestEnumDef(t *testing.T) {
	t.Parallel()
	def := parseOneStatement(t, "enum Shape(Circle(radius:Num), Square(side:Num), Empty)\n").(*ast.EnumDef)
	assert.Equal(t, "Shape", def.Name)
	require.Len(t, def.Tags, 3)
	assert.Equal(t, "Circle", def.Tags[0].Name)
	assert.Len(t, def.Tags[0].Fields, 1)
	assert.Empty(t, def.Tags[2].Fields)
}

func TestLangDefWithNamespace(t *testing.T) {
	t.Parallel()
	block, err := Parse("lang Sh\n    func escape(t:Text -> Sh)\n        return t\n")
	require.NoError(t, err)
	def := block.Statements[0].(*ast.LangDef)
	assert.Equal(t, "Sh", def.Name)
	ns := def.Namespace.(*ast.Block)
	require.Len(t, ns.Statements, 1)
	_, ok := ns.Statements[0].(*ast.FunctionDef)
	assert.True(t, ok)
}

func TestFuncDefFlags(t *testing.T) {
	t.Parallel()
	def := parseOneStatement(t, "func fib(n:Int -> Int; cached)\n    return n\n").(*ast.FunctionDef)
	assert.NotNil(t, def.Cache)
	assert.False(t, def.Inline)
	assert.NotNil(t, def.RetType)
}

func TestConvertDef(t *testing.T) {
	t.Parallel()
	def := parseOneStatement(t, "convert(n:Int -> Text)\n    return none\n").(*ast.ConvertDef)
	require.Len(t, def.Args, 1)
	assert.Equal(t, "n", def.Args[0].Name)
}

func TestExternDef(t *testing.T) {
	t.Parallel()
	def := parseOneStatement(t, "extern getenv: func(name:Text -> Text)\n").(*ast.Extern)
	assert.Equal(t, "getenv", def.Name)
	_, ok := def.Type.(*ast.FunctionTypeAST)
	assert.True(t, ok)
}

func TestUseClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		what ast.UseKind
	}{
		{"./sibling.tm", ast.UseLocal},
		{"/abs/path.tm", ast.UseLocal},
		{"mymodule", ast.UseModule},
		{"-lm", ast.UseSharedObject},
		{"stdio.h", ast.UseHeader},
		{"impl.c", ast.UseCCode},
		{"boot.S", ast.UseAsm},
	}
	for _, tt := range tests {
		use := parseOneStatement(t, "use "+tt.path+"\n").(*ast.Use)
		assert.Equal(t, tt.what, use.What, "path %s", tt.path)
		assert.Equal(t, tt.path, use.Path)
	}
}

func TestUseWithVar(t *testing.T) {
	t.Parallel()
	use := parseOneStatement(t, "dep := use ./dep.tm\n").(*ast.Use)
	require.NotNil(t, use.Var)
	assert.Equal(t, "dep", use.Var.Name)
}

func TestTypeExpressions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		source string
		check  func(*testing.T, ast.TypeNode)
	}{
		{"Int", func(t *testing.T, n ast.TypeNode) {
			assert.Equal(t, "Int", n.(*ast.VarTypeAST).Name)
		}},
		{"Foo.Bar", func(t *testing.T, n ast.TypeNode) {
			assert.Equal(t, "Foo.Bar", n.(*ast.VarTypeAST).Name)
		}},
		{"@Int", func(t *testing.T, n ast.TypeNode) {
			p := n.(*ast.PointerTypeAST)
			assert.False(t, p.IsStack)
		}},
		{"&Int", func(t *testing.T, n ast.TypeNode) {
			assert.True(t, n.(*ast.PointerTypeAST).IsStack)
		}},
		{"[Int]", func(t *testing.T, n ast.TypeNode) {
			assert.IsType(t, &ast.ArrayTypeAST{}, n)
		}},
		{"|Int|", func(t *testing.T, n ast.TypeNode) {
			assert.IsType(t, &ast.SetTypeAST{}, n)
		}},
		{"{Text=Int}", func(t *testing.T, n ast.TypeNode) {
			tab := n.(*ast.TableTypeAST)
			assert.Equal(t, "Text", tab.Key.(*ast.VarTypeAST).Name)
			assert.Equal(t, "Int", tab.Value.(*ast.VarTypeAST).Name)
		}},
		{"Int?", func(t *testing.T, n ast.TypeNode) {
			opt := n.(*ast.OptionalTypeAST)
			assert.Equal(t, "Int", opt.Inner.(*ast.VarTypeAST).Name)
		}},
		{"func(x:Int -> Text)", func(t *testing.T, n ast.TypeNode) {
			fn := n.(*ast.FunctionTypeAST)
			require.Len(t, fn.Args, 1)
			assert.NotNil(t, fn.Ret)
		}},
	}
	for _, tt := range tests {
		node, err := ParseType(tt.source)
		require.NoError(t, err, "type %q", tt.source)
		tt.check(t, node)
	}
}

func TestSpanRoundTrip(t *testing.T) {
	t.Parallel()
	source := "x := 1 + 2 * 3\n"
	block, err := Parse("func f()\n    " + source)
	require.NoError(t, err)
	fn := block.Statements[0].(*ast.FunctionDef)
	decl := fn.Body.(*ast.Block).Statements[0].(*ast.Declare)
	// The span's source text re-parses to a structurally equal node.
	snippet := decl.Value.NodeSpan().Source()
	assert.Equal(t, "1 + 2 * 3", snippet)
	reparsed := parseExpr(t, snippet)
	diff := cmp.Diff(decl.Value, reparsed,
		cmpopts.IgnoreTypes(ast.Span{}),
		cmp.Exporter(func(reflect.Type) bool { return true }))
	assert.Empty(t, diff, "re-parsed span text must be structurally equal")
}

func TestParseFileCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached.tm")
	require.NoError(t, os.WriteFile(path, []byte("x := 1\n"), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	first, err := ParseFile(abs)
	require.NoError(t, err)
	second, err := ParseFile(abs)
	require.NoError(t, err)
	assert.Same(t, first, second, "repeated parses must hit the cache")
}

func TestParseErrorHasPosition(t *testing.T) {
	t.Parallel()
	_, err := Parse("func f(\n")
	require.Error(t, err)
	parseErr, ok := err.(*Error)
	require.True(t, ok)
	assert.NotEmpty(t, parseErr.Excerpt(false))
}

func TestShebangSkipped(t *testing.T) {
	t.Parallel()
	block, err := Parse("#!/usr/bin/env tomo\nx := 1\n")
	require.NoError(t, err)
	require.Len(t, block.Statements, 1)
}

func TestInlineBlock(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    if ready then pass; return\n").(*ast.FunctionDef)
	ifStmt := fn.Body.(*ast.Block).Statements[0].(*ast.If)
	body := ifStmt.Body.(*ast.Block)
	assert.Len(t, body.Statements, 2)
}

func TestTrailingConditional(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    return 1 if done\n").(*ast.FunctionDef)
	ifStmt, ok := fn.Body.(*ast.Block).Statements[0].(*ast.If)
	require.True(t, ok)
	_, ok = ifStmt.Body.(*ast.Return)
	assert.True(t, ok)
}

func TestMultilineString(t *testing.T) {
	t.Parallel()
	source := "func f()\n    x := \"\n        line one\n        line two\n    \"\n    pass\n"
	fn := parseOneStatement(t, source).(*ast.FunctionDef)
	decl := fn.Body.(*ast.Block).Statements[0].(*ast.Declare)
	join := decl.Value.(*ast.TextJoin)
	require.Len(t, join.Children, 1)
	assert.Equal(t, "line one\nline two", join.Children[0].(*ast.TextLiteral).Value.String())
}

func TestDocTestAndAssert(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    >> 1 + 2\n    = 3\n    assert x > 0, \"positive\"\n").(*ast.FunctionDef)
	stmts := fn.Body.(*ast.Block).Statements
	require.Len(t, stmts, 2)
	doctest := stmts[0].(*ast.DocTest)
	assert.NotNil(t, doctest.Expected)
	assertStmt := stmts[1].(*ast.Assert)
	assert.NotNil(t, assertStmt.Message)
}

func TestTableLiteral(t *testing.T) {
	t.Parallel()
	tab := parseExpr(t, `{"a" = 1, "b" = 2}`).(*ast.Table)
	require.Len(t, tab.Entries, 2)
	entry := tab.Entries[0].(*ast.TableEntry)
	assert.Equal(t, "a", entry.Key.(*ast.TextJoin).Children[0].(*ast.TextLiteral).Value.String())
}

func TestUpdateAssign(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    x += 1\n").(*ast.FunctionDef)
	update := fn.Body.(*ast.Block).Statements[0].(*ast.UpdateAssign)
	assert.Equal(t, ast.OpPlus, update.Op)
}

func TestMultiAssign(t *testing.T) {
	t.Parallel()
	fn := parseOneStatement(t, "func f()\n    x, y = y, x\n").(*ast.FunctionDef)
	assign := fn.Body.(*ast.Block).Statements[0].(*ast.Assign)
	assert.Len(t, assign.Targets, 2)
	assert.Len(t, assign.Values, 2)
}

func TestLambda(t *testing.T) {
	t.Parallel()
	lambda := parseExpr(t, "func(x:Int) x + 1").(*ast.Lambda)
	require.Len(t, lambda.Args, 1)
	assert.Positive(t, lambda.ID)
}

func TestUncheckedIndex(t *testing.T) {
	t.Parallel()
	idx := parseExpr(t, "xs[i; unchecked]").(*ast.Index)
	assert.True(t, idx.Unchecked)
}
