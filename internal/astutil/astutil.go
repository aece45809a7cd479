// Package astutil provides the AST helpers the rest of the compiler
// leans on: debug dumps, the idempotence check the emitter uses to
// decide whether an expression may be evaluated twice, and the
// topological visitor that orders top-level statements for header
// emission.
package astutil

import (
	"iter"
	"slices"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/toposort"
)

// IsIdempotent reports whether evaluating the expression twice is
// observably the same as evaluating it once: literals and variables,
// indexes over idempotent parts, and field accesses of idempotent
// objects.
func IsIdempotent(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Int, *ast.Bool, *ast.Num, *ast.Var, *ast.Null, *ast.TextLiteral:
		return true
	case *ast.Index:
		return IsIdempotent(n.Obj) && (n.Key == nil || IsIdempotent(n.Key))
	case *ast.FieldAccess:
		return IsIdempotent(n.Obj)
	default:
		return false
	}
}

// definedName returns the name a top-level statement defines, or "" for
// statements that define no type.
func definedName(stmt ast.Node) string {
	switch s := stmt.(type) {
	case *ast.StructDef:
		return s.Name
	case *ast.EnumDef:
		return s.Name
	case *ast.LangDef:
		return s.Name
	}
	return ""
}

// typeNameRefs accumulates the VarTypeAST names mentioned by a type
// expression. Pointer types are not followed: a struct may point to
// itself or to a later definition, because only direct name references
// order definitions.
func typeNameRefs(t ast.TypeNode, out map[string]bool) {
	switch tt := t.(type) {
	case *ast.VarTypeAST:
		out[tt.Name] = true
	case *ast.PointerTypeAST:
		// Cycle-breaking: pointed-to names don't need to be defined first.
	case *ast.OptionalTypeAST:
		typeNameRefs(tt.Inner, out)
	case *ast.ArrayTypeAST:
		typeNameRefs(tt.Item, out)
	case *ast.SetTypeAST:
		typeNameRefs(tt.Item, out)
	case *ast.ChannelTypeAST:
		typeNameRefs(tt.Item, out)
	case *ast.TableTypeAST:
		typeNameRefs(tt.Key, out)
		typeNameRefs(tt.Value, out)
	case *ast.FunctionTypeAST:
		for _, arg := range tt.Args {
			if arg.Type != nil {
				typeNameRefs(arg.Type, out)
			}
		}
		if tt.Ret != nil {
			typeNameRefs(tt.Ret, out)
		}
	}
}

// dependsOn returns the names of defined types a definition's fields
// reference directly.
func dependsOn(stmt ast.Node) map[string]bool {
	deps := map[string]bool{}
	switch s := stmt.(type) {
	case *ast.StructDef:
		for _, f := range s.Fields {
			if f.Type != nil {
				typeNameRefs(f.Type, deps)
			}
		}
	case *ast.EnumDef:
		for _, tag := range s.Tags {
			for _, f := range tag.Fields {
				if f.Type != nil {
					typeNameRefs(f.Type, deps)
				}
			}
		}
	}
	return deps
}

// VisitTopologically visits a file's top-level statements in three
// phases, calling visit exactly once per statement:
//
//  1. use statements (and declarations whose value is a use), in source
//     order;
//  2. type definitions, topologically ordered so a definition follows
//     the types its fields name directly;
//  3. everything else, in source order.
func VisitTopologically(statements []ast.Node, visit func(ast.Node)) {
	isUse := func(stmt ast.Node) bool {
		if _, ok := stmt.(*ast.Use); ok {
			return true
		}
		if decl, ok := stmt.(*ast.Declare); ok {
			if _, ok := decl.Value.(*ast.Use); ok {
				return true
			}
		}
		return false
	}

	byName := map[string]ast.Node{}
	var typeDefs []ast.Node
	for _, stmt := range statements {
		if name := definedName(stmt); name != "" {
			byName[name] = stmt
			typeDefs = append(typeDefs, stmt)
		}
	}

	for _, stmt := range statements {
		if isUse(stmt) {
			visit(stmt)
		}
	}

	sorter := toposort.Sorter[ast.Node, string]{Key: func(n ast.Node) string { return definedName(n) }}
	dag := func(n ast.Node) iter.Seq[ast.Node] {
		var children []ast.Node
		for dep := range dependsOn(n) {
			if def, ok := byName[dep]; ok && definedName(def) != definedName(n) {
				children = append(children, def)
			}
		}
		// Deterministic child order keeps emission stable across runs.
		slices.SortFunc(children, func(a, b ast.Node) int {
			switch an, bn := definedName(a), definedName(b); {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		})
		return slices.Values(children)
	}
	for stmt := range sorter.Sort(typeDefs, dag) {
		visit(stmt)
	}

	for _, stmt := range statements {
		if !isUse(stmt) && definedName(stmt) == "" {
			visit(stmt)
		}
	}
}
