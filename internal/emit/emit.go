// Package emit defines the AST-to-C emitter boundary consumed by the
// build orchestrator, plus a minimal reference emitter sufficient to
// drive the orchestrator end to end. The real emitter's generated-C
// choices are out of scope; the orchestrator only depends on this
// interface.
package emit

import (
	"fmt"
	"strings"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/check"
)

// Emitter turns a parsed, checked module into C source text.
type Emitter interface {
	// CompileFileHeader emits the module's .h content. Called serially,
	// in dependency order, because it extends env.
	CompileFileHeader(env *check.Environment, resolvedPath string, file *ast.Block) (string, error)
	// CompileFile emits the module's .c content.
	CompileFile(env *check.Environment, file *ast.Block) (string, error)
	// CompileStatement emits one statement; the orchestrator's
	// source-mapping wrapper prepends #line directives around it.
	CompileStatement(env *check.Environment, stmt ast.Node) (string, error)
	// CompileCLIArgCall emits the tomo_parse_args call for main.
	CompileCLIArgCall(env *check.Environment, mainMangled string, mainFn *ast.FunctionDef, version string) (string, error)
}

// WithSourceInfo prepends the "\n#line <n>\n" directive for a statement
// whose source location is known; used when source mapping is on.
func WithSourceInfo(stmt ast.Node, code string) string {
	span := stmt.NodeSpan()
	if span.File == nil || code == "" {
		return code
	}
	line := span.File.LineNumber(span.Start)
	return fmt.Sprintf("\n#line %d\n%s", line, code)
}

// Stub is a trivial Emitter that produces placeholder C keyed on the
// module's statements. It keeps the build pipeline (staleness, forked
// compilation, linking) fully testable without the real code generator.
type Stub struct {
	// SourceMapping controls whether CompileFile prepends #line
	// directives to statements.
	SourceMapping bool
}

func mangle(moduleID, name string) string {
	return strings.NewReplacer("-", "_", ".", "_", "/", "_").Replace(moduleID) + "$" + name
}

// CompileFileHeader declares one symbol per top-level definition.
func (s *Stub) CompileFileHeader(env *check.Environment, resolvedPath string, file *ast.Block) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// Generated header for %s\n#pragma once\n", resolvedPath)
	for _, stmt := range file.Statements {
		if fn, ok := stmt.(*ast.FunctionDef); ok && fn.Name != nil {
			symbol := mangle(env.ModuleID, fn.Name.Name)
			env.Bind(check.Binding{Name: fn.Name.Name})
			fmt.Fprintf(&sb, "void %s(void);\n", strings.ReplaceAll(symbol, "$", "_"))
		}
	}
	return sb.String(), nil
}

// CompileFile emits one stub function body per definition.
func (s *Stub) CompileFile(env *check.Environment, file *ast.Block) (string, error) {
	var sb strings.Builder
	sb.WriteString("#include <stdio.h>\n")
	for _, stmt := range file.Statements {
		code, err := s.CompileStatement(env, stmt)
		if err != nil {
			return "", err
		}
		if s.SourceMapping {
			code = WithSourceInfo(stmt, code)
		}
		sb.WriteString(code)
	}
	return sb.String(), nil
}

// CompileStatement emits a placeholder fragment for one statement.
func (s *Stub) CompileStatement(env *check.Environment, stmt ast.Node) (string, error) {
	fn, ok := stmt.(*ast.FunctionDef)
	if !ok || fn.Name == nil {
		return "", nil
	}
	symbol := strings.ReplaceAll(mangle(env.ModuleID, fn.Name.Name), "$", "_")
	return fmt.Sprintf("void %s(void) {}\n", symbol), nil
}

// CompileCLIArgCall emits the entry-point shim body for main.
func (s *Stub) CompileCLIArgCall(env *check.Environment, mainMangled string, mainFn *ast.FunctionDef, version string) (string, error) {
	symbol := strings.ReplaceAll(mainMangled, "$", "_")
	return fmt.Sprintf("void parse_and_run_%s(int argc, char *argv[]) { (void)argc; (void)argv; %s(); }\n", symbol, symbol), nil
}

var _ Emitter = (*Stub)(nil)
