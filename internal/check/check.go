// Package check defines the type-checker boundary the build
// orchestrator drives. Full type checking is an external collaborator;
// the orchestrator only needs an environment it can hand to the emitter,
// created once per compilation and extended as each file's header is
// processed.
package check

import (
	"sync"

	"github.com/tomo-lang/tomoc/internal/ast"
)

// Binding is one name visible in an environment.
type Binding struct {
	Name string
	Type ast.TypeNode
}

// Environment accumulates per-module bindings during header emission.
// Header emission mutates the environment and therefore runs serially;
// code emission only reads it.
type Environment struct {
	mu       sync.RWMutex
	parent   *Environment
	bindings map[string]Binding
	// ModuleID is the mangling prefix for symbols defined by this
	// environment's module.
	ModuleID string
}

// NewEnvironment creates a root environment.
func NewEnvironment() *Environment {
	return &Environment{bindings: map[string]Binding{}}
}

// Child creates a nested scope for one module.
func (e *Environment) Child(moduleID string) *Environment {
	return &Environment{parent: e, bindings: map[string]Binding{}, ModuleID: moduleID}
}

// Bind records a name in this scope.
func (e *Environment) Bind(b Binding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings[b.Name] = b
}

// Lookup resolves a name through the scope chain.
func (e *Environment) Lookup(name string) (Binding, bool) {
	e.mu.RLock()
	b, ok := e.bindings[name]
	e.mu.RUnlock()
	if ok {
		return b, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return Binding{}, false
}

// HasMain reports whether a parsed file defines a main function, which
// decides whether the orchestrator appends the entry-point shim and
// links an executable.
func HasMain(block *ast.Block) bool {
	for _, stmt := range block.Statements {
		if fn, ok := stmt.(*ast.FunctionDef); ok && fn.Name != nil && fn.Name.Name == "main" {
			return true
		}
	}
	return false
}
