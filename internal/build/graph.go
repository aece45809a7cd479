package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/btree"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/parser"
)

// Staleness tracks which build artifacts of one source file must be
// regenerated.
type Staleness struct {
	H bool // header older than sources
	C bool // C source older than sources, or compile config changed
	O bool // object older than .c/.h, or either of those stale
}

// Graph is the dependency graph for one build invocation: every
// discovered compile unit keyed by absolute path, plus the accumulated
// link-time specs. The btree keeps iteration deterministic without a
// separate sort.
type Graph struct {
	opts      Options
	ToCompile btree.Map[string, *Staleness]
	ToLink    btree.Map[string, struct{}]
	// ExtraInputs are .c/.S files referenced by use statements, passed
	// through to the link step verbatim.
	ExtraInputs []string
}

// NewGraph creates an empty graph for the given options.
func NewGraph(opts Options) *Graph {
	return &Graph{opts: opts.WithDefaults()}
}

// staleness computes a file's initial staleness from its own artifacts,
// before local dependencies are considered.
func (g *Graph) staleness(path string) (*Staleness, error) {
	if g.opts.ForceRebuild {
		return &Staleness{H: true, C: true, O: true}, nil
	}
	hFile := BuildFile(path, ".h")
	cFile := BuildFile(path, ".c")
	oFile := BuildFile(path, ".o")
	idFile := BuildFile(path, ".id")
	modulesINI := filepath.Join(filepath.Dir(path), "modules.ini")

	var s Staleness
	var err error
	if s.H, err = isStaleForAny(hFile, []string{modulesINI}, true); err != nil {
		return nil, err
	}
	if !s.H {
		if s.H, err = isStaleForAny(hFile, []string{path, idFile}, false); err != nil {
			return nil, err
		}
	}
	if s.C, err = isStaleForAny(cFile, []string{modulesINI}, true); err != nil {
		return nil, err
	}
	if !s.C {
		if s.C, err = isStaleForAny(cFile, []string{path, idFile}, false); err != nil {
			return nil, err
		}
	}
	if !s.C && g.configOutdated(path) {
		s.C = true
	}
	s.O = s.C || s.H
	if !s.O {
		if s.O, err = isStaleForAny(oFile, []string{cFile, hFile}, false); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// configOutdated reports whether a file's recorded .config differs from
// the current compile-flag summary.
func (g *Graph) configOutdated(path string) bool {
	data, err := os.ReadFile(BuildFile(path, ".config"))
	if err != nil {
		return true
	}
	return string(data) != g.opts.ConfigSummary()
}

// AddRoot discovers path and its transitive use dependencies, recording
// staleness for each. Safe to call for several roots; files already
// discovered are skipped.
func (g *Graph) AddRoot(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return g.add(path)
}

func (g *Graph) add(path string) error {
	if _, done := g.ToCompile.Get(path); done {
		return nil
	}
	if filepath.Ext(path) != ".tm" {
		return fmt.Errorf("not a .tm source file: %s", path)
	}
	if _, err := FileID(path); err != nil {
		return err
	}
	staleness, err := g.staleness(path)
	if err != nil {
		return err
	}
	g.ToCompile.Set(path, staleness)

	block, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	for _, stmt := range block.Statements {
		use, ok := stmt.(*ast.Use)
		if !ok {
			if decl, isDecl := stmt.(*ast.Declare); isDecl {
				use, ok = decl.Value.(*ast.Use)
			}
			if !ok {
				continue
			}
		}
		if err := g.addUse(path, staleness, use); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) addUse(path string, staleness *Staleness, use *ast.Use) error {
	switch use.What {
	case ast.UseLocal:
		dep := use.Path
		if !filepath.IsAbs(dep) {
			dep = filepath.Join(filepath.Dir(path), dep)
		}
		dep = filepath.Clean(dep)
		if _, err := os.Stat(dep); err != nil {
			return fmt.Errorf("%s: not a valid file: %s", use.Span.Position(), dep)
		}
		if !g.opts.ForceRebuild {
			if stale, _ := isStale(BuildFile(path, ".h"), dep, false); stale {
				staleness.H = true
			}
			if stale, _ := isStale(BuildFile(path, ".c"), dep, false); stale {
				staleness.C = true
			}
			if staleness.C || staleness.H {
				staleness.O = true
			}
		}
		return g.add(dep)

	case ast.UseModule:
		name, version := use.Path, ""
		fullName := libraryFullName(name, version)
		moduleDir := filepath.Join(installRoot(g.opts.Prefix), fullName)
		lib := fmt.Sprintf("-Wl,-rpath,'%s' '%s/lib%s.so'", moduleDir, moduleDir, fullName)
		g.ToLink.Set(lib, struct{}{})

		children, err := doublestar.FilepathGlob(filepath.Join(moduleDir, "[!._0-9]*.tm"))
		if err != nil {
			return fmt.Errorf("%s: globbing module %s: %w", use.Span.Position(), name, err)
		}
		if len(children) == 0 {
			return fmt.Errorf("%s: no installed module named %q under %s", use.Span.Position(), name, installRoot(g.opts.Prefix))
		}
		for _, child := range children {
			if err := g.add(child); err != nil {
				return err
			}
		}
		return nil

	case ast.UseSharedObject:
		g.ToLink.Set(use.Path, struct{}{})
		return nil

	case ast.UseAsm, ast.UseCCode:
		input := use.Path
		if !filepath.IsAbs(input) {
			input = filepath.Join(filepath.Dir(path), input)
		}
		g.ExtraInputs = append(g.ExtraInputs, filepath.Clean(input))
		return nil

	case ast.UseHeader:
		// No orchestration effect.
		return nil
	}
	return nil
}

// StalePaths returns every path whose artifact of the given kind is
// stale, in deterministic order.
func (g *Graph) StalePaths(pick func(*Staleness) bool) []string {
	var out []string
	g.ToCompile.Scan(func(path string, s *Staleness) bool {
		if pick(s) {
			out = append(out, path)
		}
		return true
	})
	return out
}

// Paths returns every discovered compile unit in deterministic order.
func (g *Graph) Paths() []string {
	return g.StalePaths(func(*Staleness) bool { return true })
}

// ObjectFiles returns the .o outputs for every compile unit.
func (g *Graph) ObjectFiles() []string {
	var out []string
	for _, path := range g.Paths() {
		out = append(out, BuildFile(path, ".o"))
	}
	return append(out, g.ExtraInputs...)
}

// LinkFlags returns the accumulated link specs in deterministic order.
func (g *Graph) LinkFlags() []string {
	var out []string
	g.ToLink.Scan(func(flag string, _ struct{}) bool {
		out = append(out, flag)
		return true
	})
	return out
}
