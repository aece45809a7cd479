package build

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/check"
	"github.com/tomo-lang/tomoc/internal/parser"
)

// Compiler drives one build: graph discovery, header emission, parallel
// object compilation, and linking.
type Compiler struct {
	Opts  Options
	Graph *Graph
	env   *check.Environment
}

// NewCompiler creates a compiler with the given options.
func NewCompiler(opts Options) *Compiler {
	opts = opts.WithDefaults()
	return &Compiler{
		Opts:  opts,
		Graph: NewGraph(opts),
		env:   check.NewEnvironment(),
	}
}

// moduleEnv builds the per-file environment, keyed on the file's
// identity for symbol mangling.
func (c *Compiler) moduleEnv(path string) (*check.Environment, error) {
	id, err := FileID(path)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(filepath.Base(path), ".tm")
	return c.env.Child(base + "_" + id), nil
}

// TranspileHeaders emits the .h file for every header-stale path. This
// runs serially on the main goroutine because header emission mutates
// the shared type environment; downstream objects are marked stale.
func (c *Compiler) TranspileHeaders() error {
	for _, path := range c.Graph.StalePaths(func(s *Staleness) bool { return s.H }) {
		block, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		env, err := c.moduleEnv(path)
		if err != nil {
			return err
		}
		hPath := BuildFile(path, ".h")
		header, err := c.Opts.Emitter.CompileFileHeader(env, hPath, block)
		if err != nil {
			return fmt.Errorf("emitting header for %s: %w", path, err)
		}
		if err := os.WriteFile(hPath, []byte(header), 0o644); err != nil {
			return err
		}
		c.showCodegen(hPath)
		if s, ok := c.Graph.ToCompile.Get(path); ok {
			s.O = true
		}
		c.Opts.verbosef("Transpiled %s (%s)", hPath, humanize.Bytes(uint64(len(header))))
	}
	return nil
}

// CompileObjects emits stale .c files and compiles every stale object,
// one child C-compiler process per file, all in parallel. Each unit is
// independent: a crash in one child can't corrupt the others or the
// parent.
func (c *Compiler) CompileObjects() error {
	stale := c.Graph.StalePaths(func(s *Staleness) bool { return s.O || s.C || s.H })

	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())
	for _, path := range stale {
		staleness, _ := c.Graph.ToCompile.Get(path)
		group.Go(func() error {
			return c.compileUnit(path, staleness)
		})
	}
	return group.Wait()
}

func (c *Compiler) compileUnit(path string, staleness *Staleness) error {
	start := time.Now()
	cPath := BuildFile(path, ".c")

	if staleness == nil || staleness.C {
		block, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		env, err := c.moduleEnv(path)
		if err != nil {
			return err
		}
		code, err := c.Opts.Emitter.CompileFile(env, block)
		if err != nil {
			return fmt.Errorf("emitting %s: %w", path, err)
		}
		if check.HasMain(block) {
			shim, err := c.entryPointShim(env, block)
			if err != nil {
				return err
			}
			code += shim
		}
		if err := os.WriteFile(cPath, []byte(code), 0o644); err != nil {
			return err
		}
		c.showCodegen(cPath)
	}

	oPath := BuildFile(path, ".o")
	cmd := exec.Command(c.Opts.CC, c.Opts.ccArgs(cPath, oPath)...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("compiling %s: %w", cPath, err)
	}
	if err := os.WriteFile(BuildFile(path, ".config"), []byte(c.Opts.ConfigSummary()), 0o644); err != nil {
		return err
	}
	c.Opts.verbosef("Compiled %s in %s", oPath, time.Since(start).Round(time.Millisecond))
	return nil
}

// entryPointShim appends the parse_and_run$<mangled_main> entry point
// for modules that define main.
func (c *Compiler) entryPointShim(env *check.Environment, block *ast.Block) (string, error) {
	var mainFn *ast.FunctionDef
	for _, stmt := range block.Statements {
		if fn, ok := stmt.(*ast.FunctionDef); ok && fn.Name != nil && fn.Name.Name == "main" {
			mainFn = fn
			break
		}
	}
	mangled := env.ModuleID + "$main"
	return c.Opts.Emitter.CompileCLIArgCall(env, mangled, mainFn, Version)
}

// showCodegen pipes an emitted file through the configured display
// command, for -C/--show-codegen.
func (c *Compiler) showCodegen(path string) {
	if c.Opts.ShowCodegen == "" {
		return
	}
	cmd := exec.Command("sh", "-c", c.Opts.ShowCodegen+" < "+shellQuote(path))
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	_ = cmd.Run()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// LinkExecutable compiles a tiny main-stub C file that calls the
// module's entry-point shim and links it with every object file. The
// link is skipped when the executable is newer than all of its inputs
// and the config matches.
func (c *Compiler) LinkExecutable(rootPath string) (string, error) {
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return "", err
	}
	exePath := strings.TrimSuffix(rootPath, ".tm")
	objects := c.Graph.ObjectFiles()

	inputs := append([]string{}, objects...)
	stale, err := isStaleForAny(exePath, inputs, false)
	if err != nil {
		return "", err
	}
	if !stale && !c.Graph.configOutdated(rootPath) && !c.Opts.ForceRebuild {
		c.Opts.verbosef("Executable %s is up to date", exePath)
		return exePath, nil
	}

	env, err := c.moduleEnv(rootPath)
	if err != nil {
		return "", err
	}
	mangled := strings.ReplaceAll(env.ModuleID+"$main", "$", "_")
	mainStub := fmt.Sprintf(
		"extern void parse_and_run_%s(int argc, char *argv[]);\n"+
			"int main(int argc, char *argv[]) { parse_and_run_%s(argc, argv); return 0; }\n",
		mangled, mangled)
	stubPath := BuildFile(rootPath, ".main.c")
	if err := os.WriteFile(stubPath, []byte(mainStub), 0o644); err != nil {
		return "", err
	}

	args := append([]string{}, c.Opts.CFlags...)
	args = append(args, fmt.Sprintf("-O%d", c.Opts.Optimization), stubPath)
	args = append(args, objects...)
	args = append(args, c.Opts.LDFlags...)
	args = append(args, c.Graph.LinkFlags()...)
	args = append(args, c.Opts.LDLibs...)
	args = append(args, "-o", exePath)

	cmd := exec.Command(c.Opts.CC, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("linking %s: %w", exePath, err)
	}
	c.Opts.logf("Built executable %s", exePath)
	return exePath, nil
}

// LinkSharedLibrary links every module object into a versioned shared
// library lib<name>_<version>.so with a matching soname. If debugedit is
// on PATH, embedded debug paths are rewritten from the build directory
// to the final install directory.
func (c *Compiler) LinkSharedLibrary(libDir, name, version string) (string, error) {
	fullName := libraryFullName(name, version)
	soName := "lib" + fullName + ".so"
	soPath := filepath.Join(libDir, soName)

	args := append([]string{}, c.Opts.CFlags...)
	args = append(args, "-shared", "-Wl,-soname,"+soName)
	if runtime.GOOS == "darwin" {
		args = append(args, "-Wl,-install_name,@rpath/"+soName)
	}
	args = append(args, c.Graph.ObjectFiles()...)
	args = append(args, c.Opts.LDFlags...)
	args = append(args, c.Graph.LinkFlags()...)
	args = append(args, c.Opts.LDLibs...)
	args = append(args, "-o", soPath)

	cmd := exec.Command(c.Opts.CC, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("linking %s: %w", soPath, err)
	}

	if debugedit, err := exec.LookPath("debugedit"); err == nil {
		installDir := filepath.Join(installRoot(c.Opts.Prefix), fullName)
		rewrite := exec.Command(debugedit, "-b", libDir, "-d", installDir, soPath)
		rewrite.Stderr = os.Stderr
		_ = rewrite.Run()
	}

	c.Opts.logf("Built library %s", soPath)
	return soPath, nil
}
