// Package cli wires the tomo command line: one flag per documented
// option, resolution of positional source paths, and dispatch into the
// build orchestrator.
package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tomo-lang/tomoc/internal/astutil"
	"github.com/tomo-lang/tomoc/internal/build"
	"github.com/tomo-lang/tomoc/internal/parser"
	"github.com/tomo-lang/tomoc/internal/srcfile"
)

type flags struct {
	transpile     bool
	compileObj    bool
	compileExe    bool
	library       string
	uninstall     string
	install       bool
	optimization  int
	showCodegen   string
	forceRebuild  bool
	sourceMapping bool
	verbose       bool
	quiet         bool
	parseOnly     bool
	prefix        string
	run           string
	cflags        []string
	ldflags       []string
	ldlibs        []string
}

// NewRootCommand builds the tomo command tree.
func NewRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "tomo [flags] files... [-- args...]",
		Short:         "The Tomo compiler",
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &f, args)
		},
	}

	cmd.Flags().BoolVarP(&f.transpile, "transpile", "t", false, "Stop after writing .c and .h files")
	cmd.Flags().BoolVarP(&f.compileObj, "compile-obj", "c", false, "Stop after producing .o files")
	cmd.Flags().BoolVarP(&f.compileExe, "compile-exe", "e", false, "Produce an executable but do not run it")
	cmd.Flags().StringVarP(&f.library, "library", "L", "", "Build a library rooted at PATH")
	cmd.Flags().StringVarP(&f.uninstall, "uninstall", "u", "", "Remove installed library NAME")
	cmd.Flags().BoolVarP(&f.install, "install", "I", false, "After building, install to the standard prefix")
	cmd.Flags().IntVarP(&f.optimization, "optimization", "O", 2, "C optimization level")
	cmd.Flags().StringVarP(&f.showCodegen, "show-codegen", "C", "", "Pipe emitted .h and .c through CMD for display")
	cmd.Flags().BoolVarP(&f.forceRebuild, "force-rebuild", "f", false, "Ignore staleness, rebuild everything")
	cmd.Flags().BoolVarP(&f.sourceMapping, "source-mapping", "m", true, "Emit #line directives")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Quiet output")
	cmd.Flags().BoolVarP(&f.parseOnly, "parse", "p", false, "Parse the files and dump their ASTs")
	cmd.Flags().StringVar(&f.prefix, "prefix", build.DefaultPrefix, "Install prefix")
	cmd.Flags().StringVarP(&f.run, "run", "r", "", "Execute an installed program by name")
	cmd.Flags().StringSliceVar(&f.cflags, "cflags", nil, "Extra C compiler flags")
	cmd.Flags().StringSliceVar(&f.ldflags, "ldflags", nil, "Extra linker flags")
	cmd.Flags().StringSliceVar(&f.ldlibs, "ldlibs", nil, "Extra link libraries")

	return cmd
}

func (f *flags) options() build.Options {
	return build.Options{
		CFlags:        f.cflags,
		LDFlags:       f.ldflags,
		LDLibs:        f.ldlibs,
		Optimization:  f.optimization,
		SourceMapping: f.sourceMapping,
		ForceRebuild:  f.forceRebuild,
		Verbose:       f.verbose,
		Quiet:         f.quiet,
		ShowCodegen:   f.showCodegen,
		Prefix:        f.prefix,
	}.WithDefaults()
}

// resolveSource rewrites a directory D to D/D.tm and resolves to an
// absolute path.
func resolveSource(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err == nil && info.IsDir() {
		arg = filepath.Join(arg, filepath.Base(filepath.Clean(arg))+".tm")
	}
	return filepath.Abs(arg)
}

// splitProgramArgs separates source files from the `-- args...` passed
// to the compiled program.
func splitProgramArgs(args []string) (sources, programArgs []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

func run(cmd *cobra.Command, f *flags, args []string) error {
	opts := f.options()

	switch {
	case f.uninstall != "":
		return build.NewCompiler(opts).UninstallLibrary(f.uninstall)

	case f.run != "":
		program, err := build.NewCompiler(opts).InstalledProgram(f.run)
		if err != nil {
			return err
		}
		_, programArgs := splitProgramArgs(args)
		return execProgram(program, programArgs)

	case f.library != "":
		c := build.NewCompiler(opts)
		if _, err := c.BuildLibrary(f.library); err != nil {
			return err
		}
		if f.install {
			return c.InstallLibrary(f.library)
		}
		return nil
	}

	sources, programArgs := splitProgramArgs(args)
	if len(sources) == 0 {
		return fmt.Errorf("no input files (try --help)")
	}

	for _, arg := range sources {
		path, err := resolveSource(arg)
		if err != nil {
			return err
		}

		if f.parseOnly {
			block, err := parser.ParseFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), astutil.ToXML(block))
			continue
		}

		c := build.NewCompiler(opts)
		if err := c.Graph.AddRoot(path); err != nil {
			return err
		}
		if err := c.TranspileHeaders(); err != nil {
			return err
		}
		if f.transpile {
			continue
		}
		if err := c.CompileObjects(); err != nil {
			return err
		}
		if f.compileObj {
			continue
		}
		exe, err := c.LinkExecutable(path)
		if err != nil {
			return err
		}
		if f.compileExe {
			continue
		}
		if err := execProgram(exe, programArgs); err != nil {
			return err
		}
	}
	return nil
}

// execProgram runs a compiled program, forwarding its exit status.
func execProgram(program string, args []string) error {
	proc := exec.Command(program, args...)
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr
	return proc.Run()
}

// Main is the process entry point: it executes the command tree and
// maps errors to exit code 1, rendering parse errors with their source
// excerpt.
func Main() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		var parseErr *parser.Error
		if errors.As(err, &parseErr) {
			fmt.Fprint(os.Stderr, parseErr.Excerpt(srcfile.UseColor()))
		} else if useColor := srcfile.UseColor(); useColor {
			fmt.Fprintf(os.Stderr, "\x1b[31;1m%s\x1b[m\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

