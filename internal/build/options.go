// Package build is the compile orchestrator: it walks a root .tm file's
// use graph, computes per-file staleness, emits headers serially and C
// sources in parallel, drives the C compiler in child processes, and
// links executables and versioned shared libraries.
package build

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomo-lang/tomoc/internal/emit"
)

// Version is the compiler's version string, used in install paths and
// --version output.
const Version = "v0.1"

// DefaultPrefix is where libraries install when --prefix is not given.
const DefaultPrefix = "/usr/local"

// Options carries the build-wide settings assembled from the CLI.
type Options struct {
	CC            string
	CFlags        []string
	LDFlags       []string
	LDLibs        []string
	Optimization  int
	SourceMapping bool
	ForceRebuild  bool
	Verbose       bool
	Quiet         bool
	ShowCodegen   string
	Prefix        string

	Emitter emit.Emitter
}

// WithDefaults fills unset fields with the standard toolchain defaults.
func (o Options) WithDefaults() Options {
	if o.CC == "" {
		if cc := os.Getenv("CC"); cc != "" {
			o.CC = cc
		} else {
			o.CC = "cc"
		}
	}
	if o.Optimization == 0 {
		o.Optimization = 2
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Emitter == nil {
		o.Emitter = &emit.Stub{SourceMapping: o.SourceMapping}
	}
	return o
}

// configSummary is the serialized form of every flag that affects
// compiled output; a change to any field forces .c files stale via the
// .config comparison.
type configSummary struct {
	CC            string   `yaml:"cc"`
	CFlags        []string `yaml:"cflags,omitempty"`
	Optimization  int      `yaml:"optimization"`
	SourceMapping bool     `yaml:"source_mapping"`
}

// ConfigSummary renders the compile-flag summary written to each .config
// file.
func (o Options) ConfigSummary() string {
	out, err := yaml.Marshal(configSummary{
		CC:            o.CC,
		CFlags:        o.CFlags,
		Optimization:  o.Optimization,
		SourceMapping: o.SourceMapping,
	})
	if err != nil {
		panic(fmt.Sprintf("build: marshaling config summary: %v", err))
	}
	return string(out)
}

// ccArgs assembles the C compiler's argument list for one object file.
func (o Options) ccArgs(cPath, oPath string) []string {
	args := append([]string{}, o.CFlags...)
	args = append(args, fmt.Sprintf("-O%d", o.Optimization), "-c", cPath, "-o", oPath)
	return args
}

func (o Options) logf(format string, args ...any) {
	if o.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func (o Options) verbosef(format string, args ...any) {
	if !o.Verbose || o.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
