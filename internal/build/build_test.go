package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// The test binary's own mtime must not interfere with artifact
	// staleness.
	compilerMtimeFn = func() (int64, bool) { return 0, false }
}

// fakeCC installs a stand-in C compiler that just creates its -o output.
func fakeCC(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "cc")
	body := `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
[ -n "$out" ] && : > "$out"
exit 0
`
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{CC: fakeCC(t), Quiet: true}.WithDefaults()
}

func TestBuildFileLayout(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/src/.build/main.tm.h", BuildFile("/src/main.tm", ".h"))
	assert.Equal(t, "/src/.build/main.tm.o", BuildFile("/src/main.tm", ".o"))
	assert.Equal(t, "/src/.build/main.tm.config", BuildFile("/src/main.tm", ".config"))
}

func TestFileIDStable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := writeSource(t, dir, "x.tm", "func main()\n    pass\n")
	id1, err := FileID(src)
	require.NoError(t, err)
	assert.Len(t, id1, 8)
	id2, err := FileID(src)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "identity must persist across invocations")
}

func TestDependencyGraphNoDuplicates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "b.tm", "func helper()\n    pass\n")
	writeSource(t, dir, "c.tm", "use ./b.tm\nfunc other()\n    pass\n")
	a := writeSource(t, dir, "a.tm", "use ./b.tm\nuse ./c.tm\nfunc main()\n    pass\n")

	g := NewGraph(testOptions(t))
	require.NoError(t, g.AddRoot(a))

	paths := g.Paths()
	require.Len(t, paths, 3, "a, b, c each appear exactly once, got %v", paths)
}

func TestMissingLocalDependency(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeSource(t, dir, "a.tm", "use ./missing.tm\nfunc main()\n    pass\n")
	g := NewGraph(testOptions(t))
	assert.Error(t, g.AddRoot(a))
}

func TestFreshBuildIsAllStale(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeSource(t, dir, "a.tm", "func main()\n    pass\n")
	g := NewGraph(testOptions(t))
	require.NoError(t, g.AddRoot(a))
	s, ok := g.ToCompile.Get(mustAbs(t, a))
	require.True(t, ok)
	assert.True(t, s.H)
	assert.True(t, s.C)
	assert.True(t, s.O)
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func TestSecondBuildIsNoOp(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	opts := testOptions(t)
	a := writeSource(t, dir, "main.tm", "func main()\n    pass\n")

	c := NewCompiler(opts)
	require.NoError(t, c.Graph.AddRoot(a))
	require.NoError(t, c.TranspileHeaders())
	require.NoError(t, c.CompileObjects())

	// Artifacts must exist and be no older than their inputs.
	for _, ext := range []string{".h", ".c", ".o", ".config"} {
		info, err := os.Stat(BuildFile(a, ext))
		require.NoError(t, err, "missing %s artifact", ext)
		src, err := os.Stat(a)
		require.NoError(t, err)
		assert.False(t, info.ModTime().Before(src.ModTime()), "%s artifact older than source", ext)
	}

	second := NewCompiler(opts)
	require.NoError(t, second.Graph.AddRoot(a))
	assert.Empty(t, second.Graph.StalePaths(func(s *Staleness) bool { return s.H || s.C || s.O }),
		"an unchanged tree must recompile nothing")
}

func TestTouchedDependencyPropagates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	opts := testOptions(t)
	b := writeSource(t, dir, "b.tm", "func helper()\n    pass\n")
	a := writeSource(t, dir, "a.tm", "use ./b.tm\nfunc main()\n    pass\n")

	c := NewCompiler(opts)
	require.NoError(t, c.Graph.AddRoot(a))
	require.NoError(t, c.TranspileHeaders())
	require.NoError(t, c.CompileObjects())

	// Touch b.tm: both b and a must go stale.
	touched := time.Now().Add(50 * time.Millisecond)
	require.NoError(t, os.Chtimes(b, touched, touched))

	second := NewCompiler(opts)
	require.NoError(t, second.Graph.AddRoot(a))
	stale := second.Graph.StalePaths(func(s *Staleness) bool { return s.C })
	assert.Contains(t, stale, mustAbs(t, a))
	assert.Contains(t, stale, mustAbs(t, b))

	// Let the touched timestamp pass so the rebuild's outputs are newer.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, second.TranspileHeaders())
	require.NoError(t, second.CompileObjects())

	third := NewCompiler(opts)
	require.NoError(t, third.Graph.AddRoot(a))
	assert.Empty(t, third.Graph.StalePaths(func(s *Staleness) bool { return s.H || s.C || s.O }),
		"rebuild after touch must converge to a no-op")
}

func TestConfigChangeForcesRebuild(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	opts := testOptions(t)
	a := writeSource(t, dir, "main.tm", "func main()\n    pass\n")

	c := NewCompiler(opts)
	require.NoError(t, c.Graph.AddRoot(a))
	require.NoError(t, c.TranspileHeaders())
	require.NoError(t, c.CompileObjects())

	changed := opts
	changed.Optimization = 3
	second := NewCompiler(changed)
	require.NoError(t, second.Graph.AddRoot(a))
	stale := second.Graph.StalePaths(func(s *Staleness) bool { return s.C })
	assert.Contains(t, stale, mustAbs(t, a), "changing optimization must force .c stale")
}

func TestForceRebuild(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	opts := testOptions(t)
	a := writeSource(t, dir, "main.tm", "func main()\n    pass\n")

	c := NewCompiler(opts)
	require.NoError(t, c.Graph.AddRoot(a))
	require.NoError(t, c.TranspileHeaders())
	require.NoError(t, c.CompileObjects())

	forced := opts
	forced.ForceRebuild = true
	second := NewCompiler(forced)
	require.NoError(t, second.Graph.AddRoot(a))
	stale := second.Graph.StalePaths(func(s *Staleness) bool { return s.H && s.C && s.O })
	assert.Contains(t, stale, mustAbs(t, a))
}

func TestLinkExecutable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	opts := testOptions(t)
	a := writeSource(t, dir, "prog.tm", "func main()\n    pass\n")

	c := NewCompiler(opts)
	require.NoError(t, c.Graph.AddRoot(a))
	require.NoError(t, c.TranspileHeaders())
	require.NoError(t, c.CompileObjects())

	exe, err := c.LinkExecutable(a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mustAbs(t, dir), "prog"), exe)
	_, err = os.Stat(exe)
	assert.NoError(t, err)
}

func TestConfigSummaryChangesWithFlags(t *testing.T) {
	t.Parallel()
	base := Options{CC: "cc"}.WithDefaults()
	changedOpt := base
	changedOpt.Optimization = 3
	changedCC := base
	changedCC.CC = "clang"
	assert.NotEqual(t, base.ConfigSummary(), changedOpt.ConfigSummary())
	assert.NotEqual(t, base.ConfigSummary(), changedCC.ConfigSummary())
	assert.Equal(t, base.ConfigSummary(), Options{CC: "cc"}.WithDefaults().ConfigSummary())
}

func TestLibraryVersion(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	assert.Equal(t, "v0.0", LibraryVersion(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGES.md"),
		[]byte("# Changes\n\n## v1.4\n\n- stuff\n\n## v1.3\n"), 0o644))
	assert.Equal(t, "v1.4", LibraryVersion(dir))
}

func TestUseSharedObjectAddsLinkFlag(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeSource(t, dir, "a.tm", "use -lm\nfunc main()\n    pass\n")
	g := NewGraph(testOptions(t))
	require.NoError(t, g.AddRoot(a))
	assert.Contains(t, g.LinkFlags(), "-lm")
}

func TestUseHeaderHasNoOrchestrationEffect(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeSource(t, dir, "a.tm", "use stdio.h\nfunc main()\n    pass\n")
	g := NewGraph(testOptions(t))
	require.NoError(t, g.AddRoot(a))
	assert.Len(t, g.Paths(), 1)
	assert.Empty(t, g.LinkFlags())
}
