package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Base(dir)
	inner := filepath.Join(dir, name+".tm")
	require.NoError(t, os.WriteFile(inner, []byte("func main()\n    pass\n"), 0o644))

	resolved, err := resolveSource(dir)
	require.NoError(t, err)
	assert.Equal(t, inner, resolved)
}

func TestResolveSourcePlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.tm")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	resolved, err := resolveSource(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}

func TestSplitProgramArgs(t *testing.T) {
	t.Parallel()
	sources, rest := splitProgramArgs([]string{"a.tm", "--", "x", "y"})
	assert.Equal(t, []string{"a.tm"}, sources)
	assert.Equal(t, []string{"x", "y"}, rest)

	sources, rest = splitProgramArgs([]string{"a.tm", "b.tm"})
	assert.Equal(t, []string{"a.tm", "b.tm"}, sources)
	assert.Empty(t, rest)
}

func TestFlagsRegistered(t *testing.T) {
	t.Parallel()
	cmd := NewRootCommand()
	for _, name := range []string{
		"transpile", "compile-obj", "compile-exe", "library", "uninstall",
		"install", "optimization", "show-codegen", "force-rebuild",
		"source-mapping", "verbose", "quiet", "parse", "prefix", "run",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing --%s", name)
	}
	assert.Equal(t, "2", cmd.Flags().Lookup("optimization").DefValue)
	assert.Equal(t, "true", cmd.Flags().Lookup("source-mapping").DefValue)
}

func TestNoInputFilesIsError(t *testing.T) {
	t.Parallel()
	cmd := NewRootCommand()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
