package build

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strconv"
	"syscall"
)

// ownerCommand wraps a command with `sudo -u <owner>` (or `doas -u`)
// when the prefix directory is owned by a different user, so installs
// into system prefixes work without running the whole compiler as root.
func ownerCommand(prefix string, name string, args ...string) *exec.Cmd {
	owner, ok := prefixOwner(prefix)
	if !ok {
		return exec.Command(name, args...)
	}
	current, err := user.Current()
	if err == nil && current.Username == owner {
		return exec.Command(name, args...)
	}
	if sudo, err := exec.LookPath("sudo"); err == nil {
		return exec.Command(sudo, append([]string{"-u", owner, name}, args...)...)
	}
	if doas, err := exec.LookPath("doas"); err == nil {
		return exec.Command(doas, append([]string{"-u", owner, name}, args...)...)
	}
	return exec.Command(name, args...)
}

// prefixOwner returns the username owning the prefix directory.
func prefixOwner(prefix string) (string, bool) {
	info, err := os.Stat(prefix)
	if err != nil {
		return "", false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", false
	}
	owner, err := user.LookupId(strconv.FormatUint(uint64(stat.Uid), 10))
	if err != nil {
		return "", false
	}
	return owner.Username, true
}

func runOwned(prefix string, name string, args ...string) error {
	cmd := ownerCommand(prefix, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

// InstallLibrary copies a built library's source tree (including its
// .build directory and shared object) into the versioned install
// layout: <prefix>/share/tomo_<version>/installed/<name>_<version>/.
func (c *Compiler) InstallLibrary(libDir string) error {
	libDir, err := filepath.Abs(libDir)
	if err != nil {
		return err
	}
	name := filepath.Base(libDir)
	version := LibraryVersion(libDir)
	dest := filepath.Join(installRoot(c.Opts.Prefix), libraryFullName(name, version))

	if err := runOwned(c.Opts.Prefix, "mkdir", "-p", filepath.Dir(dest)); err != nil {
		return err
	}
	if _, err := os.Stat(dest); err == nil {
		if err := runOwned(c.Opts.Prefix, "rm", "-rf", dest); err != nil {
			return err
		}
	}
	if err := runOwned(c.Opts.Prefix, "cp", "-r", libDir, dest); err != nil {
		return err
	}
	c.Opts.logf("Installed %s to %s", name, dest)
	return nil
}

// UninstallLibrary removes an installed library by name (with or
// without an explicit version suffix).
func (c *Compiler) UninstallLibrary(name string) error {
	root := installRoot(c.Opts.Prefix)
	matches, err := filepath.Glob(filepath.Join(root, name+"_*"))
	if err != nil {
		return err
	}
	if target := filepath.Join(root, name); dirExists(target) {
		matches = append(matches, target)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no installed library named %q under %s", name, root)
	}
	for _, dir := range matches {
		if err := runOwned(c.Opts.Prefix, "rm", "-rf", dir); err != nil {
			return err
		}
		c.Opts.logf("Uninstalled %s", dir)
	}
	return nil
}

// InstalledProgram resolves the path of an installed program by name,
// for tomo -r.
func (c *Compiler) InstalledProgram(name string) (string, error) {
	root := installRoot(c.Opts.Prefix)
	matches, _ := filepath.Glob(filepath.Join(root, name+"_*", name))
	if len(matches) == 0 {
		matches, _ = filepath.Glob(filepath.Join(root, name, name))
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no installed program named %q under %s", name, root)
	}
	return matches[len(matches)-1], nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// BuildLibrary builds every .tm file in a library directory and links
// the versioned shared object.
func (c *Compiler) BuildLibrary(libDir string) (string, error) {
	libDir, err := filepath.Abs(libDir)
	if err != nil {
		return "", err
	}
	sources, err := filepath.Glob(filepath.Join(libDir, "[!._0-9]*.tm"))
	if err != nil {
		return "", err
	}
	if len(sources) == 0 {
		return "", fmt.Errorf("no .tm files in %s", libDir)
	}
	for _, src := range sources {
		if err := c.Graph.AddRoot(src); err != nil {
			return "", err
		}
	}
	if err := c.TranspileHeaders(); err != nil {
		return "", err
	}
	if err := c.CompileObjects(); err != nil {
		return "", err
	}
	return c.LinkSharedLibrary(libDir, filepath.Base(libDir), LibraryVersion(libDir))
}
