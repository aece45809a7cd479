package build

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LibraryVersion parses a library's version from the first "## " heading
// in its CHANGES.md, defaulting to "v0.0".
func LibraryVersion(libDir string) string {
	f, err := os.Open(filepath.Join(libDir, "CHANGES.md"))
	if err != nil {
		return "v0.0"
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if rest, ok := strings.CutPrefix(line, "## "); ok {
			if version := strings.TrimSpace(rest); version != "" {
				return version
			}
		}
	}
	return "v0.0"
}

// libraryFullName is "<name>_<version>" unless the version is empty.
func libraryFullName(name, version string) string {
	if version == "" {
		return name
	}
	return name + "_" + version
}

// installRoot is "<prefix>/share/tomo_<compiler-version>/installed".
func installRoot(prefix string) string {
	return filepath.Join(prefix, "share", "tomo_"+Version, "installed")
}
