package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BuildDir returns the .build directory alongside a source file,
// creating it if needed.
func BuildDir(sourcePath string) (string, error) {
	dir := filepath.Join(filepath.Dir(sourcePath), ".build")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating build directory: %w", err)
	}
	return dir, nil
}

// BuildFile maps a source path to one of its build outputs:
// dirname(P)/.build/basename(P)<ext> for ".h", ".c", ".o", ".id", and
// ".config".
func BuildFile(sourcePath, ext string) string {
	return filepath.Join(filepath.Dir(sourcePath), ".build", filepath.Base(sourcePath)+ext)
}

// FileID returns the stable per-file identity string, generating and
// persisting a random 8-character alphanumeric suffix the first time a
// file is seen. The identity participates in symbol mangling so headers
// from different modules with overlapping type names don't collide.
func FileID(sourcePath string) (string, error) {
	idPath := BuildFile(sourcePath, ".id")
	if data, err := os.ReadFile(idPath); err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if _, err := BuildDir(sourcePath); err != nil {
		return "", err
	}
	id := newFileID()
	if err := os.WriteFile(idPath, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing file identity: %w", err)
	}
	return id, nil
}

// newFileID derives an 8-character alphanumeric identity from a random
// UUID.
func newFileID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:8]
}

// mtime returns a file's modification time in nanoseconds, or ok=false
// when the file doesn't exist.
func mtime(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.ModTime().UnixNano(), true
}

// isStale reports whether target is older than relativeTo. A missing
// target is stale unless ignoreMissing is set, in which case it is not;
// a missing relativeTo is ignored when ignoreMissing, an error otherwise.
// On every platform, anything older than the compiler binary itself is
// stale, so rebuilding the compiler invalidates old outputs.
func isStale(target, relativeTo string, ignoreMissing bool) (bool, error) {
	targetTime, ok := mtime(target)
	if !ok {
		if ignoreMissing {
			return false, nil
		}
		return true, nil
	}
	if compilerTime, ok := compilerMtime(); ok && targetTime < compilerTime {
		return true, nil
	}
	relTime, ok := mtime(relativeTo)
	if !ok {
		if ignoreMissing {
			return false, nil
		}
		return false, fmt.Errorf("file doesn't exist: %s", relativeTo)
	}
	return targetTime < relTime, nil
}

func isStaleForAny(target string, relativeTo []string, ignoreMissing bool) (bool, error) {
	for _, r := range relativeTo {
		stale, err := isStale(target, r, ignoreMissing)
		if err != nil || stale {
			return stale, err
		}
	}
	return false, nil
}

var compilerMtimeFn = defaultCompilerMtime

func defaultCompilerMtime() (int64, bool) {
	exe, err := os.Executable()
	if err != nil {
		return 0, false
	}
	return mtime(exe)
}

func compilerMtime() (int64, bool) {
	return compilerMtimeFn()
}
