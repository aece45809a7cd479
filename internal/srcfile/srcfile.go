// Package srcfile loads source files into line-indexed immutable buffers.
//
// Loaded files are memoized by absolute path, so the parser, the build
// orchestrator, and error reporting all observe the same File value for a
// given path. Line and column numbers are 1-based; columns count bytes.
package srcfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// File is a loaded source file: an absolute filename, its immutable text,
// and a precomputed table of line-start byte offsets.
type File struct {
	// Filename is the absolute path the file was loaded from, or a
	// "<name>" pseudo-path for spoofed in-memory files.
	Filename string
	// Text is the raw file contents. It must not be mutated.
	Text string

	// lines[i] is the zero-based byte offset at which line i+1 begins.
	// lines[0] is always 0.
	lines []int
}

var (
	loadMu sync.Mutex
	loaded = map[string]*File{}
)

// Load reads the file at the given path, resolving it to an absolute path
// first. Repeated loads of the same path return the same *File.
func Load(filename string) (*File, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", filename, err)
	}
	loadMu.Lock()
	defer loadMu.Unlock()
	if f, ok := loaded[abs]; ok {
		return f, nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	f := newFile(abs, string(data))
	loaded[abs] = f
	return f, nil
}

// Spoof wraps an in-memory string as a File without touching the
// filesystem. Spoofed names conventionally start with "<" (e.g.
// "<repl>") so downstream caches can tell them apart from real paths.
func Spoof(name, text string) *File {
	return newFile(name, text)
}

func newFile(name, text string) *File {
	f := &File{Filename: name, Text: text, lines: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

// NumLines returns how many lines the file has. A trailing newline does
// not start a new line unless followed by more text.
func (f *File) NumLines() int {
	n := len(f.lines)
	if n > 1 && f.lines[n-1] == len(f.Text) {
		return n - 1
	}
	return n
}

// Line returns the text of the 1-based line n, without its trailing
// newline. Out-of-range lines return "".
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	start := f.lines[n-1]
	end := len(f.Text)
	if n < len(f.lines) {
		end = f.lines[n] - 1
	}
	if end > len(f.Text) {
		end = len(f.Text)
	}
	return f.Text[start:end]
}

// LineNumber returns the 1-based line containing the given byte offset.
func (f *File) LineNumber(offset int) int {
	return sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i] > offset
	})
}

// LineColumn returns the 1-based byte column of the given offset within
// its line.
func (f *File) LineColumn(offset int) int {
	line := f.LineNumber(offset)
	return offset - f.lines[line-1] + 1
}

// Position renders "filename:line:col" for an offset.
func (f *File) Position(offset int) string {
	return fmt.Sprintf("%s:%d:%d", f.Filename, f.LineNumber(offset), f.LineColumn(offset))
}

// UseColor reports whether ANSI colorization should be used, honoring
// the NO_COLOR and COLOR environment variables, in that order of
// precedence.
func UseColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("COLOR"); ok {
		return true
	}
	return true
}

// HighlightError writes a source excerpt for the byte range
// [start, end) with the range underlined, preceded and followed by
// contextLines lines of surrounding context. color is the ANSI SGR
// sequence used for the highlighted range when useColor is true.
func HighlightError(w *strings.Builder, f *File, start, end int, color string, contextLines int, useColor bool) {
	if start > len(f.Text) {
		start = len(f.Text)
	}
	if end > len(f.Text) {
		end = len(f.Text)
	}
	if end < start {
		end = start
	}
	firstLine := f.LineNumber(start)
	lastLine := f.LineNumber(end)

	lo := firstLine - contextLines
	if lo < 1 {
		lo = 1
	}
	hi := lastLine + contextLines
	if hi > f.NumLines() {
		hi = f.NumLines()
	}

	digits := len(fmt.Sprint(hi))
	for n := lo; n <= hi; n++ {
		lineText := f.Line(n)
		lineStart := f.lines[n-1]
		if useColor {
			fmt.Fprintf(w, "\x1b[2m%*d |\x1b[m ", digits, n)
		} else {
			fmt.Fprintf(w, "%*d | ", digits, n)
		}
		if n < firstLine || n > lastLine {
			w.WriteString(lineText)
			w.WriteByte('\n')
			continue
		}

		hlStart := 0
		if n == firstLine {
			hlStart = start - lineStart
		}
		hlEnd := len(lineText)
		if n == lastLine {
			hlEnd = end - lineStart
		}
		if hlStart > len(lineText) {
			hlStart = len(lineText)
		}
		if hlEnd > len(lineText) {
			hlEnd = len(lineText)
		}
		if hlEnd < hlStart {
			hlEnd = hlStart
		}

		if useColor {
			w.WriteString(lineText[:hlStart])
			w.WriteString(color)
			w.WriteString(lineText[hlStart:hlEnd])
			w.WriteString("\x1b[m")
			w.WriteString(lineText[hlEnd:])
			w.WriteByte('\n')
		} else {
			w.WriteString(lineText)
			w.WriteByte('\n')
			fmt.Fprintf(w, "%*s | %s%s\n",
				digits, "",
				strings.Repeat(" ", hlStart),
				strings.Repeat("^", max(hlEnd-hlStart, 1)))
		}
	}
}

// ResetLoaded clears the load memo. Tests only.
func ResetLoaded() {
	loadMu.Lock()
	defer loadMu.Unlock()
	loaded = map[string]*File{}
}
