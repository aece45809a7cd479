package parser

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/tomo-lang/tomoc/internal/srcfile"
)

// Error is a parse error with the source range that provoked it. The
// parser never recovers: the first unexpected input aborts the parse and
// surfaces as one of these.
type Error struct {
	File    *srcfile.File
	Start   int
	End     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.File.Position(e.Start), e.Message)
}

// Excerpt renders the error with a highlighted source excerpt, the way
// the CLI presents it.
func (e *Error) Excerpt(useColor bool) string {
	var sb strings.Builder
	if useColor {
		fmt.Fprintf(&sb, "\x1b[31;1m%s: %s\x1b[m\n\n", e.File.Position(e.Start), e.Message)
	} else {
		fmt.Fprintf(&sb, "%s: %s\n\n", e.File.Position(e.Start), e.Message)
	}
	srcfile.HighlightError(&sb, e.File, e.Start, e.End, "\x1b[31;1;7m", 2, useColor)
	return sb.String()
}

// bail aborts the parse by panicking with an *Error; the public entry
// points recover it and return it as an ordinary error, so the
// non-local exit never crosses a package boundary.
func (p *parser) bail(start, end int, format string, args ...any) {
	if os.Getenv("TOMO_STACKTRACE") != "" {
		debug.PrintStack()
	}
	panic(&Error{File: p.file, Start: start, End: end, Message: fmt.Sprintf(format, args...)})
}

// recoverError converts a bail panic back into an error return.
func recoverError(err *error) {
	if r := recover(); r != nil {
		if parseErr, ok := r.(*Error); ok {
			*err = parseErr
			return
		}
		panic(r)
	}
}
