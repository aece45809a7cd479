// Command tomo is the Tomo compiler: it transpiles .tm source files to
// C, compiles them to objects, and links executables and shared
// libraries.
package main

import (
	"os"

	"github.com/tomo-lang/tomoc/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
