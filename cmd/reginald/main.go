// Command reginald compiles, runs and visualises regular expressions.
//
// Exit status follows grep: 0 when something matched, 1 when nothing
// did, 2 on error.
package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, afero.NewOsFs()))
}
