// Command bibindex builds and queries the bibliographic record store:
// a perfect-hash record file plus a primary (id) and secondary (title)
// B-tree index.
package main

import (
	"os"

	"github.com/scigolib/bibindex/internal/cli"
)

func main() {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}
	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args, workDir))
}
