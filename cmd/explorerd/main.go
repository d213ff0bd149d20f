// Command explorerd is the opening-explorer daemon: it serves the HTTP
// query/import API over a set of on-disk position databases, and also
// exposes one-shot subcommands for bulk import and database stats.
package main

import (
	"fmt"
	"os"

	"github.com/lila-explorer/openingexplorer/cmd/explorerd/internal/cli"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
