// mongdata - Mongolian glyph data validation and export

package main

import (
	"os"

	"github.com/mongfont/mongdata/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
