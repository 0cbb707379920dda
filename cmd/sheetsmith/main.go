// sheetsmith is the Imagination Sheet compositor.
//
// Serves the sheet editing session API and runs offline layout and
// export passes over saved sheets.
//
// Build:
//
//	go build -o sheetsmith ./cmd/sheetsmith
package main

import (
	"os"

	"github.com/piwi3910/sheetsmith/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
