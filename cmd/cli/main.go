// errtally - Log File Error Count Extraction
//
// errtally scans log files for "number of errors: N" markers on background
// tasks and reports every non-zero count with the line it came from.
package main

import (
	"os"

	"github.com/ccollicutt/errtally/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
