package smoke

import (
	"os"
)

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Morsel Smoke Check
==================

Drives a running sales server the way a browser user would and verifies
the page, the API and the partition of the daily series by region.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -timeout duration
        HTTP request timeout (default 10s)
  -workers int
        Concurrent series requests (default 4)
  -report string
        Write the JSON report to this file
  -verbose
        Log passing checks too
  -help
        Show this help message

Exit status is non-zero when any check fails.
`)
}
