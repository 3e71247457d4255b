package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/morsel/internal/smoke"
	"github.com/okian/morsel/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL    = flag.String("url", smoke.DefaultBaseURL, "Base URL of the service")
		timeout    = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		workers    = flag.Int("workers", smoke.DefaultWorkers, "Concurrent series requests")
		reportFile = flag.String("report", "", "Write the JSON report to this file")
		verbose    = flag.Bool("verbose", false, "Log passing checks too")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := smoke.Config{
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		Workers:    *workers,
		ReportFile: *reportFile,
		Verbose:    *verbose,
	}

	if _, err := smoke.Run(ctx, cfg, logger.Named("smoke")); err != nil {
		_, _ = os.Stderr.WriteString("Smoke check failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
