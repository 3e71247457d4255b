// Command ingest reads the raw daily sales files, keeps one product and
// writes the sales artifact the server loads.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	app "github.com/okian/morsel/internal/app"
	"github.com/okian/morsel/internal/config"
	"github.com/okian/morsel/internal/domain/ingest"
	"github.com/okian/morsel/pkg/logger"
)

func main() {
	// Logs go to stderr; stdout carries only the operator summary.
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, fills what they leave unset from the loaded
// configuration, ingests and writes the artifact, then prints the summary
// to stdout. When -sources and -output are both given a broken config is
// reported and skipped.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	var (
		sources  = fs.String("sources", "", "Comma-separated raw sales files, read in order (default from config)")
		output   = fs.String("output", "", "Artifact path to write (default from config)")
		product  = fs.String("product", "", "Product to keep (default from config)")
		logLevel = fs.String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		if *sources == "" || *output == "" {
			return err
		}
		logger.Get().Warn(ctx, "ignoring configuration, flags supply sources and output", logger.Error(err))
		cfg = config.New()
	}
	if *sources == "" {
		*sources = strings.Join(cfg.Sources, ",")
	}
	if *output == "" {
		*output = cfg.ArtifactPath
	}
	if *product == "" {
		*product = cfg.Product
	}
	if *logLevel == "" {
		*logLevel = cfg.LogLevel
	}

	if err := logger.SetLevelString(*logLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	paths := splitSources(*sources)
	if len(paths) == 0 {
		return errors.New("no sources given")
	}
	if *output == "" {
		return errors.New("no output path given")
	}

	res, err := app.RunIngest(ctx, paths, *output,
		ingest.WithProduct(*product),
		ingest.WithLogger(logger.Get()),
	)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Processed %d %s transactions\n", res.Accepted, strings.ToLower(strings.TrimSpace(*product)))
	_, _ = fmt.Fprintf(stdout, "Output written to %s\n", *output)
	return nil
}

func splitSources(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
