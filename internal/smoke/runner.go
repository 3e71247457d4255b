package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/internal/view"
	"github.com/okian/morsel/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

const unknownRegionFilter = "everywhere"

// Run executes every check against cfg.BaseURL and returns the report. The
// error is ErrChecksFailed when any check failed, or a transport error when
// the service could not be reached at all.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Report, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	report := &Report{
		RunID:     uuid.NewString(),
		BaseURL:   cfg.BaseURL,
		StartTime: time.Now(),
	}
	log.Info(ctx, "starting smoke run",
		logger.String("runId", report.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)

	if err := checkHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	report.add("health", nil)

	report.add("page", checkPage(ctx, client))

	var regions []string
	err := client.getJSON(ctx, "/api/regions", &regions)
	if err == nil {
		err = verifyRegions(regions)
	}
	report.add("regions", err)

	var st stats
	if err := client.getJSON(ctx, "/stats", &st); err != nil {
		report.add("stats", err)
	} else if !st.Started {
		report.add("stats", fmt.Errorf("service reports not started"))
	} else {
		report.add("stats", nil)
	}

	series, err := fetchSeries(ctx, client, model.FilterValues(), cfg.Workers)
	if err != nil {
		report.add("series", err)
	} else {
		report.add("series", nil)
		for _, f := range model.FilterValues() {
			report.add("ordering/"+f.String(), verifyOrdering(f.String(), series[f]))
		}
		applies, perr := verifyPartition(series, st.Regions)
		if applies {
			report.add("partition", perr)
		} else {
			log.Warn(ctx, "partition check skipped, dataset holds regions outside the control",
				logger.Any("regions", st.Regions))
		}
		report.add("figure", checkFigure(ctx, client, series[model.FilterAll], st.ReferenceDate))
	}

	report.add("invalid_filter", checkInvalidFilter(ctx, client))

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	for _, c := range report.Checks {
		switch {
		case !c.Passed:
			log.Error(ctx, "check failed", logger.String("check", c.Name), logger.String("detail", c.Detail))
		case cfg.Verbose:
			log.Info(ctx, "check passed", logger.String("check", c.Name))
		}
	}

	if cfg.ReportFile != "" {
		if err := saveReport(cfg.ReportFile, report); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	failed := len(report.Failed())
	log.Info(ctx, "smoke run finished",
		logger.String("runId", report.RunID),
		logger.Int("checks", len(report.Checks)),
		logger.Int("failed", failed),
		logger.Duration("duration", report.Duration))

	if failed > 0 {
		return report, fmt.Errorf("%d of %d: %w", failed, len(report.Checks), ErrChecksFailed)
	}
	return report, nil
}

// checkHealth verifies the service is running.
func checkHealth(ctx context.Context, c *HTTPClient) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return err
	}
	// The service answers with Prometheus metrics, any 200 is healthy.
	if status != http.StatusOK {
		return fmt.Errorf("status %d", status)
	}
	return nil
}

func checkPage(ctx context.Context, c *HTTPClient) error {
	status, body, err := c.get(ctx, "/")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET /: status %d", status)
	}
	return verifyPage(string(body))
}

func checkFigure(ctx context.Context, c *HTTPClient, all model.DailySeries, reference string) error {
	var fig view.Figure
	if err := c.getJSON(ctx, "/api/figure?region="+model.FilterAll.String(), &fig); err != nil {
		return err
	}
	if reference == "" {
		reference = view.DefaultReferenceDate.String()
	}
	return verifyFigure(fig, all, reference)
}

func checkInvalidFilter(ctx context.Context, c *HTTPClient) error {
	status, body, err := c.get(ctx, "/api/series?region="+unknownRegionFilter)
	if err != nil {
		return err
	}
	if status != http.StatusBadRequest {
		return fmt.Errorf("invalid filter answered with status %d", status)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode error body: %w", err)
	}
	if resp.Code != "invalid_filter" {
		return fmt.Errorf("invalid filter answered with code %q", resp.Code)
	}
	return nil
}

// saveReport writes the report as indented JSON.
func saveReport(path string, report *Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
