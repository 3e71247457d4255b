// Package smoke drives a running sales server the way a browser user would
// and verifies what it serves.
package smoke

import (
	"errors"
	"time"
)

// Defaults used by the smoke binary.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultTimeout = 10 * time.Second
	DefaultWorkers = 4
)

// ErrChecksFailed is returned by Run when at least one check fails.
var ErrChecksFailed = errors.New("smoke checks failed")

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Timeout    time.Duration // HTTP request timeout
	Workers    int           // Concurrent region fetches
	ReportFile string        // Optional JSON report path
	Verbose    bool          // Log every check, not only failures
}

// Check is the outcome of one verification.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report collects every check of a run.
type Report struct {
	RunID     string        `json:"run_id"`
	BaseURL   string        `json:"base_url"`
	Checks    []Check       `json:"checks"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

func (r *Report) add(name string, err error) {
	c := Check{Name: name, Passed: err == nil}
	if err != nil {
		c.Detail = err.Error()
	}
	r.Checks = append(r.Checks, c)
}

// stats mirrors the fields of GET /stats the checks read.
type stats struct {
	Started       bool     `json:"started"`
	Regions       []string `json:"regions"`
	ReferenceDate string   `json:"referenceDate"`
	TotalRecords  int      `json:"totalRecords"`
}
