// Package main provides a standalone health probe for container health
// checks and monitoring scripts. It queries the ops server and exits 0
// when the reported status is acceptable.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL           string
	ConfigPath    string
	Timeout       time.Duration
	Format        string
	AllowDegraded bool
	RetryCount    int
	RetryDelay    time.Duration
}

type check struct {
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	LastChecked time.Time `json:"last_checked"`
	DurationMs  float64   `json:"duration_ms"`
}

type report struct {
	Status          string  `json:"status"`
	Version         string  `json:"version"`
	Checks          []check `json:"checks"`
	TotalDurationMs float64 `json:"total_duration_ms"`
}

func main() {
	opts := parseFlags()
	os.Exit(run(opts, os.Stdout))
}

func parseFlags() Options {
	opts := Options{}

	flag.StringVar(&opts.URL, "url", os.Getenv("HEALTH_CHECK_URL"), "Health endpoint URL; defaults to the configured ops server")
	flag.StringVar(&opts.ConfigPath, "config", os.Getenv("ZOE_CONFIG"), "Configuration file path")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.StringVar(&opts.Format, "format", "text", "Output format: text, json")
	flag.BoolVar(&opts.AllowDegraded, "allow-degraded", true, "Treat degraded as success")
	flag.IntVar(&opts.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.Parse()

	return opts
}

func run(opts Options, out io.Writer) int {
	url, err := resolveURL(opts)
	if err != nil {
		fmt.Fprintf(out, "health-check: %v\n", err)
		return exitCodeError
	}

	var (
		rep  *report
		body []byte
	)
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.RetryDelay)
		}
		rep, body, err = fetch(url, opts.Timeout)
		if err == nil && acceptable(rep.Status, opts.AllowDegraded) {
			break
		}
	}
	if err != nil {
		fmt.Fprintf(out, "health-check: %v\n", err)
		return exitCodeError
	}

	if opts.Format == "json" {
		_, _ = out.Write(body)
	} else {
		printText(out, rep)
	}

	if !acceptable(rep.Status, opts.AllowDegraded) {
		return exitCodeFailure
	}
	return exitCodeSuccess
}

func resolveURL(opts Options) (string, error) {
	if opts.URL != "" {
		return opts.URL, nil
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", err
	}
	host := cfg.Ops.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d/health", host, cfg.Ops.Port), nil
}

func fetch(url string, timeout time.Duration) (*report, []byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, err
	}

	var rep report
	if err := json.Unmarshal(body, &rep); err != nil {
		return nil, nil, fmt.Errorf("unexpected response (HTTP %d): %w", resp.StatusCode, err)
	}
	return &rep, body, nil
}

func acceptable(status string, allowDegraded bool) bool {
	return status == "healthy" || (allowDegraded && status == "degraded")
}

func printText(out io.Writer, rep *report) {
	fmt.Fprintf(out, "%s (version %s, %.0fms)\n", strings.ToUpper(rep.Status), rep.Version, rep.TotalDurationMs)
	for _, c := range rep.Checks {
		line := fmt.Sprintf("  %-14s %-9s %6.1fms  checked %s", c.Name, c.Status, c.DurationMs, humanize.Time(c.LastChecked))
		if c.Message != "" {
			line += "  " + c.Message
		}
		fmt.Fprintln(out, line)
	}
}
