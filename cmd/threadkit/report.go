package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/utkarsh5026/threadkit/pool"
)

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
)

type reporter struct {
	w io.Writer
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w}
}

func (r *reporter) sumReport(cfg Config, results []sumResult, stats pool.Stats, elapsed time.Duration) {
	_, _ = bold.Fprintln(r.w, "Configuration:")
	_, _ = fmt.Fprintf(r.w, "  Workers: %d, timeout: %v, rate: %.1f/s (burst %d), backoff: %s, affinity: %t\n\n",
		cfg.Workers, cfg.Timeout, cfg.RateLimit, cfg.Burst, cfg.Backoff, cfg.Affinity)

	failed := 0
	var slowest sumResult
	for _, res := range results {
		if !res.ok() {
			failed++
		}
		if res.finished > slowest.finished {
			slowest = res
		}
	}

	_, _ = bold.Fprintln(r.w, "Results:")
	table := tablewriter.NewWriter(r.w)
	table.Header("Tasks", "Executed", "Cancelled", "Panicked", "Failed", "Elapsed", "Last result at")
	_ = table.Append(
		fmt.Sprint(len(results)),
		fmt.Sprint(stats.Executed),
		fmt.Sprint(stats.Cancelled),
		fmt.Sprint(stats.Panicked),
		fmt.Sprint(failed),
		elapsed.Round(time.Microsecond).String(),
		slowest.finished.Round(time.Microsecond).String(),
	)
	_ = table.Render()

	_, _ = fmt.Fprintln(r.w)
	_, _ = bold.Fprintln(r.w, "Per worker:")
	workers := tablewriter.NewWriter(r.w)
	workers.Header("Worker", "Tasks", "Share")
	for i, n := range stats.PerWorker {
		share := 0.0
		if stats.Executed > 0 {
			share = float64(n) / float64(stats.Executed) * 100
		}
		_ = workers.Append(fmt.Sprint(i), fmt.Sprint(n), fmt.Sprintf("%.1f%%", share))
	}
	_ = workers.Render()

	for _, res := range results {
		if !res.ok() {
			_, _ = red.Fprintf(r.w, "task %d: want %d, got %d (status %d, err %v)\n",
				res.task, res.want, res.got, res.status, res.err)
		}
	}
	if failed == 0 {
		_, _ = green.Fprintf(r.w, "\nall %d results verified\n", len(results))
	}
}

func (r *reporter) priorityReport(order []execution) {
	_, _ = bold.Fprintln(r.w, "Execution order:")
	table := tablewriter.NewWriter(r.w)
	table.Header("Position", "Task", "Priority")
	for i, e := range order {
		_ = table.Append(fmt.Sprint(i+1), e.label, e.priority.String())
	}
	_ = table.Render()
}

func makeProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
