package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/threadkit/pool"
	"go.uber.org/zap"
)

type sumResult struct {
	task     int
	want     int
	got      int
	status   int
	err      error
	finished time.Duration
}

func (r sumResult) ok() bool {
	return r.err == nil && r.status == 0 && r.got == r.want
}

func sumInts(_ *pool.CancelToken, xs []int) (int, int) {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total, 0
}

func newSumCommand(a *app) *cobra.Command {
	var (
		tasks  int
		length int
		wait   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Submit tasks that each sum a slice of integers and verify every result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tasks <= 0 || length <= 0 {
				return fmt.Errorf("tasks and length must be positive, got %d and %d", tasks, length)
			}

			results, stats, elapsed, err := runSum(a, tasks, length, wait, cmd)
			if err != nil {
				return err
			}

			r := newReporter(cmd.OutOrStdout())
			r.sumReport(a.cfg, results, stats, elapsed)

			failed := 0
			for _, res := range results {
				if !res.ok() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tasks returned a wrong result", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&tasks, "tasks", 50, "number of tasks to submit")
	cmd.Flags().IntVar(&length, "length", 5, "integers summed by each task")
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "how long to wait for each result")
	return cmd
}

func runSum(a *app, tasks, length int, wait time.Duration, cmd *cobra.Command) ([]sumResult, pool.Stats, time.Duration, error) {
	tp, err := pool.New(a.cfg.poolOptions("sum", 0, a.logger)...)
	if err != nil {
		return nil, pool.Stats{}, 0, fmt.Errorf("start pool: %w", err)
	}
	defer func() {
		if err := tp.Destroy(); err != nil {
			a.logger.Warn("destroy pool", zap.Error(err))
		}
	}()

	start := time.Now()
	futures := make([]*pool.Future[int], tasks)
	results := make([]sumResult, tasks)

	for i := range tasks {
		args := make([]int, length)
		for j := range args {
			args[j] = i + j
			results[i].want += i + j
		}
		results[i].task = i

		f, err := pool.Submit(tp, sumInts, args)
		if err != nil {
			return nil, pool.Stats{}, 0, fmt.Errorf("submit task %d: %w", i, err)
		}
		futures[i] = f
	}

	bar := makeProgressBar(cmd.ErrOrStderr(), tasks, "Waiting for results")
	for i, f := range futures {
		results[i].got, results[i].status, results[i].err = f.Wait(wait)
		results[i].finished = time.Since(start)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	elapsed := time.Since(start)
	if err := tp.Close(); err != nil {
		return nil, pool.Stats{}, 0, fmt.Errorf("close pool: %w", err)
	}
	return results, tp.Stats(), elapsed, nil
}
