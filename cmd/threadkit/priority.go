package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/threadkit/pool"
)

var priorities = []pool.Priority{
	pool.PriorityVeryLow,
	pool.PriorityLow,
	pool.PriorityNormal,
	pool.PriorityHigh,
	pool.PriorityVeryHigh,
}

type execution struct {
	label    string
	priority pool.Priority
}

func newPriorityCommand(a *app) *cobra.Command {
	var perLevel int

	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Queue tasks of mixed priority behind a single busy worker and show the order they ran in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if perLevel <= 0 {
				return fmt.Errorf("per-level must be positive, got %d", perLevel)
			}

			order, err := runPriority(a, perLevel)
			if err != nil {
				return err
			}

			newReporter(cmd.OutOrStdout()).priorityReport(order)
			for i := 1; i < len(order); i++ {
				if order[i].priority > order[i-1].priority {
					return fmt.Errorf("task %s ran after lower priority task %s", order[i].label, order[i-1].label)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&perLevel, "per-level", 2, "tasks submitted at each priority level")
	return cmd
}

func runPriority(a *app, perLevel int) ([]execution, error) {
	tp, err := pool.New(a.cfg.poolOptions("priority", 1, a.logger)...)
	if err != nil {
		return nil, fmt.Errorf("start pool: %w", err)
	}
	defer func() { _ = tp.Destroy() }()

	started := make(chan struct{})
	gate := make(chan struct{})
	_, err = pool.SubmitPriorized(tp, func(_ *pool.CancelToken, _ struct{}) (struct{}, int) {
		close(started)
		<-gate
		return struct{}{}, 0
	}, struct{}{}, pool.PriorityVeryHigh)
	if err != nil {
		return nil, fmt.Errorf("submit blocker: %w", err)
	}
	<-started

	var (
		mu    sync.Mutex
		order []execution
	)
	record := func(_ *pool.CancelToken, e execution) (struct{}, int) {
		mu.Lock()
		order = append(order, e)
		mu.Unlock()
		return struct{}{}, 0
	}

	// Interleave levels so submission order differs from priority order.
	for round := range perLevel {
		for i := range priorities {
			p := priorities[(i*2+round)%len(priorities)]
			e := execution{label: fmt.Sprintf("%s-%d", p, round), priority: p}
			if _, err := pool.SubmitPriorized(tp, record, e, p); err != nil {
				close(gate)
				return nil, fmt.Errorf("submit %s: %w", e.label, err)
			}
		}
	}

	close(gate)
	if err := tp.Close(); err != nil {
		return nil, fmt.Errorf("close pool: %w", err)
	}
	return order, nil
}
