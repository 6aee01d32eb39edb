// Package workload generates synthetic CPU-bound tasks for benchmarking
// the scheduler.
package workload

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/azargarov/tasksched"
)

const (
	// Priorities is the number of priority classes; tasks get 0..Priorities-1.
	Priorities = 3

	DefaultIterations = 5000
)

// Submitter accepts tasks. *tasksched.Scheduler satisfies it.
type Submitter interface {
	Submit(fn tasksched.TaskFunc, priority int) error
}

// Config describes a synthetic run.
type Config struct {
	// Tasks is the total number of tasks to submit.
	Tasks int

	// Producers is the number of goroutines submitting concurrently.
	// Values below 1 mean one producer.
	Producers int

	// Rate caps submissions per second across all producers.
	// Zero disables pacing.
	Rate float64

	// Iterations sizes the busy loop of each task.
	Iterations int

	Seed uint64
}

// Generate submits cfg.Tasks busy-loop tasks to s with priorities drawn
// uniformly from {0, 1, 2}. It returns the first submission error.
func Generate(ctx context.Context, s Submitter, cfg Config) error {
	if cfg.Tasks <= 0 {
		return nil
	}
	producers := max(cfg.Producers, 1)
	producers = min(producers, cfg.Tasks)
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	g, ctx := errgroup.WithContext(ctx)
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(p)))
			// producer p submits task indices p, p+producers, ...
			for i := p; i < cfg.Tasks; i += producers {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
				} else if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.Submit(BusyTask(i, iterations), rng.IntN(Priorities)); err != nil {
					return fmt.Errorf("workload: submit task %d: %w", i, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// BusyTask returns a task that sums sqrt(j*i+1) for j in [0, iterations).
func BusyTask(i, iterations int) tasksched.TaskFunc {
	return func() error {
		var result float64
		for j := 0; j < iterations; j++ {
			result += math.Sqrt(float64(j*i + 1))
		}
		sink(result)
		return nil
	}
}

// sink keeps the busy loop from being optimized away.
//
//go:noinline
func sink(float64) {}
