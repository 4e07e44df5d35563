package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/blocksim/world"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for f := range workerQueue {
		run(f)
	}
}

// run calls f, reporting a panic to sentry instead of taking the worker down with it.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f to be run by a worker. To be used by a function that may be CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Step steps all engines passed in parallel and returns their stats in the same order. Engines never share
// a world, so each world still only sees one mutation at a time.
func Step(engines ...*world.Engine) []world.StepStats {
	stats := make([]world.StepStats, len(engines))

	var wg sync.WaitGroup
	wg.Add(len(engines))
	for i, e := range engines {
		Submit(func() {
			defer wg.Done()
			stats[i] = e.Step()
		})
	}
	wg.Wait()
	return stats
}
