// Package pool schedules independent file jobs across a bounded worker set.
package pool

import (
	"runtime"
	"sync"
)

// Result pairs a job with its outcome. Err is non-nil when the job failed;
// the pool itself never stops on a failing job.
type Result[J, R any] struct {
	Job   J
	Value R
	Err   error
}

// Run executes work over every job with at most workers running at once,
// starting the next queued job as soon as one finishes. It returns after all
// jobs have completed or failed, in completion order. Each worker owns its
// job end-to-end; the only cross-worker traffic is the result channel, so
// callers can aggregate without locks.
func Run[J, R any](jobs []J, workers int, work func(J) (R, error)) []Result[J, R] {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	queue := make(chan J, len(jobs))
	results := make(chan Result[J, R], len(jobs))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				value, err := work(job)
				results <- Result[J, R]{Job: job, Value: value, Err: err}
			}
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	wg.Wait()
	close(results)

	all := make([]Result[J, R], 0, len(jobs))
	for r := range results {
		all = append(all, r)
	}
	return all
}

// Default returns the default concurrency bound: available CPUs, minimum 1.
func Default() int {
	if n := runtime.NumCPU(); n > 1 {
		return n
	}
	return 1
}

// WaveSize bounds how many selector jobs run per wave: max(5, workers/2).
// Waves cap the partial top-K results held between merges.
func WaveSize(workers int) int {
	if half := workers / 2; half > 5 {
		return half
	}
	return 5
}

// Waves partitions jobs into consecutive slices of at most size elements.
func Waves[J any](jobs []J, size int) [][]J {
	if size < 1 {
		size = 1
	}
	var waves [][]J
	for start := 0; start < len(jobs); start += size {
		end := start + size
		if end > len(jobs) {
			end = len(jobs)
		}
		waves = append(waves, jobs[start:end])
	}
	return waves
}
