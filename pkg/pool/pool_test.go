package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRun_ProcessesEveryJob(t *testing.T) {
	jobs := make([]int, 100)
	for i := range jobs {
		jobs[i] = i
	}

	results := Run(jobs, 8, func(n int) (int, error) {
		return n * 2, nil
	})

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	seen := make(map[int]bool)
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("job %d: unexpected error %v", r.Job, r.Err)
		}
		if r.Value != r.Job*2 {
			t.Errorf("job %d: value = %d, want %d", r.Job, r.Value, r.Job*2)
		}
		seen[r.Job] = true
	}
	if len(seen) != len(jobs) {
		t.Errorf("saw %d distinct jobs, want %d", len(seen), len(jobs))
	}
}

func TestRun_FailureDoesNotStopPool(t *testing.T) {
	boom := errors.New("boom")
	jobs := []int{1, 2, 3, 4, 5}

	results := Run(jobs, 2, func(n int) (int, error) {
		if n == 3 {
			return 0, boom
		}
		return n, nil
	})

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			if r.Job != 3 {
				t.Errorf("job %d failed, want only job 3", r.Job)
			}
		}
	}
	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
}

func TestRun_RespectsConcurrencyBound(t *testing.T) {
	const bound = 3
	var active, peak int64
	var mu sync.Mutex

	jobs := make([]int, 50)
	Run(jobs, bound, func(int) (struct{}, error) {
		n := atomic.AddInt64(&active, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		atomic.AddInt64(&active, -1)
		return struct{}{}, nil
	})

	mu.Lock()
	defer mu.Unlock()
	if peak > bound {
		t.Errorf("peak concurrency = %d, want <= %d", peak, bound)
	}
}

func TestRun_NoJobs(t *testing.T) {
	results := Run(nil, 4, func(int) (int, error) { return 0, nil })
	if len(results) != 0 {
		t.Errorf("got %d results for empty job list, want 0", len(results))
	}
}

func TestDefault(t *testing.T) {
	if got := Default(); got < 1 {
		t.Errorf("Default() = %d, want >= 1", got)
	}
}

func TestWaveSize(t *testing.T) {
	tests := []struct {
		workers int
		want    int
	}{
		{1, 5},
		{8, 5},
		{10, 5},
		{12, 6},
		{32, 16},
	}
	for _, tt := range tests {
		if got := WaveSize(tt.workers); got != tt.want {
			t.Errorf("WaveSize(%d) = %d, want %d", tt.workers, got, tt.want)
		}
	}
}

func TestWaves_CoversEveryJobOnce(t *testing.T) {
	jobs := make([]int, 17)
	for i := range jobs {
		jobs[i] = i
	}

	waves := Waves(jobs, 5)
	if len(waves) != 4 {
		t.Fatalf("got %d waves, want 4", len(waves))
	}

	var flat []int
	for i, wave := range waves {
		if len(wave) > 5 {
			t.Errorf("wave %d has %d jobs, want <= 5", i, len(wave))
		}
		flat = append(flat, wave...)
	}
	if len(flat) != len(jobs) {
		t.Fatalf("waves cover %d jobs, want %d", len(flat), len(jobs))
	}
	for i, n := range flat {
		if n != i {
			t.Errorf("flattened waves[%d] = %d, want %d", i, n, i)
		}
	}
}
