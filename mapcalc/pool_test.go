package mapcalc

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grass-svn2git/grass/errors"
)

type fakeExecutor struct {
	mu       sync.Mutex
	ran      []string
	failOn   map[string]bool
	inFlight int32
	peak     int32
}

func (f *fakeExecutor) Run(ctx context.Context, job Job) Result {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if current <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, current) {
			break
		}
	}

	f.mu.Lock()
	f.ran = append(f.ran, job.Name)
	f.mu.Unlock()

	if f.failOn[job.Name] {
		return Result{Job: job, Err: errors.Newf("boom: %s", job.Name)}
	}
	return Result{Job: job}
}

func TestPoolRunsAllJobs(t *testing.T) {
	exec := &fakeExecutor{}
	pool := NewPool(exec, 4, 0, nil)

	jobs := []Job{
		{Name: "r_0", Expression: "(a + b)"},
		{Name: "r_1", Expression: "(a - b)"},
		{Name: "r_2", Expression: "(a * b)"},
	}
	results, err := pool.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		require.Equal(t, jobs[i].Name, res.Job.Name, "results keep job order")
		require.NoError(t, res.Err)
	}
	require.Len(t, exec.ran, 3)
}

func TestPoolReportsFailures(t *testing.T) {
	exec := &fakeExecutor{failOn: map[string]bool{"r_1": true}}
	pool := NewPool(exec, 2, 0, nil)

	jobs := []Job{{Name: "r_0"}, {Name: "r_1"}, {Name: "r_2"}}
	results, err := pool.Run(context.Background(), jobs)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 3")

	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	exec := &fakeExecutor{}
	pool := NewPool(exec, 1, 0, nil)

	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = Job{Name: "r", Expression: "x"}
	}
	_, err := pool.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.LessOrEqual(t, exec.peak, int32(1), "a single worker must serialize jobs")
}

func TestJobStatement(t *testing.T) {
	j := Job{Name: "result_0", Expression: "(a@test + b@test)"}
	require.Equal(t, "result_0 = (a@test + b@test)", j.Statement())
}
