package mapcalc

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/grass-svn2git/grass/errors"
)

// Pool runs batches of independent calculator jobs over a bounded
// number of workers with rate-limited submission. It is the only
// concurrent fan-out point of the framework; everything else runs
// synchronously.
type Pool struct {
	exec    Executor
	workers int
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// NewPool creates a pool with the given worker count and submission
// rate. Worker counts below one are clamped to one; a jobsPerSecond of
// zero disables rate limiting. The logger may be nil.
func NewPool(exec Executor, workers, jobsPerSecond int, logger *zap.SugaredLogger) *Pool {
	if workers < 1 {
		workers = 1
	}
	limit := rate.Inf
	if jobsPerSecond > 0 {
		limit = rate.Limit(jobsPerSecond)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pool{
		exec:    exec,
		workers: workers,
		limiter: rate.NewLimiter(limit, 1),
		log:     logger,
	}
}

// Run executes all jobs and joins before returning. Results come back
// in job order. The returned error aggregates per-job failures; the
// slice still holds every result so callers can report them
// individually.
func (p *Pool) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	type indexed struct {
		idx int
		job Job
	}
	queue := make(chan indexed)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				results[item.idx] = p.exec.Run(ctx, item.job)
			}
		}()
	}

	p.log.Debugw("submitting calculator jobs", "jobs", len(jobs), "workers", p.workers)

	var submitErr error
	for i, job := range jobs {
		if err := p.limiter.Wait(ctx); err != nil {
			submitErr = err
			break
		}
		queue <- indexed{idx: i, job: job}
	}
	close(queue)
	wg.Wait()

	if submitErr != nil {
		return results, errors.Wrap(submitErr, "job submission interrupted")
	}

	var failed int
	var firstErr error
	for _, res := range results {
		if res.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = res.Err
			}
			p.log.Errorw("calculator job failed", "map", res.Job.Name, "error", res.Err)
		}
	}
	if failed > 0 {
		return results, errors.Wrapf(firstErr, "%d of %d calculator jobs failed", failed, len(jobs))
	}
	return results, nil
}
