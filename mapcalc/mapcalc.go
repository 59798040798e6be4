// Package mapcalc submits raster-calculator expressions to an
// external compute engine, fanning independent jobs out over a bounded
// worker pool and joining before results are registered.
package mapcalc

import (
	"context"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/grass-svn2git/grass/errors"
)

// Job is one raster-calculator invocation: computing Name from an
// expression string.
type Job struct {
	Name       string
	Expression string
}

// Statement renders the full calculator statement.
func (j Job) Statement() string {
	return j.Name + " = " + j.Expression
}

// Result reports the outcome of one job. Null is set when the computed
// map contains no data, which registration may skip.
type Result struct {
	Job  Job
	Null bool
	Err  error
}

// Executor runs a single raster-calculator job. Implementations treat
// a nonzero exit as fatal for that job only; batch policy is the
// caller's decision.
type Executor interface {
	Run(ctx context.Context, job Job) Result
}

// ProcessExecutor runs jobs as external calculator processes.
type ProcessExecutor struct {
	Binary    string
	Overwrite bool

	log *zap.SugaredLogger
}

// NewProcessExecutor builds an executor around the given calculator
// binary. The logger may be nil.
func NewProcessExecutor(binary string, overwrite bool, logger *zap.SugaredLogger) *ProcessExecutor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ProcessExecutor{Binary: binary, Overwrite: overwrite, log: logger}
}

// Run executes one calculator process and waits for it.
func (e *ProcessExecutor) Run(ctx context.Context, job Job) Result {
	args := []string{"expression=" + job.Statement()}
	if e.Overwrite {
		args = append(args, "--overwrite")
	}

	e.log.Debugw("running raster calculator", "command",
		shellquote.Join(append([]string{e.Binary}, args...)...))

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Result{Job: job, Err: errors.Wrapf(err,
			"raster calculator failed for map <%s>: %s",
			job.Name, strings.TrimSpace(string(out)))}
	}
	return Result{Job: job}
}
