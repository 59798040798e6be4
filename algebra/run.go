package algebra

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grass-svn2git/grass/errors"
	"github.com/grass-svn2git/grass/mapcalc"
	"github.com/grass-svn2git/grass/tgis"
)

// Options controls one algebra run.
type Options struct {
	// Basename for the result maps, numbered basename_1..basename_n.
	// Defaults to the assignment's result name.
	Basename string
	Kind     tgis.Kind
	Mapset   string
	// Spatial restricts temporal pairing to spatially overlapping maps.
	Spatial   bool
	Overwrite bool
	// RegisterNull keeps result maps that the calculator reports as
	// entirely null. By default they are computed but not registered.
	RegisterNull bool
}

// Runner executes a full algebra statement: parse, lower to command
// strings, check the output namespace, run the calculator jobs, and
// register the results as a new space time dataset.
type Runner struct {
	reg  *tgis.Registry
	pool *mapcalc.Pool
	log  *zap.SugaredLogger
}

func NewRunner(reg *tgis.Registry, pool *mapcalc.Pool, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{reg: reg, pool: pool, log: logger}
}

// Run evaluates "result = expression" and returns the created result
// dataset. The output namespace is checked up front: if any planned
// result map already exists and Overwrite is unset, nothing is
// computed and nothing is written.
func (r *Runner) Run(ctx context.Context, expression string, opts Options) (*tgis.Dataset, error) {
	stmt, err := Parse(expression)
	if err != nil {
		return nil, err
	}

	ev := NewEvaluator(r.reg, opts.Mapset, opts.Kind, opts.Spatial, r.log)
	maps, err := ev.Eval(ctx, stmt.Expr)
	if err != nil {
		return nil, err
	}

	basename := opts.Basename
	if basename == "" {
		basename, _, _ = tgis.SplitID(stmt.Result)
	}

	names := make([]string, len(maps))
	exists := make([]bool, len(maps))
	for i := range maps {
		names[i] = fmt.Sprintf("%s_%d", basename, i+1)
		id := tgis.MapID(names[i], opts.Mapset, 0)
		ok, err := r.reg.MapExists(ctx, id, opts.Kind)
		if err != nil {
			return nil, err
		}
		if ok && !opts.Overwrite {
			return nil, errors.Wrapf(errors.ErrMapExists,
				"result map %s already exists, use overwrite to replace it", id)
		}
		exists[i] = ok
	}

	jobs := make([]mapcalc.Job, len(maps))
	for i, m := range maps {
		jobs[i] = mapcalc.Job{Name: names[i], Expression: m.sub()}
	}
	r.log.Infow("running algebra expression",
		"result", stmt.Result, "jobs", len(jobs))

	results, err := r.pool.Run(ctx, jobs)
	if err != nil {
		return nil, errors.Wrap(err, "calculator batch failed, result dataset not created")
	}

	dname, dmapset, _ := tgis.SplitID(stmt.Result)
	if dmapset == "" {
		dmapset = opts.Mapset
	}
	d := tgis.NewDataset(dname, dmapset, opts.Kind, ev.temporalType)
	d.Title = dname
	d.Description = "created by temporal algebra"
	if err := r.reg.CreateDataset(ctx, d, opts.Overwrite); err != nil {
		return nil, err
	}

	for i, m := range maps {
		if results[i].Null && !opts.RegisterNull {
			r.log.Warnw("result map is empty, skipping registration", "map", names[i])
			continue
		}
		if exists[i] {
			old, err := r.reg.ReadMap(ctx, tgis.MapID(names[i], opts.Mapset, 0), opts.Kind)
			if err == nil {
				if err := r.reg.RemoveMap(ctx, old); err != nil {
					return nil, err
				}
			} else if !errors.IsNotFoundError(err) {
				return nil, err
			}
		}
		nm := tgis.NewMap(names[i], opts.Mapset, 0, opts.Kind)
		nm.Extent = m.Extent
		nm.Spatial = m.Spatial
		if err := r.reg.InsertMap(ctx, nm); err != nil {
			return nil, err
		}
		if err := r.reg.RegisterMap(ctx, d, nm); err != nil {
			return nil, err
		}
	}

	if err := r.reg.UpdateFromRegisteredMaps(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
