package algebra

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grass-svn2git/grass/errors"
	"github.com/grass-svn2git/grass/tgis"
)

// resultMap is an operand map carrying the calculator command string
// built for it so far. A map fresh from a dataset has no command yet
// and substitutes its own identifier.
type resultMap struct {
	*tgis.Map
	cmd string
}

func (m *resultMap) sub() string {
	if m.cmd != "" {
		return m.cmd
	}
	return m.ID
}

// value is the result of evaluating a subexpression: either a list of
// maps with temporal extents, or a scalar snippet (numeric literal,
// single map reference, or an expression built from those).
type value struct {
	maps []*resultMap
	text string
}

func (v value) isMaps() bool { return v.maps != nil }

// Evaluator lowers a parsed expression against the registry. The
// temporal type of the first dataset referenced pins the type for the
// whole expression.
type Evaluator struct {
	reg     *tgis.Registry
	mapset  string
	kind    tgis.Kind
	spatial bool
	log     *zap.SugaredLogger

	temporalType tgis.TemporalType
	typePinned   bool
}

func NewEvaluator(reg *tgis.Registry, mapset string, kind tgis.Kind, spatial bool, logger *zap.SugaredLogger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Evaluator{reg: reg, mapset: mapset, kind: kind, spatial: spatial, log: logger}
}

// Eval walks the expression tree and returns the lowered operand
// list. An expression that reduces to a scalar is an error at the top
// level but legal in any operand position.
func (e *Evaluator) Eval(ctx context.Context, node Node) ([]*resultMap, error) {
	v, err := e.eval(ctx, node)
	if err != nil {
		return nil, err
	}
	if !v.isMaps() {
		return nil, errors.NewSyntaxError("expression reduces to the scalar %q, not to a map list", v.text)
	}
	return v.maps, nil
}

func (e *Evaluator) eval(ctx context.Context, node Node) (value, error) {
	switch n := node.(type) {
	case *Number:
		return value{text: n.Text}, nil
	case *MapRef:
		return e.evalMapRef(ctx, n)
	case *DatasetRef:
		return e.evalDataset(ctx, n)
	case *Call:
		return e.evalCall(ctx, n)
	case *Binary:
		return e.evalBinary(ctx, n)
	case *Conditional:
		return e.evalConditional(ctx, n)
	}
	return value{}, errors.Newf("unhandled expression node %T", node)
}

func (e *Evaluator) evalMapRef(ctx context.Context, n *MapRef) (value, error) {
	name, mapset, layer := tgis.SplitID(n.Name)
	if mapset == "" {
		mapset = e.mapset
	}
	id := tgis.MapID(name, mapset, layer)
	ok, err := e.reg.MapExists(ctx, id, e.kind)
	if err != nil {
		return value{}, err
	}
	if !ok {
		return value{}, errors.NewNotFoundError("map %s used in map() is not in the temporal database", id)
	}
	return value{text: id}, nil
}

func (e *Evaluator) evalDataset(ctx context.Context, n *DatasetRef) (value, error) {
	name, mapset, _ := tgis.SplitID(n.Name)
	if mapset == "" {
		mapset = e.mapset
	}
	d, err := e.reg.ReadDataset(ctx, name, mapset, e.kind)
	if err != nil {
		return value{}, err
	}
	if e.typePinned && d.TemporalType != e.temporalType {
		return value{}, errors.Wrapf(errors.ErrTemporalTypeMismatch,
			"dataset %s is %s, expression started with %s data",
			d.ID(), d.TemporalType, e.temporalType)
	}
	e.temporalType = d.TemporalType
	e.typePinned = true

	members, err := e.reg.RegisteredMaps(ctx, d, "", "start_time")
	if err != nil {
		return value{}, err
	}
	out := make([]*resultMap, 0, len(members))
	for _, m := range members {
		out = append(out, &resultMap{Map: m})
	}
	e.log.Debugw("dataset operand loaded", "dataset", d.ID(), "maps", len(out))
	return value{maps: out}, nil
}

func (e *Evaluator) evalCall(ctx context.Context, n *Call) (value, error) {
	args := make([]value, len(n.Args))
	mapsArg := -1
	for i, a := range n.Args {
		v, err := e.eval(ctx, a)
		if err != nil {
			return value{}, err
		}
		if v.isMaps() {
			if mapsArg >= 0 {
				return value{}, errors.NewSyntaxError(
					"function %s takes at most one dataset argument", n.Func)
			}
			mapsArg = i
		}
		args[i] = v
	}

	if mapsArg < 0 {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.text
		}
		return value{text: callString(n.Func, parts)}, nil
	}

	out := make([]*resultMap, 0, len(args[mapsArg].maps))
	for _, m := range args[mapsArg].maps {
		parts := make([]string, len(args))
		for i, a := range args {
			if i == mapsArg {
				parts[i] = m.sub()
			} else {
				parts[i] = a.text
			}
		}
		out = append(out, &resultMap{Map: m.Map, cmd: callString(n.Func, parts)})
	}
	return value{maps: out}, nil
}

func callString(fn string, args []string) string {
	s := fn + "("
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += a
	}
	return s + ")"
}

func operatorString(left, op, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, op, right)
}

func (e *Evaluator) evalBinary(ctx context.Context, n *Binary) (value, error) {
	left, err := e.eval(ctx, n.Left)
	if err != nil {
		return value{}, err
	}
	right, err := e.eval(ctx, n.Right)
	if err != nil {
		return value{}, err
	}

	switch {
	case left.isMaps() && right.isMaps():
		if n.Op.Op == ":" || n.Op.Op == "!:" {
			return value{maps: e.selectMaps(left.maps, right.maps, n.Op)}, nil
		}
		maps, err := e.combine(left.maps, right.maps, n.Op, func(a, b string) string {
			return operatorString(a, n.Op.Op, b)
		})
		if err != nil {
			return value{}, err
		}
		return value{maps: maps}, nil
	case left.isMaps():
		return e.scalarFold(left.maps, n.Op, func(sub string) string {
			return operatorString(sub, n.Op.Op, right.text)
		})
	case right.isMaps():
		return e.scalarFold(right.maps, n.Op, func(sub string) string {
			return operatorString(left.text, n.Op.Op, sub)
		})
	default:
		if n.Op.Op == ":" || n.Op.Op == "!:" {
			return value{}, errors.NewSyntaxError("selection requires dataset operands on both sides")
		}
		return value{text: operatorString(left.text, n.Op.Op, right.text)}, nil
	}
}

func (e *Evaluator) scalarFold(maps []*resultMap, op TemporalOperator, format func(string) string) (value, error) {
	if op.Op == ":" || op.Op == "!:" {
		return value{}, errors.NewSyntaxError("selection requires dataset operands on both sides")
	}
	out := make([]*resultMap, 0, len(maps))
	for _, m := range maps {
		out = append(out, &resultMap{Map: m.Map, cmd: format(m.sub())})
	}
	return value{maps: out}, nil
}

// selectMaps keeps (or for !: drops) the left maps that stand in one
// of the operator's relations to a right map. Command strings are
// untouched; only membership and, per the extent mode, the temporal
// extents change.
func (e *Evaluator) selectMaps(left, right []*resultMap, op TemporalOperator) []*resultMap {
	topo := tgis.BuildTopology(bareMaps(left), bareMaps(right), e.spatial)
	var out []*resultMap
	for _, lm := range left {
		var related []*tgis.Map
		for _, rel := range op.Relations {
			related = append(related, topo.Related(lm.Map, rel)...)
		}
		if op.Op == "!:" {
			if len(related) == 0 {
				out = append(out, lm)
			}
			continue
		}
		if len(related) == 0 {
			continue
		}
		kept := &resultMap{Map: lm.Map.Clone(), cmd: lm.cmd}
		if !e.applyExtentMode(kept, related, op.Mode) {
			continue
		}
		out = append(out, kept)
	}
	return out
}

// combine pairs left maps with right maps by the operator's temporal
// relations and folds the right command strings into the left one.
// Left maps without any related right map are dropped. Mode "r"
// inverts the shape: one result per related right map, carrying that
// map's extent.
func (e *Evaluator) combine(left, right []*resultMap, op TemporalOperator, format func(a, b string) string) ([]*resultMap, error) {
	topo := tgis.BuildTopology(bareMaps(left), bareMaps(right), e.spatial)
	byMap := make(map[*tgis.Map]*resultMap, len(right))
	for _, rm := range right {
		byMap[rm.Map] = rm
	}

	var out []*resultMap
	for _, lm := range left {
		var related []*resultMap
		for _, rel := range op.Relations {
			for _, m := range topo.Related(lm.Map, rel) {
				related = append(related, byMap[m])
			}
		}
		if len(related) == 0 {
			continue
		}
		if op.Mode == ModeRight {
			for _, rm := range related {
				nm := &resultMap{Map: rm.Map.Clone(), cmd: format(lm.sub(), rm.sub())}
				out = append(out, nm)
			}
			continue
		}
		nm := &resultMap{Map: lm.Map.Clone()}
		cmd := lm.sub()
		keep := true
		for _, rm := range related {
			cmd = format(cmd, rm.sub())
			switch op.Mode {
			case ModeUnion, ModeDisjoint:
				nm.Extent = nm.Extent.Union(rm.Extent)
			case ModeIntersect:
				ext, ok := nm.Extent.Intersect(rm.Extent)
				if !ok {
					keep = false
				}
				nm.Extent = ext
			}
			if !keep {
				break
			}
		}
		if !keep {
			continue
		}
		nm.cmd = cmd
		out = append(out, nm)
	}
	return out, nil
}

// applyExtentMode rewrites m's extent against the related maps.
// Reports false when an intersection mode finds no overlap, in which
// case the map is dropped.
func (e *Evaluator) applyExtentMode(m *resultMap, related []*tgis.Map, mode ExtentMode) bool {
	switch mode {
	case ModeLeft:
		return true
	case ModeRight:
		// Selection with mode r keeps the first related extent.
		m.Extent = related[0].Extent
		return true
	case ModeUnion, ModeDisjoint:
		for _, r := range related {
			m.Extent = m.Extent.Union(r.Extent)
		}
		return true
	case ModeIntersect:
		for _, r := range related {
			ext, ok := m.Extent.Intersect(r.Extent)
			if !ok {
				return false
			}
			m.Extent = ext
		}
		return true
	}
	return true
}

func (e *Evaluator) evalConditional(ctx context.Context, n *Conditional) (value, error) {
	cond, err := e.eval(ctx, n.Cond)
	if err != nil {
		return value{}, err
	}
	if !cond.isMaps() {
		return value{}, errors.NewSyntaxError("if() condition must operate on dataset maps")
	}

	then, err := e.eval(ctx, n.Then)
	if err != nil {
		return value{}, err
	}
	var els value
	hasElse := n.Else != nil
	if hasElse {
		els, err = e.eval(ctx, n.Else)
		if err != nil {
			return value{}, err
		}
	}

	// Merge then and else into one conclusion list first, then pair
	// the conclusions with the condition maps by equal relation.
	conclusion, err := e.buildConclusion(then, els, hasElse)
	if err != nil {
		return value{}, err
	}

	ifOp := TemporalOperator{Op: "if", Relations: []tgis.Relation{tgis.RelationEqual}, Mode: ModeRight}
	if !conclusion.isMaps() {
		// Scalar conclusion: one result per condition map.
		return e.scalarFold(cond.maps, plainOperator("+"), func(sub string) string {
			return callString("if", []string{sub, conclusion.text})
		})
	}
	maps, err := e.combine(cond.maps, conclusion.maps, ifOp, func(c, concl string) string {
		return callString("if", []string{c, concl})
	})
	if err != nil {
		return value{}, err
	}
	return value{maps: maps}, nil
}

// buildConclusion joins the then and else branches into "then, else"
// snippets so the final if() call carries both alternatives.
func (e *Evaluator) buildConclusion(then, els value, hasElse bool) (value, error) {
	if !hasElse {
		return then, nil
	}
	switch {
	case then.isMaps() && els.isMaps():
		conclOp := TemporalOperator{Op: ",", Relations: []tgis.Relation{tgis.RelationEqual}, Mode: ModeLeft}
		maps, err := e.combine(then.maps, els.maps, conclOp, func(a, b string) string {
			return a + ", " + b
		})
		if err != nil {
			return value{}, err
		}
		return value{maps: maps}, nil
	case then.isMaps():
		out := make([]*resultMap, 0, len(then.maps))
		for _, m := range then.maps {
			out = append(out, &resultMap{Map: m.Map, cmd: m.sub() + ", " + els.text})
		}
		return value{maps: out}, nil
	case els.isMaps():
		out := make([]*resultMap, 0, len(els.maps))
		for _, m := range els.maps {
			out = append(out, &resultMap{Map: m.Map, cmd: then.text + ", " + m.sub()})
		}
		return value{maps: out}, nil
	default:
		return value{text: then.text + ", " + els.text}, nil
	}
}

func bareMaps(maps []*resultMap) []*tgis.Map {
	out := make([]*tgis.Map, len(maps))
	for i, m := range maps {
		out[i] = m.Map
	}
	return out
}
