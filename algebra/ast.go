// Package algebra parses temporal algebra expressions and lowers them
// to raster calculator command strings. An expression operates on
// space time datasets: binary operators pair their operand maps by
// temporal relation, fold the paired command strings, and combine the
// paired extents according to the operator's extent mode.
package algebra

import (
	"strings"

	"github.com/grass-svn2git/grass/errors"
	"github.com/grass-svn2git/grass/tgis"
)

// ExtentMode selects which temporal extent a paired result inherits.
type ExtentMode string

const (
	ModeLeft      ExtentMode = "l" // keep the left operand's extent
	ModeRight     ExtentMode = "r" // one result per related right map, with its extent
	ModeUnion     ExtentMode = "u" // union of both extents
	ModeIntersect ExtentMode = "i" // intersection, dropping disjoint pairs; a shared boundary degenerates to a point
	ModeDisjoint  ExtentMode = "d" // union without an overlap requirement
)

var extentModes = map[string]ExtentMode{
	"l": ModeLeft, "left": ModeLeft,
	"r": ModeRight, "right": ModeRight,
	"u": ModeUnion, "union": ModeUnion,
	"i": ModeIntersect, "intersect": ModeIntersect,
	"d": ModeDisjoint, "disjoint": ModeDisjoint,
}

// TemporalOperator is the decomposed form of a braced operator token.
// Plain operators get the defaults: relation "equal", mode "l".
type TemporalOperator struct {
	Op        string
	Relations []tgis.Relation
	Mode      ExtentMode
}

var bracedOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"&&": true, "||": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	":": true, "!:": true,
}

// ParseTemporalOperator decomposes "{op,relations,mode}". All three
// parts are optional: "{during}" is a selection over the during
// relation, "{+,follows}" keeps the default left extent mode.
func ParseTemporalOperator(text string) (TemporalOperator, error) {
	body := strings.TrimSpace(text)
	if !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return TemporalOperator{}, errors.NewSyntaxError("malformed temporal operator %q", text)
	}
	op := TemporalOperator{Op: ":", Relations: []tgis.Relation{tgis.RelationEqual}, Mode: ModeLeft}

	parts := strings.Split(body[1:len(body)-1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 0 || parts[0] == "" {
		return TemporalOperator{}, errors.NewSyntaxError("empty temporal operator %q", text)
	}

	idx := 0
	if bracedOps[parts[idx]] {
		op.Op = parts[idx]
		idx++
	}
	if idx < len(parts) && parts[idx] != "" {
		if _, ok := extentModes[parts[idx]]; !ok || strings.Contains(parts[idx], "|") {
			rels, err := tgis.ParseRelations(parts[idx])
			if err != nil {
				return TemporalOperator{}, err
			}
			op.Relations = rels
			idx++
		}
	}
	if idx < len(parts) {
		mode, ok := extentModes[parts[idx]]
		if !ok {
			return TemporalOperator{}, errors.NewSyntaxError("unknown extent mode %q in %q", parts[idx], text)
		}
		op.Mode = mode
		idx++
	}
	if idx != len(parts) {
		return TemporalOperator{}, errors.NewSyntaxError("trailing parts in temporal operator %q", text)
	}
	return op, nil
}

// plainOperator wraps a bare operator symbol with the default pairing
// behaviour.
func plainOperator(sym string) TemporalOperator {
	return TemporalOperator{Op: sym, Relations: []tgis.Relation{tgis.RelationEqual}, Mode: ModeLeft}
}

// Node is an expression tree node.
type Node interface {
	exprNode()
}

// Assignment is the top level statement form "result = expression".
type Assignment struct {
	Result string
	Expr   Node
}

// DatasetRef names a space time dataset whose registered maps become
// the operand list.
type DatasetRef struct {
	Name string
}

// Number is a numeric literal, passed through verbatim into the
// calculator expression.
type Number struct {
	Text string
}

// MapRef is a map(name) operand: a single raster map used without
// temporal extent, available in every pairing.
type MapRef struct {
	Name string
}

// Call is a raster calculator function applied to its arguments.
type Call struct {
	Func string
	Args []Node
}

// Binary applies a temporal operator between two operand lists.
type Binary struct {
	Op    TemporalOperator
	Left  Node
	Right Node
}

// Conditional is if(cond, then) or if(cond, then, else).
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

func (*DatasetRef) exprNode()  {}
func (*Number) exprNode()      {}
func (*MapRef) exprNode()      {}
func (*Call) exprNode()        {}
func (*Binary) exprNode()      {}
func (*Conditional) exprNode() {}
