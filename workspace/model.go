// Package workspace reads and writes the legacy XML project formats:
// gxm model files describing a chain of module invocations with their
// canvas layout, and gxw workspace files describing map displays and
// their layers. The writers reproduce the historical output format
// byte for byte, including the fixed-point formatting of relation
// control points, so files survive a round trip unchanged.
package workspace

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grass-svn2git/grass/errors"
)

// Position is a canvas coordinate pair.
type Position struct {
	X int
	Y int
}

// Size is a shape extent on the canvas.
type Size struct {
	Width  int
	Height int
}

// Point is a relation control point. Control points carry sub-pixel
// positions and are serialized with six decimal places.
type Point struct {
	X float64
	Y float64
}

// Flag is a module flag inside a task. A parameterized flag is exposed
// as a model variable; its value records the default.
type Flag struct {
	Name          string
	Value         bool
	Parameterized bool
}

// Parameter is a module option inside a task. Parameters without a
// value are not serialized.
type Parameter struct {
	Name          string
	Value         string
	Parameterized bool
}

// Task is one module invocation.
type Task struct {
	Name       string
	Flags      []Flag
	Parameters []Parameter
}

// Action is a model node running a task at a canvas position.
type Action struct {
	ID   int
	Name string
	Pos  Position
	Size Size
	Task Task
}

// Relation links a data node to an action, in either direction, with
// optional intermediate control points.
type Relation struct {
	Dir      string // "from" or "to"
	ActionID int
	Points   []Point
}

// Data is a model data node: a named parameter value shared between
// actions, optionally marked intermediate for cleanup after a run.
type Data struct {
	Pos          Position
	Size         Size
	Name         string
	Prompt       string
	Value        string
	Intermediate bool
	Relations    []Relation
}

// Model is a parsed gxm document.
type Model struct {
	Actions []Action
	Data    []Data
}

// xml decoding shadows. Positions and sizes are comma-joined attribute
// pairs and need manual splitting.

type xmlModel struct {
	XMLName xml.Name    `xml:"gxm"`
	Actions []xmlAction `xml:"action"`
	Data    []xmlData   `xml:"data"`
}

type xmlAction struct {
	ID   int     `xml:"id,attr"`
	Name string  `xml:"name,attr"`
	Pos  string  `xml:"pos,attr"`
	Size string  `xml:"size,attr"`
	Task xmlTask `xml:"task"`
}

type xmlTask struct {
	Name       string         `xml:"name,attr"`
	Flags      []xmlFlag      `xml:"flag"`
	Parameters []xmlParameter `xml:"parameter"`
}

type xmlFlag struct {
	Name          string `xml:"name,attr"`
	Value         string `xml:"value,attr"`
	Parameterized string `xml:"parameterized,attr"`
}

type xmlParameter struct {
	Name          string    `xml:"name,attr"`
	Parameterized *struct{} `xml:"parameterized"`
	Value         string    `xml:"value"`
}

type xmlData struct {
	Pos          string            `xml:"pos,attr"`
	Size         string            `xml:"size,attr"`
	Parameter    *xmlDataParameter `xml:"data-parameter"`
	Intermediate *struct{}         `xml:"intermediate"`
	Relations    []xmlRelation     `xml:"relation"`
}

type xmlDataParameter struct {
	Name   string `xml:"name,attr"`
	Prompt string `xml:"prompt,attr"`
	Value  string `xml:"value"`
}

type xmlRelation struct {
	Dir    string     `xml:"dir,attr"`
	ID     int        `xml:"id,attr"`
	Points []xmlPoint `xml:"point"`
}

type xmlPoint struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

func parsePair(attr string) (int, int, error) {
	parts := strings.SplitN(attr, ",", 2)
	if len(parts) != 2 {
		return 0, 0, errors.Newf("malformed coordinate pair %q", attr)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "malformed coordinate pair %q", attr)
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "malformed coordinate pair %q", attr)
	}
	return a, b, nil
}

// ReadModel parses a gxm document.
func ReadModel(r io.Reader) (*Model, error) {
	var doc xmlModel
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse model file")
	}

	m := &Model{}
	for _, a := range doc.Actions {
		action := Action{ID: a.ID, Name: a.Name}
		var err error
		if action.Pos.X, action.Pos.Y, err = parsePair(a.Pos); err != nil {
			return nil, err
		}
		if action.Size.Width, action.Size.Height, err = parsePair(a.Size); err != nil {
			return nil, err
		}
		action.Task = Task{Name: a.Task.Name}
		for _, f := range a.Task.Flags {
			// A serialized flag is set unless explicitly written with
			// value="0", which only parameterized flags are.
			action.Task.Flags = append(action.Task.Flags, Flag{
				Name:          f.Name,
				Value:         f.Value != "0",
				Parameterized: f.Parameterized == "1",
			})
		}
		for _, p := range a.Task.Parameters {
			action.Task.Parameters = append(action.Task.Parameters, Parameter{
				Name:          p.Name,
				Value:         p.Value,
				Parameterized: p.Parameterized != nil,
			})
		}
		m.Actions = append(m.Actions, action)
	}

	for _, d := range doc.Data {
		data := Data{Intermediate: d.Intermediate != nil}
		var err error
		if data.Pos.X, data.Pos.Y, err = parsePair(d.Pos); err != nil {
			return nil, err
		}
		if data.Size.Width, data.Size.Height, err = parsePair(d.Size); err != nil {
			return nil, err
		}
		if d.Parameter != nil {
			data.Name = d.Parameter.Name
			data.Prompt = d.Parameter.Prompt
			data.Value = d.Parameter.Value
		}
		for _, rel := range d.Relations {
			out := Relation{Dir: rel.Dir, ActionID: rel.ID}
			for _, pt := range rel.Points {
				out.Points = append(out.Points, Point{X: pt.X, Y: pt.Y})
			}
			data.Relations = append(data.Relations, out)
		}
		m.Data = append(m.Data, data)
	}
	return m, nil
}

// LoadModel reads a gxm file from disk.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open model file <%s>", path)
	}
	defer f.Close()
	return ReadModel(f)
}

// modelWriter renders the historical 4-space-indented output.
type modelWriter struct {
	w      io.Writer
	indent int
	err    error
}

func (mw *modelWriter) line(format string, args ...interface{}) {
	if mw.err != nil {
		return
	}
	_, mw.err = fmt.Fprintf(mw.w, strings.Repeat(" ", mw.indent)+format+"\n", args...)
}

// filterValue keeps the limited escaping of the historical writer.
func filterValue(v string) string {
	v = strings.ReplaceAll(v, "<", "&lt;")
	v = strings.ReplaceAll(v, ">", "&gt;")
	return v
}

// WriteModel serializes the model in the legacy gxm format. Action ids
// are renumbered sequentially from 1, matching the historical writer.
func WriteModel(w io.Writer, m *Model) error {
	mw := &modelWriter{w: w}
	mw.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	mw.line(`<!DOCTYPE gxm SYSTEM "grass-gxm.dtd">`)
	mw.line("<gxm>")

	mw.indent += 4
	for i := range m.Actions {
		a := &m.Actions[i]
		a.ID = i + 1
		mw.line(`<action id="%d" name="%s" pos="%d,%d" size="%d,%d">`,
			a.ID, a.Name, a.Pos.X, a.Pos.Y, a.Size.Width, a.Size.Height)
		mw.indent += 4
		mw.line(`<task name="%s">`, a.Task.Name)
		mw.indent += 4
		for _, f := range a.Task.Flags {
			switch {
			case f.Parameterized && !f.Value:
				mw.line(`<flag name="%s" value="0" parameterized="1" />`, f.Name)
			case f.Parameterized:
				mw.line(`<flag name="%s" parameterized="1" />`, f.Name)
			case f.Value:
				mw.line(`<flag name="%s" />`, f.Name)
			}
		}
		for _, p := range a.Task.Parameters {
			if p.Value == "" {
				continue
			}
			mw.line(`<parameter name="%s">`, p.Name)
			mw.indent += 4
			if p.Parameterized {
				mw.line(`<parameterized />`)
			}
			mw.line(`<value>%s</value>`, filterValue(p.Value))
			mw.indent -= 4
			mw.line(`</parameter>`)
		}
		mw.indent -= 4
		mw.line(`</task>`)
		mw.indent -= 4
		mw.line(`</action>`)
	}

	for _, d := range m.Data {
		mw.line(`<data pos="%d,%d" size="%d,%d">`,
			d.Pos.X, d.Pos.Y, d.Size.Width, d.Size.Height)
		mw.indent += 4
		mw.line(`<data-parameter name="%s" prompt="%s">`, d.Name, d.Prompt)
		mw.indent += 4
		mw.line(`<value>%s</value>`, filterValue(d.Value))
		mw.indent -= 4
		mw.line(`</data-parameter>`)
		if d.Intermediate {
			mw.line(`<intermediate />`)
		}
		for _, rel := range d.Relations {
			mw.line(`<relation dir="%s" id="%d">`, rel.Dir, rel.ActionID)
			mw.indent += 4
			for _, pt := range rel.Points {
				mw.line(`<point>`)
				mw.indent += 4
				mw.line(`<x>%f</x>`, pt.X)
				mw.line(`<y>%f</y>`, pt.Y)
				mw.indent -= 4
				mw.line(`</point>`)
			}
			mw.indent -= 4
			mw.line(`</relation>`)
		}
		mw.indent -= 4
		mw.line(`</data>`)
	}
	mw.indent -= 4

	mw.line("</gxm>")
	if mw.err != nil {
		return errors.Wrap(mw.err, "failed to write model file")
	}
	return nil
}

// SaveModel writes a gxm file to disk.
func SaveModel(path string, m *Model) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create model file <%s>", path)
	}
	if err := WriteModel(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
