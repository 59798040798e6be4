package workspace

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/grass-svn2git/grass/errors"
)

// MapExtent is the geographic window of a display.
type MapExtent struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Layer is one map layer of a display: the rendering task plus its
// tree state.
type Layer struct {
	Type    string
	Name    string
	Checked bool
	Opacity float64
	Task    Task
}

// Display is one map display window with its layer stack, bottom
// first.
type Display struct {
	Render         bool
	Mode           int
	ShowCompExtent bool
	Dim            string // window geometry "x,y,width,height"
	Extent         *MapExtent
	Layers         []Layer
}

// Workspace is a parsed gxw document.
type Workspace struct {
	Title    string
	Displays []Display
}

type xmlWorkspace struct {
	XMLName  xml.Name     `xml:"gxw"`
	Title    string       `xml:"title"`
	Displays []xmlDisplay `xml:"display"`
}

type xmlDisplay struct {
	Render         string        `xml:"render,attr"`
	Mode           int           `xml:"mode,attr"`
	ShowCompExtent string        `xml:"showCompExtent,attr"`
	Dim            string        `xml:"dim,attr"`
	Extent         *xmlMapExtent `xml:"map_extent"`
	Layers         []xmlLayer    `xml:"layer"`
}

type xmlMapExtent struct {
	North float64 `xml:"north"`
	South float64 `xml:"south"`
	East  float64 `xml:"east"`
	West  float64 `xml:"west"`
}

type xmlLayer struct {
	Type    string  `xml:"type,attr"`
	Name    string  `xml:"name,attr"`
	Checked string  `xml:"checked,attr"`
	Opacity string  `xml:"opacity,attr"`
	Task    xmlTask `xml:"task"`
}

// ReadWorkspace parses a gxw document.
func ReadWorkspace(r io.Reader) (*Workspace, error) {
	var doc xmlWorkspace
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse workspace file")
	}

	w := &Workspace{Title: doc.Title}
	for _, d := range doc.Displays {
		display := Display{
			Render:         d.Render == "1",
			Mode:           d.Mode,
			ShowCompExtent: d.ShowCompExtent == "1",
			Dim:            d.Dim,
		}
		if d.Extent != nil {
			display.Extent = &MapExtent{
				North: d.Extent.North, South: d.Extent.South,
				East: d.Extent.East, West: d.Extent.West,
			}
		}
		for _, l := range d.Layers {
			opacity := 1.0
			if l.Opacity != "" {
				v, err := strconv.ParseFloat(l.Opacity, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "malformed layer opacity %q", l.Opacity)
				}
				opacity = v
			}
			layer := Layer{
				Type:    l.Type,
				Name:    l.Name,
				Checked: l.Checked == "1",
				Opacity: opacity,
				Task:    Task{Name: l.Task.Name},
			}
			for _, f := range l.Task.Flags {
				layer.Task.Flags = append(layer.Task.Flags, Flag{
					Name:  f.Name,
					Value: f.Value != "0",
				})
			}
			for _, p := range l.Task.Parameters {
				layer.Task.Parameters = append(layer.Task.Parameters, Parameter{
					Name:  p.Name,
					Value: p.Value,
				})
			}
			display.Layers = append(display.Layers, layer)
		}
		w.Displays = append(w.Displays, display)
	}
	return w, nil
}

// LoadWorkspace reads a gxw file from disk.
func LoadWorkspace(path string) (*Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workspace file <%s>", path)
	}
	defer f.Close()
	return ReadWorkspace(f)
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WriteWorkspace serializes the workspace in the legacy gxw format.
func WriteWorkspace(wr io.Writer, w *Workspace) error {
	mw := &modelWriter{w: wr}
	mw.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	mw.line(`<!DOCTYPE gxw SYSTEM "grass-gxw.dtd">`)
	mw.line("<gxw>")
	mw.indent += 4
	if w.Title != "" {
		mw.line(`<title>%s</title>`, filterValue(w.Title))
	}
	for _, d := range w.Displays {
		mw.line(`<display render="%s" mode="%d" showCompExtent="%s" dim="%s">`,
			boolAttr(d.Render), d.Mode, boolAttr(d.ShowCompExtent), d.Dim)
		mw.indent += 4
		if d.Extent != nil {
			mw.line(`<map_extent>`)
			mw.indent += 4
			mw.line(`<north>%s</north>`, coord(d.Extent.North))
			mw.line(`<south>%s</south>`, coord(d.Extent.South))
			mw.line(`<east>%s</east>`, coord(d.Extent.East))
			mw.line(`<west>%s</west>`, coord(d.Extent.West))
			mw.indent -= 4
			mw.line(`</map_extent>`)
		}
		for _, l := range d.Layers {
			mw.line(`<layer type="%s" name="%s" checked="%s" opacity="%s">`,
				l.Type, l.Name, boolAttr(l.Checked), opacityAttr(l.Opacity))
			mw.indent += 4
			mw.line(`<task name="%s">`, l.Task.Name)
			mw.indent += 4
			for _, f := range l.Task.Flags {
				if f.Value {
					mw.line(`<flag name="%s" />`, f.Name)
				}
			}
			for _, p := range l.Task.Parameters {
				if p.Value == "" {
					continue
				}
				mw.line(`<parameter name="%s">`, p.Name)
				mw.indent += 4
				mw.line(`<value>%s</value>`, filterValue(p.Value))
				mw.indent -= 4
				mw.line(`</parameter>`)
			}
			mw.indent -= 4
			mw.line(`</task>`)
			mw.indent -= 4
			mw.line(`</layer>`)
		}
		mw.indent -= 4
		mw.line(`</display>`)
	}
	mw.indent -= 4
	mw.line("</gxw>")
	if mw.err != nil {
		return errors.Wrap(mw.err, "failed to write workspace file")
	}
	return nil
}

// SaveWorkspace writes a gxw file to disk.
func SaveWorkspace(path string, w *Workspace) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create workspace file <%s>", path)
	}
	if err := WriteWorkspace(f, w); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func opacityAttr(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
