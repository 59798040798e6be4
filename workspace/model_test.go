package workspace

import (
	"bytes"
	"strings"
	"testing"
)

func testModel() *Model {
	return &Model{
		Actions: []Action{
			{
				Name: "r.buffer",
				Pos:  Position{X: 100, Y: 50},
				Size: Size{Width: 100, Height: 50},
				Task: Task{
					Name: "r.buffer",
					Flags: []Flag{
						{Name: "z", Value: true},
						{Name: "overwrite", Value: true, Parameterized: true},
						{Name: "q", Parameterized: true},
						{Name: "verbose"},
					},
					Parameters: []Parameter{
						{Name: "input", Value: "roads@PERMANENT"},
						{Name: "output", Value: "roads_buf", Parameterized: true},
						{Name: "units", Value: ""},
					},
				},
			},
		},
		Data: []Data{
			{
				Pos:          Position{X: 300, Y: 50},
				Size:         Size{Width: 175, Height: 50},
				Name:         "output",
				Prompt:       "raster",
				Value:        "roads_buf",
				Intermediate: true,
				Relations: []Relation{
					{
						Dir:      "to",
						ActionID: 1,
						Points:   []Point{{X: 247.5, Y: 75}},
					},
				},
			},
		},
	}
}

const testModelXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE gxm SYSTEM "grass-gxm.dtd">
<gxm>
    <action id="1" name="r.buffer" pos="100,50" size="100,50">
        <task name="r.buffer">
            <flag name="z" />
            <flag name="overwrite" parameterized="1" />
            <flag name="q" value="0" parameterized="1" />
            <parameter name="input">
                <value>roads@PERMANENT</value>
            </parameter>
            <parameter name="output">
                <parameterized />
                <value>roads_buf</value>
            </parameter>
        </task>
    </action>
    <data pos="300,50" size="175,50">
        <data-parameter name="output" prompt="raster">
            <value>roads_buf</value>
        </data-parameter>
        <intermediate />
        <relation dir="to" id="1">
            <point>
                <x>247.500000</x>
                <y>75.000000</y>
            </point>
        </relation>
    </data>
</gxm>
`

func TestWriteModel(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteModel(&buf, testModel()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != testModelXML {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, testModelXML)
	}
}

func TestModelRoundTrip(t *testing.T) {
	var first bytes.Buffer
	if err := WriteModel(&first, testModel()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := ReadModel(&first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The unset, non-parameterized flag and the empty parameter are not
	// serialized, so they vanish; everything else survives.
	if len(m.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(m.Actions))
	}
	a := m.Actions[0]
	if a.ID != 1 || a.Name != "r.buffer" || a.Pos != (Position{100, 50}) {
		t.Errorf("action = %+v", a)
	}
	if len(a.Task.Flags) != 3 {
		t.Fatalf("flags = %+v, want 3 entries", a.Task.Flags)
	}
	if f := a.Task.Flags[2]; f.Name != "q" || f.Value || !f.Parameterized {
		t.Errorf("parameterized unset flag = %+v", f)
	}
	if len(a.Task.Parameters) != 2 {
		t.Fatalf("parameters = %+v, want 2 entries", a.Task.Parameters)
	}
	if p := a.Task.Parameters[1]; p.Value != "roads_buf" || !p.Parameterized {
		t.Errorf("parameterized parameter = %+v", p)
	}

	if len(m.Data) != 1 {
		t.Fatalf("data = %d, want 1", len(m.Data))
	}
	d := m.Data[0]
	if !d.Intermediate || d.Name != "output" || d.Prompt != "raster" {
		t.Errorf("data = %+v", d)
	}
	if len(d.Relations) != 1 || len(d.Relations[0].Points) != 1 {
		t.Fatalf("relations = %+v", d.Relations)
	}
	if pt := d.Relations[0].Points[0]; pt.X != 247.5 || pt.Y != 75 {
		t.Errorf("control point = %+v", pt)
	}

	// A second write is byte-identical: the format is stable.
	var second bytes.Buffer
	if err := WriteModel(&second, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.String() != testModelXML {
		t.Errorf("second write differs:\n%s", second.String())
	}
}

func TestReadModelEscapedValues(t *testing.T) {
	input := strings.Replace(testModelXML,
		"<value>roads@PERMANENT</value>",
		"<value>roads@PERMANENT &lt; filtered &gt;</value>", 1)
	m, err := ReadModel(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Actions[0].Task.Parameters[0].Value; got != "roads@PERMANENT < filtered >" {
		t.Errorf("value = %q", got)
	}
}

func TestReadModelMalformedPos(t *testing.T) {
	input := strings.Replace(testModelXML, `pos="100,50"`, `pos="100"`, 1)
	if _, err := ReadModel(strings.NewReader(input)); err == nil {
		t.Error("expected error for malformed pos attribute")
	}
}
