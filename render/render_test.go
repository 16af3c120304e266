package render

import (
	"bytes"
	"strings"
	"testing"
)

// testModules builds a 625-module (25x25) sequence cycling through all
// four module values, the size every barcode the cronto package produces
// has.
func testModules() []byte {
	modules := make([]byte, 625)
	for i := range modules {
		modules[i] = byte(i % 4)
	}
	return modules
}

func TestSerializeRoundTrip(t *testing.T) {
	modules := testModules()

	s := Serialize(modules)
	if strings.ContainsAny(s, "+/=") {
		t.Errorf("Serialize produced non-URL-safe output: %q", s)
	}

	got, err := Deserialize(s)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !bytes.Equal(got, modules) {
		t.Errorf("round trip mismatch: got %d modules, want %d", len(got), len(modules))
	}
}

func TestDeserializeAcceptsPadded(t *testing.T) {
	modules := testModules()
	s := Serialize(modules) + "=="

	got, err := Deserialize(s)
	if err != nil {
		t.Fatalf("Deserialize with padding: %v", err)
	}
	if !bytes.Equal(got, modules) {
		t.Error("padded round trip mismatch")
	}
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	if _, err := Deserialize("not base64 !!"); err == nil {
		t.Error("Deserialize accepted invalid base64")
	}
}

func TestToSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := ToSVG(&buf, testModules(), true); err != nil {
		t.Fatalf("ToSVG: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Error("output is not an SVG document")
	}
	for _, fill := range []string{"fill:#f00", "fill:#0f0", "fill:#00f"} {
		if !strings.Contains(out, fill) {
			t.Errorf("output missing %q", fill)
		}
	}
	if !strings.Contains(out, "scale(16)") {
		t.Error("output missing the module scale transform")
	}
}

func TestToSVGWithoutBackground(t *testing.T) {
	var with, without bytes.Buffer
	if err := ToSVG(&with, testModules(), true); err != nil {
		t.Fatalf("ToSVG: %v", err)
	}
	if err := ToSVG(&without, testModules(), false); err != nil {
		t.Fatalf("ToSVG: %v", err)
	}
	if with.Len() <= without.Len() {
		t.Error("background did not add a background rect")
	}
}

func TestToSVGRejectsNonSquare(t *testing.T) {
	if err := ToSVG(&bytes.Buffer{}, make([]byte, 624), false); err == nil {
		t.Error("ToSVG accepted a non-square module sequence")
	}
	if err := ToSVG(&bytes.Buffer{}, nil, false); err == nil {
		t.Error("ToSVG accepted an empty module sequence")
	}
}

func TestTextGrid(t *testing.T) {
	// 2x2 matrix laid out column-major: column 0 is [1, 2], column 1 is
	// [3, 0]; rows print as "13" and "20".
	var buf bytes.Buffer
	if err := Text(&buf, []byte{1, 2, 3, 0}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "13\n20\n"
	if buf.String() != want {
		t.Errorf("Text = %q, want %q", buf.String(), want)
	}
}
