package render

import (
	"context"
	"strings"
	"testing"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

func TestToDOT(t *testing.T) {
	dot := ToDOT([]int{0, 0, 1}, Options{Labels: []string{"a", "b"}, Title: "n=3"})

	for _, want := range []string{
		"graph Ring {",
		"layout=circo;",
		`label="n=3";`,
		`b0 [label="a"`,
		`b2 [label="b"`,
		"b0 -- b1;",
		"b1 -- b2;",
		"b2 -- b0;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTSmallRings(t *testing.T) {
	single := ToDOT([]int{0}, Options{})
	if strings.Contains(single, "--") {
		t.Error("a single bead has no edges")
	}

	pair := ToDOT([]int{0, 1}, Options{})
	if n := strings.Count(pair, "--"); n != 1 {
		t.Errorf("two beads should be joined once, got %d edges", n)
	}
}

func TestToDOTPalette(t *testing.T) {
	dot := ToDOT([]int{0, 1, 2}, Options{Palette: []string{"#000000", "#ffffff"}})
	if !strings.Contains(dot, `b0 [label="0", fillcolor="#000000", fontcolor="white"]`) {
		t.Errorf("dark fill should use white text:\n%s", dot)
	}
	if !strings.Contains(dot, `b1 [label="1", fillcolor="#ffffff", fontcolor="black"]`) {
		t.Errorf("light fill should use black text:\n%s", dot)
	}
	if !strings.Contains(dot, `b2 [label="2", fillcolor="#000000"`) {
		t.Errorf("palette should cycle:\n%s", dot)
	}
}

func TestSheetDOT(t *testing.T) {
	dot := SheetDOT([][]int{{0, 1, 0, 1}, {0, 0, 1, 1}}, Options{})
	for _, want := range []string{"subgraph cluster_0", "subgraph cluster_1", `label="#2"`, "w1_3 -- w1_0;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("SheetDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		hex  string
		dark bool
	}{
		{"#000000", true},
		{"#ffffff", false},
		{"#3d405b", true},
		{"#f4f1de", false},
		{"lightgrey", false},
		{"#zzzzzz", false},
	}
	for _, tt := range tests {
		if got := luminance(tt.hex) < 0.5; got != tt.dark {
			t.Errorf("luminance(%q) dark = %v, want %v", tt.hex, got, tt.dark)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := Render(context.Background(), ToDOT([]int{0, 1, 0, 2}, Options{}), FormatSVG)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("Render() output missing <svg> tag")
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := ToDOT([]int{0, 1}, Options{})
	out, err := Render(context.Background(), dot, "DOT")
	if err != nil || string(out) != dot {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(context.Background(), "not valid DOT {{{", FormatSVG); err == nil {
		t.Error("Render() should return error for invalid DOT")
	}
	_, err := Render(context.Background(), "graph G {}", "gif")
	if !jerrors.Is(err, jerrors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) = %v, want INVALID_FORMAT", err)
	}
}
