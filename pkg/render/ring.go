package render

import (
	"bytes"
	"fmt"
	"strconv"
)

// DefaultPalette fills beads by color index, cycling when a word uses more
// colors than the palette holds.
var DefaultPalette = []string{
	"#f4f1de", "#e07a5f", "#3d405b", "#81b29a", "#f2cc8f",
	"#6d597a", "#b56576", "#355070", "#eaac8b", "#8ecae6",
}

// Options configures ring drawing.
type Options struct {
	// Labels names the colors; color i is written as Labels[i] when present
	// and as its index otherwise.
	Labels []string

	// Palette overrides DefaultPalette.
	Palette []string

	// Title is drawn under the ring. Empty means no title.
	Title string
}

// ToDOT returns a Graphviz DOT ring for word.
func ToDOT(word []int, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph Ring {\n")
	writeHeader(&buf)
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=b;\n", opts.Title)
	}
	buf.WriteString("\n")
	writeRing(&buf, word, "b", opts)
	buf.WriteString("}\n")
	return buf.String()
}

// SheetDOT returns one DOT graph holding a ring per word. Ring i is titled
// with its one-based position.
func SheetDOT(words [][]int, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph Sheet {\n")
	writeHeader(&buf)
	buf.WriteString("  pack=true;\n  packmode=\"array_u\";\n")
	for i, w := range words {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n    label=\"#%d\";\n    color=transparent;\n", i, i+1)
		writeRing(&buf, w, "w"+strconv.Itoa(i)+"_", opts)
		buf.WriteString("  }\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  mindist=0.4;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontname=\"SF Mono, Menlo, monospace\", fontsize=14, width=0.45, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=2, color=\"#555555\"];\n")
}

// writeRing emits the beads of word and the cyclic edges between them.
func writeRing(buf *bytes.Buffer, word []int, prefix string, opts Options) {
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	for i, c := range word {
		fmt.Fprintf(buf, "  %s%d [label=%q, fillcolor=%q, fontcolor=%q];\n",
			prefix, i, colorLabel(c, opts.Labels), palette[c%len(palette)], fontColor(c, palette))
	}
	if len(word) < 2 {
		return
	}
	for i := range word {
		j := (i + 1) % len(word)
		if len(word) == 2 && i == 1 {
			break
		}
		fmt.Fprintf(buf, "  %s%d -- %s%d;\n", prefix, i, prefix, j)
	}
}

func colorLabel(c int, labels []string) string {
	if c >= 0 && c < len(labels) && labels[c] != "" {
		return labels[c]
	}
	return strconv.Itoa(c)
}

// fontColor picks white text on dark fills.
func fontColor(c int, palette []string) string {
	if luminance(palette[c%len(palette)]) < 0.5 {
		return "white"
	}
	return "black"
}

// luminance approximates the relative brightness of a "#rrggbb" color.
// Other notations count as bright.
func luminance(hex string) float64 {
	if len(hex) != 7 || hex[0] != '#' {
		return 1
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 1
	}
	r, g, b := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	return (0.299*r + 0.587*g + 0.114*b) / 255
}
