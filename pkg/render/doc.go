// Package render draws words as rings of colored beads.
//
// A word is laid out on a circle in reading order, so rotations of the same
// necklace produce the same picture up to orientation. [ToDOT] emits
// Graphviz DOT using the circo layout; [Render] turns DOT into SVG, PNG or
// PDF:
//
//	dot := render.ToDOT([]int{0, 0, 1, 0, 1, 2}, render.Options{})
//	svg, err := render.Render(ctx, dot, render.FormatSVG)
//
// [SheetDOT] places several words side by side, one ring each, which is how
// the CLI previews a whole enumeration.
//
// PDF output shells out to rsvg-convert (librsvg); SVG and PNG are produced
// by the embedded Graphviz.
package render
