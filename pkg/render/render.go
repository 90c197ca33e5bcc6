package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goccy/go-graphviz"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// Output formats accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT}
}

// Render converts DOT to the requested format.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return renderGraphviz(ctx, dot, graphviz.SVG)
	case FormatPNG:
		return renderGraphviz(ctx, dot, graphviz.PNG)
	case FormatPDF:
		svg, err := renderGraphviz(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, svg)
	}
	return nil, jerrors.New(jerrors.ErrCodeInvalidFormat,
		"unsupported image format %q (want %s)", format, strings.Join(Formats(), ", "))
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, jerrors.New(jerrors.ErrCodeUnsupported,
			"pdf export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
