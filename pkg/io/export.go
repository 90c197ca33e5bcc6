package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// Supported formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatNDJSON}
}

// ParseFormat validates a format name. An empty name selects text.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", "txt", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON, "jsonl":
		return FormatNDJSON, nil
	}
	return "", jerrors.New(jerrors.ErrCodeInvalidFormat,
		"unsupported format %q (want %s)", s, strings.Join(Formats(), ", "))
}

// Document is the JSON representation of one enumeration.
type Document struct {
	N       int           `json:"n"`
	K       int           `json:"k"`
	Counts  []int         `json:"counts"`
	Mode    bracelet.Mode `json:"mode"`
	Count   int           `json:"count"`
	Results [][]int       `json:"results"`
}

// NewDocument describes words enumerated for spec under mode.
func NewDocument(spec bracelet.Spec, mode bracelet.Mode, words [][]int) *Document {
	if words == nil {
		words = [][]int{}
	}
	return &Document{
		N:       spec.N,
		K:       spec.K(),
		Counts:  spec.Counts,
		Mode:    mode,
		Count:   len(words),
		Results: words,
	}
}

// Spec returns the content specification of the document.
func (d *Document) Spec() bracelet.Spec {
	return bracelet.Spec{N: d.N, Counts: d.Counts}
}

// Write encodes doc in format.
func Write(w io.Writer, format string, doc *Document) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if f == FormatJSON {
		return WriteJSON(w, doc)
	}
	enc, err := NewEncoder(w, f, doc.Spec(), doc.Mode)
	if err != nil {
		return err
	}
	for _, word := range doc.Results {
		if err := enc.Encode(word); err != nil {
			return err
		}
	}
	return enc.Close()
}

// WriteText writes words one per line, followed by the total.
func WriteText(w io.Writer, words [][]int) error {
	return Write(w, FormatText, &Document{Results: words})
}

// WriteJSON encodes doc as an indented JSON document.
// The output can be re-imported with [ReadJSON].
func WriteJSON(w io.Writer, doc *Document) error {
	out := *doc
	if out.Results == nil {
		out.Results = [][]int{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteNDJSON writes one JSON array per word.
func WriteNDJSON(w io.Writer, words [][]int) error {
	return Write(w, FormatNDJSON, &Document{Results: words})
}

// ExportFile writes doc to path in format.
// This is a convenience wrapper around [Write] for file-based output.
func ExportFile(path, format string, doc *Document) error {
	if err := jerrors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, format, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encoder writes words incrementally. Call Close to write the trailer and
// flush.
type Encoder struct {
	w      *bufio.Writer
	format string
	count  int
	buf    []byte
}

// NewEncoder returns an encoder for format. For JSON the document header
// (n, k, counts, mode) is written immediately.
func NewEncoder(w io.Writer, format string, spec bracelet.Spec, mode bracelet.Mode) (*Encoder, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	e := &Encoder{w: bufio.NewWriter(w), format: f}
	if f == FormatJSON {
		counts, err := json.Marshal(nonNil(spec.Counts))
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(e.w, "{\n  \"n\": %d,\n  \"k\": %d,\n  \"counts\": %s,\n  \"mode\": %q,\n  \"results\": [",
			spec.N, spec.K(), counts, mode.String())
	}
	return e, nil
}

// Encode writes one word.
func (e *Encoder) Encode(word []int) error {
	e.buf = e.buf[:0]
	switch e.format {
	case FormatText:
		for i, c := range word {
			if i > 0 {
				e.buf = append(e.buf, ' ')
			}
			e.buf = strconv.AppendInt(e.buf, int64(c), 10)
		}
		e.buf = append(e.buf, '\n')
	case FormatJSON:
		if e.count > 0 {
			e.buf = append(e.buf, ',')
		}
		e.buf = append(e.buf, "\n    "...)
		e.buf = appendArray(e.buf, word)
	case FormatNDJSON:
		e.buf = appendArray(e.buf, word)
		e.buf = append(e.buf, '\n')
	}
	if _, err := e.w.Write(e.buf); err != nil {
		return err
	}
	e.count++
	return nil
}

// Flush pushes buffered words to the underlying writer without writing the
// trailer. Use it when a stream ends early; the output is then a truncated
// document (JSON is left unterminated).
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// Count returns the number of words encoded so far.
func (e *Encoder) Count() int { return e.count }

// Close writes the format trailer and flushes. It does not close the
// underlying writer.
func (e *Encoder) Close() error {
	switch e.format {
	case FormatText:
		fmt.Fprintf(e.w, "Total = %d\n", e.count)
	case FormatJSON:
		if e.count > 0 {
			e.w.WriteString("\n  ")
		}
		fmt.Fprintf(e.w, "],\n  \"count\": %d\n}\n", e.count)
	}
	return e.w.Flush()
}

func appendArray(buf []byte, word []int) []byte {
	buf = append(buf, '[')
	for i, c := range word {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(c), 10)
	}
	return append(buf, ']')
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}
