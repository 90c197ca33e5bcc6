package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/jeweler/pkg/combin"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// ReadJSON decodes a document written by [WriteJSON] or a streaming JSON
// [Encoder].
//
// ReadJSON returns an INVALID_FORMAT error if:
//   - The JSON is malformed
//   - The content specification is invalid
//   - A word does not have the declared counts
//   - "count" disagrees with the number of results
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "decode document")
	}
	spec := doc.Spec()
	if err := spec.Validate(); err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "document content")
	}
	if doc.K != 0 && doc.K != spec.K() {
		return nil, jerrors.New(jerrors.ErrCodeInvalidFormat, "k is %d but counts name %d colors", doc.K, spec.K())
	}
	doc.K = spec.K()
	if doc.Count != len(doc.Results) {
		return nil, jerrors.New(jerrors.ErrCodeInvalidFormat, "count is %d but %d results are listed", doc.Count, len(doc.Results))
	}
	for i, w := range doc.Results {
		if err := checkContent(w, doc.Counts); err != nil {
			return nil, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "result %d", i)
		}
	}
	return &doc, nil
}

// ReadNDJSON decodes one JSON array per line. Blank lines are skipped.
func ReadNDJSON(r io.Reader) ([][]int, error) {
	var words [][]int
	err := scanLines(r, func(line string, n int) error {
		var w []int
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			return jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "line %d", n)
		}
		words = append(words, w)
		return nil
	})
	return words, err
}

// ReadText decodes the text format. The "Total = N" trailer is optional;
// when present it must match the number of words.
func ReadText(r io.Reader) ([][]int, error) {
	var words [][]int
	total := -1
	err := scanLines(r, func(line string, n int) error {
		if rest, ok := strings.CutPrefix(line, "Total ="); ok {
			t, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				return jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "line %d", n)
			}
			total = t
			return nil
		}
		fields := strings.Fields(line)
		w := make([]int, len(fields))
		for i, f := range fields {
			c, err := strconv.Atoi(f)
			if err != nil {
				return jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "line %d", n)
			}
			w[i] = c
		}
		words = append(words, w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if total >= 0 && total != len(words) {
		return nil, jerrors.New(jerrors.ErrCodeInvalidFormat, "trailer says %d words, found %d", total, len(words))
	}
	return words, nil
}

// Read decodes words in format. JSON documents are validated as in
// [ReadJSON].
func Read(r io.Reader, format string) ([][]int, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		doc, err := ReadJSON(r)
		if err != nil {
			return nil, err
		}
		return doc.Results, nil
	case FormatNDJSON:
		return ReadNDJSON(r)
	default:
		return ReadText(r)
	}
}

func scanLines(r io.Reader, fn func(line string, n int) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn(line, n); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}

// checkContent verifies that word uses exactly counts[i] copies of color i.
func checkContent(word, counts []int) error {
	n := 0
	for _, c := range counts {
		n += c
	}
	if len(word) != n {
		return fmt.Errorf("word has length %d, want %d", len(word), n)
	}
	got := combin.Content(word, len(counts))
	for c := range counts {
		if got[c] != counts[c] {
			return fmt.Errorf("color %d occurs %d times, want %d", c, got[c], counts[c])
		}
	}
	return nil
}
