// Package csvutil reads the catalog export. Exports in the wild arrive in a
// handful of text encodings (the upstream tooling re-saves them on Windows),
// so the reader probes a prioritized encoding list and adopts the first one
// that decodes cleanly before handing the bytes to the CSV layer.
//
// The CSV layer itself is deliberately tolerant: LazyQuotes, variable field
// counts, and header-mapped rows. Production exports contain unbalanced
// quotes and rows that simply stop before the review columns; stable column
// access beats strictness for this data.
package csvutil

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// SourceReadError means the input could not be decoded or parsed at all.
// It is run-fatal: no batch is attempted after it.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// Row is one data row keyed by header name. Columns the row does not reach
// are absent from the map entirely, which is how product-only rows (no
// review_* cells) present themselves to callers.
type Row struct {
	// Line is the 1-based position in the export, counting the header as
	// line 1. Quoted multi-line fields make this an ordinal, not a physical
	// line number; it exists for failure reports, not for seeking.
	Line   int
	Fields map[string]string
}

// Get returns the named cell and whether the column exists on this row.
func (r Row) Get(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Value returns the named cell, or "" when the column is absent.
func (r Row) Value(name string) string { return r.Fields[name] }

// DecodeText decodes raw bytes using the first encoding in the probe order
// that decodes cleanly: utf-8, then windows-1252 (covers the usual
// smart-quote exports), then latin-1. latin-1 assigns every byte a code
// point, so the probe itself cannot fail; it returns the decoded text and
// the name of the adopted encoding.
func DecodeText(raw []byte) (string, string) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8"
	}
	if s, ok := decodeCharmap(raw, charmap.Windows1252); ok {
		return s, "windows-1252"
	}
	s, _ := decodeCharmap(raw, charmap.ISO8859_1)
	return s, "latin-1"
}

// decodeCharmap decodes raw with the given character map and reports whether
// the result is clean. Charmap decoders substitute U+FFFD for bytes outside
// the map instead of erroring, so "clean" means no replacement rune appeared.
func decodeCharmap(raw []byte, cm *charmap.Charmap) (string, bool) {
	out, _, err := transform.Bytes(cm.NewDecoder(), raw)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return string(out), false
	}
	return string(out), true
}

// ReadRows decodes and parses a whole export from r. It returns the rows,
// the adopted encoding name, and the first unrecoverable parse error.
func ReadRows(r io.Reader) ([]Row, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	text, enc := DecodeText(raw)

	cr := csv.NewReader(strings.NewReader(text))
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, enc, errors.New("empty input")
	}
	if err != nil {
		return nil, enc, fmt.Errorf("parse header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// A utf-8 export saved by Excel tends to carry a BOM on the first cell.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows []Row
	line := 1 // header
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, enc, fmt.Errorf("parse row after line %d: %w", line, err)
		}
		line++
		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				fields[h] = rec[i]
			}
		}
		rows = append(rows, Row{Line: line, Fields: fields})
	}
	return rows, enc, nil
}

// ReadFile opens path and reads every row. Any failure comes back as a
// *SourceReadError so callers can tell "the input is unusable" apart from
// per-row problems.
func ReadFile(path string) ([]Row, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &SourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	rows, enc, err := ReadRows(f)
	if err != nil {
		return nil, enc, &SourceReadError{Path: path, Err: err}
	}
	return rows, enc, nil
}
