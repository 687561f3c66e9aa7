// Package skiplog writes per-run CSV logs of rows the loader excluded, so
// data-quality problems can be fixed upstream instead of vanishing into a
// counter.
package skiplog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

// Log is one skipped-rows CSV plus per-reason tallies.
type Log struct {
	reasons map[string]int
	w       *csv.Writer
	f       *os.File
}

// New creates dir if needed and opens the named skipped-rows CSV inside it,
// writing the header row immediately.
func New(dir, name string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"line_number", "product_id", "field", "reason"})
	return &Log{reasons: make(map[string]int), w: w, f: f}, nil
}

// Add records one excluded row.
func (l *Log) Add(line int, productID, field, reason string) {
	l.reasons[reason]++
	_ = l.w.Write([]string{strconv.Itoa(line), productID, field, reason})
}

// Reasons returns the reason -> count tallies accumulated so far.
func (l *Log) Reasons() map[string]int { return l.reasons }

// Close flushes buffered rows and closes the file.
func (l *Log) Close() error {
	l.w.Flush()
	return l.f.Close()
}
