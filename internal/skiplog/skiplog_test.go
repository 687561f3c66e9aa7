package skiplog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestNew_CreatesDirFileAndHeader verifies that New:
//  1. creates the missing directory,
//  2. creates the CSV file,
//  3. writes the fixed header row immediately.
func TestNew_CreatesDirFileAndHeader(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "skipped")

	l, err := New(dir, "skipped_catalog.csv")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "skipped_catalog.csv"))
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row (header), got %d: %#v", len(rows), rows)
	}
	wantHeader := []string{"line_number", "product_id", "field", "reason"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header mismatch\ngot : %#v\nwant: %#v", rows[0], wantHeader)
	}
}

// TestAdd_WritesRowsAndCounts ensures Add appends properly quoted CSV rows
// and accumulates the per-reason counters.
func TestAdd_WritesRowsAndCounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := New(dir, "skipped.csv")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	type in struct {
		line      int
		productID string
		field     string
		reason    string
	}
	inputs := []in{
		{2, "B001", "discounted_price", "not a number"},
		{3, "", "product_id", "missing value"},
		{7, "B002", "actual_price", "not a number"},
	}
	for _, x := range inputs {
		l.Add(x.line, x.productID, x.field, x.reason)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "skipped.csv"))
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(rows) != 1+len(inputs) {
		t.Fatalf("want %d rows, got %d: %#v", 1+len(inputs), len(rows), rows)
	}
	want := []string{"3", "", "product_id", "missing value"}
	if !reflect.DeepEqual(rows[2], want) {
		t.Fatalf("row mismatch\ngot : %#v\nwant: %#v", rows[2], want)
	}

	if got := l.Reasons()["not a number"]; got != 2 {
		t.Fatalf("not-a-number count=%d want 2", got)
	}
	if got := l.Reasons()["missing value"]; got != 1 {
		t.Fatalf("missing-value count=%d want 1", got)
	}
	if len(l.Reasons()) != 2 {
		t.Fatalf("unexpected reasons map: %#v", l.Reasons())
	}
}
