// Package prescale parses prescale tables and derives the unprescaled trigger set.
package prescale

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultReference is the rate label used to decide which paths are unprescaled.
const DefaultReference = "2E34"

// Entry is one trigger path with one prescale per rate label.
type Entry struct {
	Name      string
	Prescales []int64
}

// Table is a parsed prescale table.
type Table struct {
	labels  []string
	entries []Entry
}

// Labels returns the rate labels in column order.
func (t *Table) Labels() []string { return append([]string(nil), t.labels...) }

// Entries returns the paths in file order.
func (t *Table) Entries() []Entry { return append([]Entry(nil), t.entries...) }

// Load reads a prescale CSV file.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening prescale table: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Parse(file)
}

// Parse reads a prescale table with a header "Name,<label>,<label>,...".
// Columns before Name (index columns) are ignored.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading prescale header: %w", err)
	}
	nameCol := -1
	for i, h := range header {
		if strings.TrimSpace(h) == "Name" {
			nameCol = i
			break
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("prescale header has no Name column: %v", header)
	}
	t := &Table{}
	for _, h := range header[nameCol+1:] {
		t.labels = append(t.labels, strings.TrimSpace(h))
	}

	seen := make(map[string]bool)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading prescale row: %w", err)
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			return nil, fmt.Errorf("line %d: empty path name", line)
		}
		if seen[name] {
			return nil, fmt.Errorf("line %d: duplicate path %q", line, name)
		}
		seen[name] = true

		e := Entry{Name: name, Prescales: make([]int64, len(t.labels))}
		for i, label := range t.labels {
			v, err := parsePrescale(row[nameCol+1+i])
			if err != nil {
				return nil, fmt.Errorf("line %d, path %q, label %s: %w", line, name, label, err)
			}
			e.Prescales[i] = v
		}
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// parsePrescale accepts integers, including integral floats such as "1.0".
func parsePrescale(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("prescale %q is not an integer", s)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("prescale %q is out of range", s)
	}
	return int64(f), nil
}

// Unprescaled returns the paths whose prescale at label equals exactly 1.
func (t *Table) Unprescaled(label string) (*Set, error) {
	col := -1
	for i, l := range t.labels {
		if l == label {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("unknown rate label %q; available: %s", label, strings.Join(t.labels, ", "))
	}
	s := &Set{index: make(map[string]bool)}
	for _, e := range t.entries {
		if e.Prescales[col] == 1 {
			s.names = append(s.names, e.Name)
			s.index[e.Name] = true
		}
	}
	return s, nil
}

// Set is a read-only set of unprescaled paths that remembers table order.
type Set struct {
	names []string
	index map[string]bool
}

// Names returns the paths in table order.
func (s *Set) Names() []string { return append([]string(nil), s.names...) }

// Contains reports membership.
func (s *Set) Contains(name string) bool { return s.index[name] }

// Len returns the set size.
func (s *Set) Len() int { return len(s.names) }
