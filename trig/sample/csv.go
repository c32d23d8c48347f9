package sample

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/llp-triggers/trigeff/trig"
)

// CSV reads event tables from CSV files: a header of column names, then one row
// per event. A column whose values are all true/false is boolean; any other
// column is parsed as float64.
type CSV struct{}

// Load implements trig.Source.
func (CSV) Load(ctx context.Context, path string, req trig.LoadRequest) (*trig.Table, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening event table: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(ctx, file, req)
}

// ReadCSV parses an event table from r.
func ReadCSV(ctx context.Context, r io.Reader, req trig.LoadRequest) (*trig.Table, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading CSV header: %w", err)
	}
	var keep []int
	for i, name := range header {
		if req.Wants(strings.TrimSpace(name)) {
			keep = append(keep, i)
		}
	}

	raw := make([][]string, len(keep))
	n := 0
	for {
		if req.EntryStop > 0 && int64(n) >= req.EntryStop {
			break
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading CSV row %d: %w", n+1, err)
		}
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		for j, col := range keep {
			raw[j] = append(raw[j], strings.TrimSpace(row[col]))
		}
		n++
	}

	t := trig.NewTable(n)
	for j, col := range keep {
		name := strings.TrimSpace(header[col])
		if bools, ok := parseBools(raw[j]); ok {
			if err := t.AddBool(name, bools); err != nil {
				return nil, 0, err
			}
			continue
		}
		values := make([]float64, n)
		for i, s := range raw[j] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("column %q row %d: %w", name, i+1, err)
			}
			values[i] = v
		}
		if err := t.AddScore(name, values); err != nil {
			return nil, 0, err
		}
	}
	return t, n, nil
}

// parseBools converts a column of literal true/false values.
func parseBools(values []string) ([]bool, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]bool, len(values))
	for i, s := range values {
		switch strings.ToLower(s) {
		case "true":
			out[i] = true
		case "false":
		default:
			return nil, false
		}
	}
	return out, true
}
