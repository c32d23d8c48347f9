// Package report persists grid-scan results: one JSON document per run holding
// every signal's result table and histogram store, and one CSV table per signal.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/llp-triggers/trigeff/trig"
	"github.com/llp-triggers/trigeff/trig/signal"
)

// Document is the persisted output of one run.
type Document struct {
	RunID     string              `json:"run_id"`
	CreatedAt time.Time           `json:"created_at"`
	Mode      string              `json:"mode"`
	Reference string              `json:"reference"`
	Signals   []trig.SignalResult `json:"signals"`
}

// NewDocument creates a document with a fresh run ID.
func NewDocument(mode, reference string) *Document {
	return &Document{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Mode:      mode,
		Reference: reference,
	}
}

// JSONName returns the results file name for an output suffix.
func JSONName(suffix string) string {
	return fmt.Sprintf("trigger_eff_results_%s.json", suffix)
}

// CSVName returns the per-signal table file name for an output suffix.
func CSVName(suffix, signalName string) string {
	return fmt.Sprintf("trigger_eff_results_%s_%s.csv", suffix, signalName)
}

// WriteJSON writes doc to dir/JSONName(suffix) and returns the path.
func WriteJSON(dir, suffix string, doc *Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling results: %w", err)
	}
	path := filepath.Join(dir, JSONName(suffix))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing results: %w", err)
	}
	return path, nil
}

// ReadJSON loads a document written by WriteJSON.
func ReadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}
	return &doc, nil
}

// WriteCSV writes one table per signal and returns the paths. The header is
// the coordinate columns, best_name, then the schema's value columns; cells
// that were not computed are left empty.
func WriteCSV(dir, suffix string, doc *Document) ([]string, error) {
	var paths []string
	for i := range doc.Signals {
		res := &doc.Signals[i]
		path := filepath.Join(dir, CSVName(suffix, res.Name))
		if err := writeSignalCSV(path, res); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSignalCSV(path string, res *trig.SignalResult) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	header := append(append([]string(nil), res.Schema.Coordinates...), "best_name")
	header = append(header, res.Schema.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, row := range res.Rows {
		record := make([]string, 0, len(header))
		for _, c := range row.Coords {
			record = append(record, signal.FormatCoord(c))
		}
		record = append(record, row.BestName)
		for _, cell := range row.Cells {
			record = append(record, cell.String())
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
