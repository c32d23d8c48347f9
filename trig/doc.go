// Package trig provides the trigger-efficiency engine for trigeff.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - table.go: per-event columns (boolean trigger decisions, continuous AD scores)
//   - selector.go: best unprescaled trigger selection
//   - evaluator.go: efficiency metrics for one grid point
//   - aggregator.go: grid traversal, fixed result schema, histogram store
//
// # Architecture
//
// The trig package defines the core types and the Source interface; the adapters
// around it live in sub-packages:
//   - trig/prescale/: prescale table parsing and the unprescaled set
//   - trig/sample/: event table sources (ROOT files, CSV, in-memory)
//   - trig/signal/: declarative signal grids loaded from YAML
//   - trig/report/: JSON and CSV result writers
//   - trig/trace/: best-trigger decision records
//
// # Grid Order
//
// Rows of a SignalResult follow signal.Points(): lifetime outer, dark mass middle,
// mass inner. Downstream plotting indexes rows positionally, so this order is part
// of the output contract.
package trig
