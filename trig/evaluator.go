package trig

import "fmt"

// Evaluator computes the efficiency metrics of one sample.
// It holds only read-only configuration and is safe for concurrent use.
type Evaluator struct {
	Bank   ThresholdBank
	Scores []string // score evaluation order; bank variables not listed are ignored
	Mode   string   // name of the OR-of-interest metric; DefaultMode when empty
}

// NewEvaluator builds an Evaluator from a score configuration.
func NewEvaluator(cfg ScoreConfig, mode string) *Evaluator {
	if mode == "" {
		mode = DefaultMode
	}
	return &Evaluator{Bank: cfg.Bank(), Scores: cfg.Names(), Mode: mode}
}

// Evaluate computes, for denom events:
//   - "best": the best trigger alone
//   - Mode: the OR of all interest triggers present in t
//   - "<trig>" and "best+<trig>" for each interest trigger present in t
//   - per score present in t and in the bank, per rate: AD alone, AD OR best, AD OR Mode
//
// Interest and score columns missing from t are skipped.
func (e *Evaluator) Evaluate(t *Table, interest []string, best string, denom int) (Record, error) {
	if denom <= 0 {
		return nil, fmt.Errorf("denom %d: %w", denom, ErrZeroDenominator)
	}
	if t.Len() > denom {
		return nil, fmt.Errorf("%d events, denom %d: %w", t.Len(), denom, ErrDenominatorMismatch)
	}
	bestCol, ok := t.Bool(best)
	if !ok {
		return nil, fmt.Errorf("best trigger %q: %w", best, ErrMissingColumn)
	}
	mode := e.Mode
	if mode == "" {
		mode = DefaultMode
	}

	eff := func(pass []bool) float64 {
		return float64(countTrue(pass)) / float64(denom)
	}

	rec := Record{MetricBest: eff(bestCol)}

	var cols [][]bool
	for _, name := range interest {
		col, ok := t.Bool(name)
		if !ok {
			continue
		}
		cols = append(cols, col)
		rec[name] = eff(col)
		rec[BestPlus(name)] = eff(anyOf(t.Len(), col, bestCol))
	}
	passAny := anyOf(t.Len(), cols...)
	rec[mode] = eff(passAny)

	for _, score := range e.Scores {
		cuts, ok := e.Bank[score]
		if !ok {
			continue
		}
		values, ok := t.Score(score)
		if !ok {
			continue
		}
		for _, rate := range e.Bank.Rates(score) {
			pass := passing(values, cuts[rate])
			rec[ADMetric(score, rate)] = eff(pass)
			rec[BestADMetric(score, rate)] = eff(anyOf(t.Len(), pass, bestCol))
			rec[ModeADMetric(score, mode, rate)] = eff(anyOf(t.Len(), pass, passAny))
		}
	}
	return rec, nil
}
