package trig

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llp-triggers/trigeff/trig/internal/testutil"
)

func boolsAt(n int, idx ...int) []bool {
	out := make([]bool, n)
	for _, i := range idx {
		out[i] = true
	}
	return out
}

func TestEvaluate_DisjointTriggers_OrEfficiency(t *testing.T) {
	// GIVEN 10 events, A fires on events {1,3,5,7,9}, B on {2,4,6}
	table := NewTable(10)
	require.NoError(t, table.AddBool("L1_A", boolsAt(10, 0, 2, 4, 6, 8)))
	require.NoError(t, table.AddBool("L1_B", boolsAt(10, 1, 3, 5)))
	eval := &Evaluator{Mode: "L1"}

	// WHEN evaluated with both as interest triggers
	rec, err := eval.Evaluate(table, []string{"L1_A", "L1_B"}, "L1_A", 10)
	require.NoError(t, err)

	// THEN the OR covers 8 distinct events
	assert.Equal(t, 0.8, rec["L1"])
	assert.Equal(t, 0.5, rec["L1_A"])
	assert.Equal(t, 0.3, rec["L1_B"])
	assert.Equal(t, 0.5, rec[MetricBest])
	assert.Equal(t, 0.8, rec[BestPlus("L1_B")])
}

func TestEvaluate_ThresholdBank_ScoreAtOrAboveCutPasses(t *testing.T) {
	// GIVEN bank {"score": {5: 10.0}} and scores [5, 9, 10, 11, 15]
	table := NewTable(5)
	require.NoError(t, table.AddBool("L1_A", boolsAt(5)))
	require.NoError(t, table.AddScore("score", []float64{5, 9, 10, 11, 15}))
	eval := &Evaluator{Bank: ThresholdBank{"score": {5: 10.0}}, Scores: []string{"score"}, Mode: "L1"}

	// WHEN evaluated with denom 5
	rec, err := eval.Evaluate(table, []string{"L1_A"}, "L1_A", 5)
	require.NoError(t, err)

	// THEN three of five pass
	assert.Equal(t, 0.6, rec["score_AD@5kHz"])
	assert.Equal(t, 0.6, rec["score_best+AD@5kHz"])
	assert.Equal(t, 0.6, rec["score_L1+AD@5kHz"])
}

func TestEvaluate_MissingColumns_SilentlySkipped(t *testing.T) {
	// GIVEN a bank with a score the table lacks and an interest trigger the table lacks
	table := NewTable(2)
	require.NoError(t, table.AddBool("L1_A", boolsAt(2, 0)))
	eval := &Evaluator{
		Bank:   ThresholdBank{"CICADA_score_v1p1p1": {1: 16.575}},
		Scores: []string{"CICADA_score_v1p1p1"},
		Mode:   "L1",
	}

	// WHEN evaluated
	rec, err := eval.Evaluate(table, []string{"L1_A", "L1_Missing"}, "L1_A", 2)

	// THEN no error and the absent metrics are not in the record
	require.NoError(t, err)
	assert.NotContains(t, rec, "CICADA_score_v1p1p1_AD@1kHz")
	assert.NotContains(t, rec, "L1_Missing")
	assert.Equal(t, 0.5, rec["L1"])
}

func TestEvaluate_NoInterestPresent_ModeIsZero(t *testing.T) {
	table := NewTable(4)
	require.NoError(t, table.AddBool("L1_A", boolsAt(4, 0)))
	require.NoError(t, table.AddScore("score", []float64{1, 2, 3, 4}))
	eval := &Evaluator{Bank: ThresholdBank{"score": {1: 2.5}}, Scores: []string{"score"}}

	rec, err := eval.Evaluate(table, nil, "L1_A", 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec["L1"], "empty mode defaults to L1")
	assert.Equal(t, 0.5, rec["score_L1+AD@1kHz"])
}

func TestEvaluate_HLTMode_NamesMetrics(t *testing.T) {
	table := NewTable(2)
	require.NoError(t, table.AddBool("HLT_A", boolsAt(2, 1)))
	require.NoError(t, table.AddScore("score", []float64{0, 1}))
	eval := &Evaluator{Bank: ThresholdBank{"score": {3: 1}}, Scores: []string{"score"}, Mode: "HLT"}

	rec, err := eval.Evaluate(table, []string{"HLT_A"}, "HLT_A", 2)
	require.NoError(t, err)
	assert.Contains(t, rec, "HLT")
	assert.Contains(t, rec, "score_HLT+AD@3kHz")
}

func TestEvaluate_ZeroDenominator(t *testing.T) {
	table := NewTable(0)
	require.NoError(t, table.AddBool("L1_A", nil))
	for _, denom := range []int{0, -1} {
		_, err := (&Evaluator{}).Evaluate(table, nil, "L1_A", denom)
		assert.True(t, errors.Is(err, ErrZeroDenominator), "denom %d: got %v", denom, err)
	}
}

func TestEvaluate_TableLargerThanDenominator(t *testing.T) {
	table := NewTable(3)
	require.NoError(t, table.AddBool("L1_A", boolsAt(3, 0, 1, 2)))
	_, err := (&Evaluator{}).Evaluate(table, nil, "L1_A", 2)
	assert.True(t, errors.Is(err, ErrDenominatorMismatch))
}

func TestEvaluate_BestMissing(t *testing.T) {
	table := NewTable(1)
	require.NoError(t, table.AddBool("L1_A", boolsAt(1)))
	_, err := (&Evaluator{}).Evaluate(table, nil, "L1_Gone", 1)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

// randomTable builds a table of n events with k triggers and one score.
func randomTable(t *testing.T, rng *rand.Rand, n, k int) (*Table, []string) {
	t.Helper()
	table := NewTable(n)
	names := make([]string, k)
	for j := 0; j < k; j++ {
		names[j] = "L1_T" + string(rune('A'+j))
		col := make([]bool, n)
		p := rng.Float64()
		for i := range col {
			col[i] = rng.Float64() < p
		}
		require.NoError(t, table.AddBool(names[j], col))
	}
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = rng.Float64() * 100
	}
	require.NoError(t, table.AddScore("score", scores))
	return table, names
}

func TestEvaluate_Properties_RandomTables(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	eval := &Evaluator{
		Bank:   ThresholdBank{"score": {1: 90, 5: 50, 10: 10}},
		Scores: []string{"score"},
		Mode:   "L1",
	}
	for iter := 0; iter < 50; iter++ {
		n := 1 + rng.Intn(200)
		table, names := randomTable(t, rng, n, 1+rng.Intn(5))
		sel, err := SelectBest(table, table.Present(names), nil)
		require.NoError(t, err)

		rec, err := eval.Evaluate(table, names, sel.Name, n)
		require.NoError(t, err)

		// every value is a fraction
		for metric, v := range rec {
			assert.True(t, v >= 0 && v <= 1, "%s = %v out of [0,1]", metric, v)
		}

		// OR efficiency is bounded by max and sum of its parts
		maxEff, sumEff := 0.0, 0.0
		for _, name := range names {
			maxEff = math.Max(maxEff, rec[name])
			sumEff += rec[name]
		}
		assert.GreaterOrEqual(t, rec["L1"], maxEff)
		assert.LessOrEqual(t, rec["L1"], sumEff+1e-12)

		// the best trigger is the max individual efficiency
		assert.Equal(t, maxEff, rec[MetricBest])

		// idempotence
		again, err := eval.Evaluate(table, names, sel.Name, n)
		require.NoError(t, err)
		assert.Equal(t, rec, again)
	}
}

func TestPassing_MonotoneInCut(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scores := make([]float64, 500)
	for i := range scores {
		scores[i] = rng.NormFloat64() * 10
	}
	scores[0] = math.NaN()

	prev := len(scores) + 1
	for cut := -40.0; cut <= 40; cut += 0.5 {
		n := countTrue(passing(scores, cut))
		assert.LessOrEqual(t, n, prev, "cut %v", cut)
		prev = n
	}
}

func TestEvaluate_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			table := NewTable(tc.Events)
			for _, col := range tc.Columns {
				if col.Scores != nil {
					require.NoError(t, table.AddScore(col.Name, col.Scores))
				} else {
					require.NoError(t, table.AddBool(col.Name, col.Bools))
				}
			}

			sel, err := SelectBest(table, table.Present(tc.Unprescaled), tc.Exclude)
			require.NoError(t, err)
			assert.Equal(t, tc.BestName, sel.Name)

			bank := ThresholdBank(tc.Bank(t))
			scores := make([]string, 0, len(bank))
			for name := range bank {
				scores = append(scores, name)
			}
			eval := &Evaluator{Bank: bank, Scores: scores, Mode: "L1"}
			rec, err := eval.Evaluate(table, tc.Interest, sel.Name, tc.Denom)
			require.NoError(t, err)

			for metric, want := range tc.Metrics {
				got, ok := rec[metric]
				if !assert.True(t, ok, "metric %s missing", metric) {
					continue
				}
				testutil.AssertEfficiency(t, metric, want, got, 1e-12)
			}
		})
	}
}
