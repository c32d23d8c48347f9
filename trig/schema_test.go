package trig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llp-triggers/trigeff/trig/signal"
)

func TestNewSchema_ColumnOrder(t *testing.T) {
	scores := ScoreConfig{Scores: []ScoreSpec{
		{Name: "b_score", Range: []float64{0, 1}, Thresholds: map[int]float64{10: 0.5, 1: 0.9}},
		{Name: "hist_only", Range: []float64{0, 1}},
		{Name: "a_score", Range: []float64{0, 1}, Thresholds: map[int]float64{5: 0.7}},
	}}

	s := NewSchema([]string{"mass", "ctau"}, "HLT", []string{"HLT_X"}, scores)

	assert.Equal(t, []string{"mass", "ctau"}, s.Coordinates)
	assert.Equal(t, []string{
		"best", "HLT", "HLT_X", "best+HLT_X",
		"b_score_AD@1kHz", "b_score_best+AD@1kHz", "b_score_HLT+AD@1kHz",
		"b_score_AD@10kHz", "b_score_best+AD@10kHz", "b_score_HLT+AD@10kHz",
		"a_score_AD@5kHz", "a_score_best+AD@5kHz", "a_score_HLT+AD@5kHz",
	}, s.Columns)
	assert.Equal(t, 2, s.Index("HLT_X"))
	assert.Equal(t, -1, s.Index("missing"))
}

func TestSchema_Project_AbsentCellsDistinctFromZero(t *testing.T) {
	s := Schema{Columns: []string{"best", "L1", "L1_X"}}

	cells := s.Project(Record{"best": 0.4, "L1": 0})

	assert.Equal(t, []Cell{{Value: 0.4, Present: true}, {Value: 0, Present: true}, {}}, cells)
	assert.Equal(t, "0", cells[1].String())
	assert.Equal(t, "", cells[2].String())
}

func TestCell_JSON(t *testing.T) {
	data, err := json.Marshal([]Cell{{Value: 0.25, Present: true}, {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[0.25, null]`, string(data))

	var back []Cell
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Cell{{Value: 0.25, Present: true}, {}}, back)
}

func TestCoords_FollowsCoordinateNames(t *testing.T) {
	p := signal.Point{Mass: 40, Lifetime: 10, DarkMass: 8, HasLifetime: true, HasDarkMass: true}
	assert.Equal(t, []float64{40, 8}, Coords(p, []string{"mass", "mdark"}))
}
