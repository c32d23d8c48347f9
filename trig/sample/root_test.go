package sample

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/llp-triggers/trigeff/trig"
)

// writeEventsFile writes a 10-entry Events tree with two L1 bits, a float32
// AD score and an int32 jet multiplicity.
func writeEventsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.root")
	f, err := groot.Create(path)
	require.NoError(t, err)

	var (
		l1A   bool
		l1B   bool
		score float32
		nJet  int32
	)
	w, err := rtree.NewWriter(f, DefaultTree, []rtree.WriteVar{
		{Name: "L1_A", Value: &l1A},
		{Name: "L1_B", Value: &l1B},
		{Name: "axol1tl_score", Value: &score},
		{Name: "nJet", Value: &nJet},
	})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		l1A = i%2 == 0
		l1B = i < 3
		score = float32(i) * 1.5
		nJet = int32(i)
		_, err := w.Write()
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestIsScalar_LeafValueTypes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"bool", new(bool), true},
		{"float32", new(float32), true},
		{"int32", new(int32), true},
		{"uint8", new(uint8), true},
		{"float32 slice", new([]float32), false},
		{"string", new(string), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isScalar(tt.value))
		})
	}
}

func TestScalar_ConvertsToFloat64(t *testing.T) {
	f := float32(982.3125)
	i := int32(-7)
	u := uint16(300)
	assert.Equal(t, 982.3125, scalar(&f))
	assert.Equal(t, -7.0, scalar(&i))
	assert.Equal(t, 300.0, scalar(&u))
}

func TestColumn_ReadBuffersValues(t *testing.T) {
	// GIVEN a bool leaf and a float leaf bound to pointers
	b := new(bool)
	f := new(float32)
	bc := column{name: "L1_A", ptr: b, bools: make([]bool, 2)}
	fc := column{name: "score", ptr: f, scores: make([]float64, 2)}

	// WHEN two entries are read
	*b, *f = true, 1.5
	bc.read(0)
	fc.read(0)
	*b, *f = false, 2.5
	bc.read(1)
	fc.read(1)

	// THEN each entry is copied out of the shared pointer
	assert.Equal(t, []bool{true, false}, bc.bools)
	assert.Equal(t, []float64{1.5, 2.5}, fc.scores)
}

func TestROOT_Load_TypedColumnsUnderEntryStop(t *testing.T) {
	// GIVEN a 10-entry tree and a request for the triggers and the score
	path := writeEventsFile(t)
	req := trig.LoadRequest{Columns: []string{"L1_A", "L1_B", "axol1tl_score"}, EntryStop: 7}

	// WHEN loaded
	table, denom, err := ROOT{}.Load(context.Background(), path, req)
	require.NoError(t, err)

	// THEN only the first 7 entries are read, in branch order and typed by leaf
	assert.Equal(t, 7, denom)
	assert.Equal(t, 7, table.Len())
	assert.Equal(t, []string{"L1_A", "L1_B", "axol1tl_score"}, table.Columns())
	a, ok := table.Bool("L1_A")
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true, false, true, false, true}, a)
	b, ok := table.Bool("L1_B")
	require.True(t, ok)
	assert.Equal(t, []bool{true, true, true, false, false, false, false}, b)
	scores, ok := table.Score("axol1tl_score")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1.5, 3, 4.5, 6, 7.5, 9}, scores)

	// AND the unrequested branch is not loaded
	assert.False(t, table.Has("nJet"))
}

func TestROOT_Load_PrefixSelectsAllEntries(t *testing.T) {
	path := writeEventsFile(t)

	table, denom, err := ROOT{Tree: DefaultTree}.Load(context.Background(), path, trig.LoadRequest{Prefixes: []string{"L1_"}})
	require.NoError(t, err)

	assert.Equal(t, 10, denom)
	assert.Equal(t, []string{"L1_A", "L1_B"}, table.Columns())
}

func TestROOT_Load_UnknownTree_ReturnsError(t *testing.T) {
	path := writeEventsFile(t)
	_, _, err := ROOT{Tree: "Runs"}.Load(context.Background(), path, trig.LoadRequest{})
	assert.Error(t, err)
}

func TestROOT_Load_MissingFile_ReturnsError(t *testing.T) {
	_, _, err := ROOT{}.Load(context.Background(), filepath.Join(t.TempDir(), "nope.root"), trig.LoadRequest{})
	assert.Error(t, err)
}
