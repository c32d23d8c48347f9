package sample

import (
	"context"
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/llp-triggers/trigeff/trig"
)

// DefaultTree is the NanoAOD event tree name.
const DefaultTree = "Events"

// ROOT reads event tables from flat ROOT trees. Boolean leaves become trigger
// columns and numeric scalar leaves become score columns; array leaves are ignored.
type ROOT struct {
	Tree string // tree name; DefaultTree when empty
}

// Load implements trig.Source. The denominator is the number of entries read.
func (s ROOT) Load(ctx context.Context, path string, req trig.LoadRequest) (*trig.Table, int, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening ROOT file: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := s.Tree
	if name == "" {
		name = DefaultTree
	}
	obj, err := f.Get(name)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return nil, 0, fmt.Errorf("%s: object %q is %T, not a tree", path, name, obj)
	}

	n := tree.Entries()
	if req.EntryStop > 0 && req.EntryStop < n {
		n = req.EntryStop
	}

	var rvars []rtree.ReadVar
	for _, rv := range rtree.NewReadVars(tree) {
		if rv.Leaf != "" && rv.Leaf != rv.Name {
			continue
		}
		if !req.Wants(rv.Name) || !isScalar(rv.Value) {
			continue
		}
		rvars = append(rvars, rv)
	}

	cols := make([]column, len(rvars))
	for i, rv := range rvars {
		cols[i] = newColumn(rv, int(n))
	}

	t := trig.NewTable(int(n))
	if n == 0 || len(rvars) == 0 {
		return t, int(n), addColumns(t, cols)
	}

	r, err := rtree.NewReader(tree, rvars, rtree.WithRange(0, n))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: creating tree reader: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	err = r.Read(func(rctx rtree.RCtx) error {
		if rctx.Entry%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for i := range cols {
			cols[i].read(rctx.Entry)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: reading tree: %w", path, err)
	}
	return t, int(n), addColumns(t, cols)
}

// column buffers one leaf's values.
type column struct {
	name   string
	ptr    any
	bools  []bool
	scores []float64
}

func newColumn(rv rtree.ReadVar, n int) column {
	c := column{name: rv.Name, ptr: rv.Value}
	if _, ok := rv.Value.(*bool); ok {
		c.bools = make([]bool, n)
	} else {
		c.scores = make([]float64, n)
	}
	return c
}

func (c *column) read(i int64) {
	if c.bools != nil {
		c.bools[i] = *c.ptr.(*bool)
		return
	}
	c.scores[i] = scalar(c.ptr)
}

func addColumns(t *trig.Table, cols []column) error {
	for _, c := range cols {
		var err error
		if c.bools != nil {
			err = t.AddBool(c.name, c.bools)
		} else {
			err = t.AddScore(c.name, c.scores)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case *bool, *float32, *float64, *int8, *int16, *int32, *int64, *uint8, *uint16, *uint32, *uint64:
		return true
	}
	return false
}

func scalar(v any) float64 {
	switch p := v.(type) {
	case *float32:
		return float64(*p)
	case *float64:
		return *p
	case *int8:
		return float64(*p)
	case *int16:
		return float64(*p)
	case *int32:
		return float64(*p)
	case *int64:
		return float64(*p)
	case *uint8:
		return float64(*p)
	case *uint16:
		return float64(*p)
	case *uint32:
		return float64(*p)
	case *uint64:
		return float64(*p)
	}
	return 0
}
