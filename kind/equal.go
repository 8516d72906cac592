package kind

import "math"

// Equal reports deep structural equality of two values. Numbers compare by
// value and unit, with NaN equal to NaN so round-trip comparisons hold.
// DateTimes compare by instant and zone name.
func Equal(a, b Kind) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok || av.Unit != bv.Unit {
			return false
		}
		if math.IsNaN(av.Val) && math.IsNaN(bv.Val) {
			return true
		}
		return av.Val == bv.Val
	case DateTime:
		bv, ok := b.(DateTime)
		return ok && av.val.Equal(bv.val) && av.Zone() == bv.Zone()
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Dict:
		bv, ok := b.(Dict)
		if !ok || len(av) != len(bv) {
			return false
		}
		for name, v := range av {
			w, ok := bv[name]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case *Grid:
		bv, ok := b.(*Grid)
		if !ok {
			return false
		}
		return equalGrid(av, bv)
	default:
		return a == b
	}
}

func equalGrid(a, b *Grid) bool {
	if !Equal(a.meta, b.meta) {
		return false
	}
	if len(a.cols) != len(b.cols) || len(a.rows) != len(b.rows) {
		return false
	}
	for i := range a.cols {
		if a.cols[i].Name != b.cols[i].Name {
			return false
		}
		am, bm := a.cols[i].Meta, b.cols[i].Meta
		if am == nil {
			am = Dict{}
		}
		if bm == nil {
			bm = Dict{}
		}
		if !Equal(am, bm) {
			return false
		}
	}
	for i := range a.rows {
		if !Equal(a.rows[i], b.rows[i]) {
			return false
		}
	}
	return true
}
