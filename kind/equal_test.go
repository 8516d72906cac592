package kind

import (
	"math"
	"testing"
	"time"
)

func TestEqualScalars(t *testing.T) {
	tests := []struct {
		a, b Kind
		want bool
	}{
		{Marker{}, Marker{}, true},
		{Marker{}, NA{}, false},
		{Str("a"), Str("a"), true},
		{Str("a"), Str("b"), false},
		{Number{Val: 1, Unit: "kW"}, Number{Val: 1, Unit: "kW"}, true},
		{Number{Val: 1, Unit: "kW"}, Number{Val: 1, Unit: "W"}, false},
		{Number{Val: math.NaN()}, Number{Val: math.NaN()}, true},
		{Number{Val: math.Inf(1)}, Number{Val: math.Inf(1)}, true},
		{Ref{Val: "a", Dis: "A"}, Ref{Val: "a", Dis: "A"}, true},
		{Ref{Val: "a"}, Ref{Val: "a", Dis: "A"}, false},
		{Bool(true), Bool(true), true},
		{nil, nil, true},
		{Str("a"), nil, false},
	}
	for _, tc := range tests {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%v, %v) = %v", tc.a, tc.b, got)
		}
	}
}

func TestEqualDateTime(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	instant := time.Date(2023, 3, 1, 12, 0, 0, 0, ny)
	a := MustDateTime(instant)
	b := MustDateTime(instant.In(time.UTC))
	if Equal(a, b) {
		t.Fatal("same instant, different zones should differ")
	}
	if !Equal(a, MustDateTime(instant)) {
		t.Fatal("identical datetimes should be equal")
	}
}

func TestEqualCollections(t *testing.T) {
	if !Equal(List{Number{Val: 1}, Str("x")}, List{Number{Val: 1}, Str("x")}) {
		t.Fatal("lists should be equal")
	}
	if Equal(List{Number{Val: 1}}, List{Number{Val: 2}}) {
		t.Fatal("lists should differ")
	}
	if !Equal(Dict{"a": Marker{}}, Dict{"a": Marker{}}) {
		t.Fatal("dicts should be equal")
	}
	if Equal(Dict{"a": Marker{}}, Dict{"b": Marker{}}) {
		t.Fatal("dicts should differ")
	}
}

func TestEqualGrid(t *testing.T) {
	mk := func(val float64) *Grid {
		g, err := NewGrid(Dict{"ver": Str("3.0")}, []Col{{Name: "val"}}, []Dict{
			{"val": Number{Val: val}},
		})
		if err != nil {
			t.Fatal(err)
		}
		return g
	}
	if !Equal(mk(1), mk(1)) {
		t.Fatal("grids should be equal")
	}
	if Equal(mk(1), mk(2)) {
		t.Fatal("grids should differ")
	}

	a, _ := NewGrid(nil, []Col{{Name: "x", Meta: nil}}, nil)
	b, _ := NewGrid(nil, []Col{{Name: "x", Meta: Dict{}}}, nil)
	if !Equal(a, b) {
		t.Fatal("nil and empty col meta should be equal")
	}
}
