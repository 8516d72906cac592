package zinc

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/signadot/haystack-go/kind"
)

func ny(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func richGrid(t *testing.T) *kind.Grid {
	t.Helper()
	g, err := kind.NewGrid(
		kind.Dict{"ver": kind.Str("3.0"), "dis": kind.Str("Points")},
		[]kind.Col{
			{Name: "id"},
			{Name: "dis", Meta: kind.Dict{"lang": kind.Str("en")}},
			{Name: "val"},
			{Name: "extra"},
		},
		[]kind.Dict{
			{
				"id":  kind.Ref{Val: "p:demo:r:1", Dis: "Pump"},
				"dis": kind.Str("quote \" and \\ back"),
				"val": kind.Number{Val: 72.5, Unit: "°F"},
				"extra": kind.List{
					kind.Marker{},
					kind.NA{},
					kind.Bool(true),
					kind.Coord{Lat: 37.5, Lng: -77.4},
				},
			},
			{
				"id":  kind.Ref{Val: "p:demo:r:2"},
				"val": kind.Number{Val: math.Inf(-1)},
				"extra": kind.Dict{
					"marker": kind.Marker{},
					"sym":    kind.Symbol("elec-meter"),
					"uri":    kind.Uri("http://example.com/"),
					"xs":     kind.XStr{Type: "Span", Val: "today"},
				},
			},
			{
				"id":  kind.Ref{Val: "p:demo:r:3"},
				"val": kind.Number{Val: math.NaN()},
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGridRoundTrip(t *testing.T) {
	g := richGrid(t)
	text, err := EncodeGrid(g)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeGrid(text)
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, text)
	}
	if !kind.Equal(g, got) {
		t.Fatalf("round trip mismatch:\n%s", text)
	}
}

func TestScalarRoundTrip(t *testing.T) {
	vals := []kind.Kind{
		kind.Marker{},
		kind.NA{},
		kind.Remove{},
		kind.Bool(false),
		kind.Str("hello\nworld"),
		kind.Str("ünïcode"),
		kind.Number{Val: 10, Unit: "kW"},
		kind.Number{Val: math.Inf(1)},
		kind.Uri("http://example.com/?a=b"),
		kind.Ref{Val: "abc-123"},
		kind.Ref{Val: "abc", Dis: "A B C"},
		kind.Symbol("tag"),
		kind.Date{Year: 2023, Month: time.March, Day: 1},
		kind.Time{Hour: 9, Minute: 30, Second: 1},
		kind.MustDateTime(time.Date(2023, 3, 1, 12, 0, 0, 0, ny(t))),
		kind.MustDateTime(time.Date(2023, 3, 1, 17, 0, 0, 0, time.UTC)),
		kind.Coord{Lat: 37.5487, Lng: -77.4491},
		kind.XStr{Type: "Span", Val: "today"},
		kind.List{kind.Number{Val: 1}, kind.Str("x"), nil},
		kind.Dict{"a": kind.Marker{}, "b": kind.Number{Val: 2}},
	}
	for _, v := range vals {
		text, err := Encode(v)
		if err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		got, err := Decode(text)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if !kind.Equal(v, got) {
			t.Fatalf("%q: got %v want %v", text, got, v)
		}
	}
}

func TestSubSecondDateTimeRoundTrip(t *testing.T) {
	vals := []kind.Kind{
		kind.MustDateTime(time.Date(2023, 3, 1, 12, 0, 0, 123456000, ny(t))),
		kind.MustDateTime(time.Date(2023, 3, 1, 12, 0, 0, 1, time.UTC)),
		kind.MustDateTime(time.Date(2023, 3, 1, 12, 0, 0, 123000000, ny(t))),
	}
	for _, v := range vals {
		text, err := Encode(v)
		if err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		got, err := Decode(text)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if !kind.Equal(v, got) {
			t.Fatalf("%q: got %v want %v", text, got, v)
		}
	}
}

func TestControlCharsEscaped(t *testing.T) {
	s := kind.Str("a\bb\x01c\x1fd")
	text, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(text, "\b\x01\x1f") {
		t.Fatalf("raw control chars in %q", text)
	}
	if !strings.Contains(text, `\b`) || !strings.Contains(text, `\u0001`) || !strings.Contains(text, `\u001f`) {
		t.Fatalf("missing escapes in %q", text)
	}
	got, err := Decode(text)
	if err != nil {
		t.Fatalf("%q: %v", text, err)
	}
	if !kind.Equal(s, got) {
		t.Fatalf("%q: got %v want %v", text, got, s)
	}
}

func TestNestedGridRoundTrip(t *testing.T) {
	inner, err := kind.NewGrid(
		kind.Dict{"ver": kind.Str("3.0")},
		[]kind.Col{{Name: "val"}},
		[]kind.Dict{{"val": kind.Number{Val: 1}}},
	)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := kind.NewGrid(
		kind.Dict{"ver": kind.Str("3.0")},
		[]kind.Col{{Name: "sub"}},
		[]kind.Dict{{"sub": inner}},
	)
	if err != nil {
		t.Fatal(err)
	}
	text, err := EncodeGrid(outer)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeGrid(text)
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, text)
	}
	if !kind.Equal(outer, got) {
		t.Fatalf("round trip mismatch:\n%s", text)
	}
}

func TestAbsentCells(t *testing.T) {
	g, err := DecodeGrid("ver:\"3.0\"\na,b,c\n1,,3\n\n")
	if err != nil {
		t.Fatal(err)
	}
	row := g.Rows()[0]
	if row.Has("b") {
		t.Fatal("empty cell should be absent")
	}
	if !kind.Equal(row["a"], kind.Number{Val: 1}) || !kind.Equal(row["c"], kind.Number{Val: 3}) {
		t.Fatalf("row %v", row)
	}
}

func TestSoleColumnNull(t *testing.T) {
	g, err := kind.NewGrid(
		kind.Dict{"ver": kind.Str("3.0")},
		[]kind.Col{{Name: "empty"}},
		[]kind.Dict{{}},
	)
	if err != nil {
		t.Fatal(err)
	}
	text, err := EncodeGrid(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "\nN\n") {
		t.Fatalf("sole null cell should encode as N:\n%s", text)
	}
	got, err := DecodeGrid(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows()) != 0 {
		t.Fatalf("all-null row should decode away, got %v", got.Rows())
	}
}

func TestMarkerMetaOmitsColon(t *testing.T) {
	g, err := kind.NewGrid(
		kind.Dict{"ver": kind.Str("3.0"), "err": kind.Marker{}, "dis": kind.Str("boom")},
		[]kind.Col{{Name: "empty"}},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	text, err := EncodeGrid(g)
	if err != nil {
		t.Fatal(err)
	}
	first, _, _ := strings.Cut(text, "\n")
	if !strings.Contains(first, " err") || strings.Contains(first, "err:") {
		t.Fatalf("marker meta should have no colon: %q", first)
	}
	got, err := DecodeGrid(text)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsErr() {
		t.Fatal("expected err grid")
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []string{
		"ver:\"2.0\"\na\n\n",
		"ver:\"3.0\"\n\n",
		"Q",
		"[1,2",
		"ver:\"3.0\"\na,b\n1\n\n",
	}
	for _, src := range cases {
		if _, err := Decode(src); err == nil {
			t.Fatalf("%q: expected error", src)
		}
	}
	if _, err := Decode("ver:\"2.0\"\na\n\n"); !errors.Is(err, ErrVersion) {
		t.Fatalf("expected ErrVersion, got %v", err)
	}
}

func TestDecodeScalarNotGrid(t *testing.T) {
	if _, err := DecodeGrid("123"); !errors.Is(err, ErrDecode) {
		t.Fatal("expected ErrDecode")
	}
}
