package gridq

import (
	"errors"
	"testing"
	"time"

	"github.com/signadot/haystack-go/kind"
)

func siteGrid(t *testing.T) *kind.Grid {
	t.Helper()
	rows := []kind.Dict{
		{
			"id":   kind.Ref{Val: "hq", Dis: "Headquarters"},
			"site": kind.Marker{},
			"dis":  kind.Str("Headquarters"),
			"area": kind.Number{Val: 14000, Unit: "ft²"},
		},
		{
			"id":   kind.Ref{Val: "annex"},
			"site": kind.Marker{},
			"dis":  kind.Str("Annex"),
			"area": kind.Number{Val: 900, Unit: "ft²"},
		},
		{
			"id":  kind.Ref{Val: "meter1"},
			"dis": kind.Str("Main Meter"),
			"val": kind.NA{},
		},
	}
	g, err := kind.ToGrid(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFilter(t *testing.T) {
	g := siteGrid(t)
	tests := []struct {
		src  string
		want []string // dis of matching rows
	}{
		{`site`, []string{"Headquarters", "Annex"}},
		{`site and area > 1000`, []string{"Headquarters"}},
		{`dis == "Annex"`, []string{"Annex"}},
		{`id == "meter1"`, []string{"Main Meter"}},
		{`has("area")`, []string{"Headquarters", "Annex"}},
		{`unit("area") == "ft²"`, []string{"Headquarters", "Annex"}},
		{`refDis("id") == "Headquarters"`, []string{"Headquarters"}},
		{`isNA("val")`, []string{"Main Meter"}},
		{`not site`, []string{"Main Meter"}},
		{`site and area > 100000`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := Filter(g, tc.src)
			if err != nil {
				t.Fatal(err)
			}
			if len(got.Rows()) != len(tc.want) {
				t.Fatalf("got %d rows, want %d", len(got.Rows()), len(tc.want))
			}
			for i, row := range got.Rows() {
				if !kind.Equal(row["dis"], kind.Str(tc.want[i])) {
					t.Errorf("row %d: dis %v, want %s", i, row["dis"], tc.want[i])
				}
			}
			if len(got.Cols()) != len(g.Cols()) {
				t.Errorf("columns must survive filtering")
			}
		})
	}
}

func TestBareAbsentTagIsFalse(t *testing.T) {
	g := siteGrid(t)
	got, err := Filter(g, `nosuchtag`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows()) != 0 {
		t.Fatalf("absent tag should match nothing, got %d rows", len(got.Rows()))
	}
}

func TestDateTimeLowersToTime(t *testing.T) {
	ts := kind.MustDateTime(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))
	q, err := Compile(`ts.Year() == 2023`)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := q.Match(kind.Dict{"ts": ts})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected match")
	}
}

func TestCompileReuse(t *testing.T) {
	q, err := Compile(`area > 1000`)
	if err != nil {
		t.Fatal(err)
	}
	big := kind.Dict{"area": kind.Number{Val: 2000, Unit: "m²"}}
	small := kind.Dict{"area": kind.Number{Val: 10, Unit: "m²"}}
	if ok, _ := q.Match(big); !ok {
		t.Error("big should match")
	}
	if ok, _ := q.Match(small); ok {
		t.Error("small should not match")
	}
}

func TestErrors(t *testing.T) {
	if _, err := Compile(`site and`); !errors.Is(err, ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
	q, err := Compile(`dis`)
	if err != nil {
		t.Fatal(err)
	}
	_, err = q.Match(kind.Dict{"dis": kind.Str("x")})
	if !errors.Is(err, ErrNotBool) {
		t.Fatalf("expected ErrNotBool, got %v", err)
	}
}
