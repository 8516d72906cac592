package token

import (
	"errors"
	"testing"
	"time"

	"github.com/signadot/haystack-go/kind"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	tk := New(src)
	var toks []Token
	for {
		tok, err := tk.Next()
		if err != nil {
			t.Fatalf("tokenize %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Type == TEOF {
			return toks
		}
	}
}

func scanOne(t *testing.T, src string) Token {
	t.Helper()
	toks := scanAll(t, src)
	if len(toks) != 2 {
		t.Fatalf("tokenize %q: got %d tokens", src, len(toks))
	}
	return toks[0]
}

func TestScalars(t *testing.T) {
	tests := []struct {
		src  string
		typ  Type
		want kind.Kind
	}{
		{`"hello"`, TStr, kind.Str("hello")},
		{`"a\nb\t\"c\""`, TStr, kind.Str("a\nb\t\"c\"")},
		{`"°F"`, TStr, kind.Str("°F")},
		{"`http://example.com/a?q=1`", TUri, kind.Uri("http://example.com/a?q=1")},
		{"`/a\\?b`", TUri, kind.Uri(`/a\?b`)},
		{"@p:demo:r:1234", TRef, kind.Ref{Val: "p:demo:r:1234"}},
		{"^elec-meter", TSymbol, kind.Symbol("elec-meter")},
		{"123", TNum, kind.Number{Val: 123}},
		{"-5.2", TNum, kind.Number{Val: -5.2}},
		{"1e5", TNum, kind.Number{Val: 1e5}},
		{"1_000", TNum, kind.Number{Val: 1000}},
		{"0x1f", TNum, kind.Number{Val: 31}},
		{"72.5°F", TNum, kind.Number{Val: 72.5, Unit: "°F"}},
		{"10kW", TNum, kind.Number{Val: 10, Unit: "kW"}},
		{"5%", TNum, kind.Number{Val: 5, Unit: "%"}},
		{"4$", TNum, kind.Number{Val: 4, Unit: "$"}},
		{"2023-03-01", TDate, kind.Date{Year: 2023, Month: time.March, Day: 1}},
		{"09:30:00", TTime, kind.Time{Hour: 9, Minute: 30}},
		{"9:30", TTime, kind.Time{Hour: 9, Minute: 30}},
		{"12:00:01.5", TTime, kind.Time{Hour: 12, Second: 1, Millis: 500}},
	}
	for _, tc := range tests {
		tok := scanOne(t, tc.src)
		if tok.Type != tc.typ {
			t.Fatalf("%q: type %s want %s", tc.src, tok.Type, tc.typ)
		}
		if !kind.Equal(tok.Val, tc.want) {
			t.Fatalf("%q: val %v want %v", tc.src, tok.Val, tc.want)
		}
	}
}

func TestDateTimeToken(t *testing.T) {
	tok := scanOne(t, "2023-03-01T12:00:00-05:00 New_York")
	if tok.Type != TDateTime {
		t.Fatalf("type %s", tok.Type)
	}
	dt := tok.Val.(kind.DateTime)
	if dt.Zone() != "America/New_York" {
		t.Fatalf("zone %q", dt.Zone())
	}

	tok = scanOne(t, "2023-03-01T17:00:00Z")
	dt = tok.Val.(kind.DateTime)
	if dt.City() != "UTC" {
		t.Fatalf("city %q", dt.City())
	}

	tk := New("2023-03-01T12:00:00-05:00")
	if _, err := tk.Next(); err == nil {
		t.Fatal("expected error for missing timezone")
	}
}

func TestIdentifiers(t *testing.T) {
	toks := scanAll(t, "ver dis curVal _hidden")
	names := []string{"ver", "dis", "curVal", "_hidden"}
	for i, name := range names {
		if toks[i].Type != TID || toks[i].Text != name {
			t.Fatalf("tok %d: %v", i, toks[i])
		}
	}
}

func TestOperatorsAndNewlines(t *testing.T) {
	toks := scanAll(t, "a:1,b\n<< >>")
	want := []Type{TID, TColon, TNum, TComma, TID, TNL, TLt2, TGt2, TEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens want %d", len(toks), len(want))
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Fatalf("tok %d: %s want %s", i, toks[i].Type, typ)
		}
	}
}

func TestNegInfSplitsAsMinus(t *testing.T) {
	toks := scanAll(t, "-INF")
	if toks[0].Type != TMinus || toks[1].Type != TID || toks[1].Text != "INF" {
		t.Fatalf("got %v %v", toks[0], toks[1])
	}
}

func TestSpecialFloatLiteralsAreIDs(t *testing.T) {
	for _, src := range []string{"NaN", "INF", "NA", "M", "R", "N", "T", "F"} {
		tok := scanOne(t, src)
		if tok.Type != TID || tok.Text != src {
			t.Fatalf("%q: %v", src, tok)
		}
	}
}

func TestPosTracking(t *testing.T) {
	toks := scanAll(t, "a\nbc")
	if toks[0].Pos != (Pos{Line: 1, Col: 1}) {
		t.Fatalf("a at %v", toks[0].Pos)
	}
	if toks[2].Pos != (Pos{Line: 2, Col: 1}) {
		t.Fatalf("bc at %v", toks[2].Pos)
	}
}

func TestErrors(t *testing.T) {
	for _, src := range []string{`"unterminated`, "`unterminated", "@", "^", `"\q"`, `"\u12g4"`} {
		tk := New(src)
		var err error
		for err == nil {
			var tok Token
			tok, err = tk.Next()
			if err == nil && tok.Type == TEOF {
				t.Fatalf("%q: expected error", src)
			}
		}
		var terr *TokenizeErr
		if !errors.As(err, &terr) {
			t.Fatalf("%q: error %v is not a TokenizeErr", src, err)
		}
	}
}
