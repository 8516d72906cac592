package kind

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if d != (Date{Year: 2023, Month: time.March, Day: 1}) {
		t.Fatalf("got %v", d)
	}
	if _, err := ParseDate("2023-13-01"); err == nil {
		t.Fatal("expected error for month 13")
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want Time
	}{
		{"12:00", Time{Hour: 12}},
		{"12:30:45", Time{Hour: 12, Minute: 30, Second: 45}},
		{"12:30:45.750", Time{Hour: 12, Minute: 30, Second: 45, Millis: 750}},
		{"00:00:00", Time{}},
	}
	for _, tc := range tests {
		got, err := ParseTime(tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseTime("25:00"); err == nil {
		t.Fatal("expected error for hour 25")
	}
}

func TestTimeString(t *testing.T) {
	if got := (Time{Hour: 9, Minute: 5}).String(); got != "09:05:00" {
		t.Fatalf("got %q", got)
	}
	if got := (Time{Hour: 9, Minute: 5, Millis: 7}).String(); got != "09:05:00.007" {
		t.Fatalf("got %q", got)
	}
}

func TestNewDateTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	dt, err := NewDateTime(time.Date(2023, 3, 1, 12, 0, 0, 0, ny))
	if err != nil {
		t.Fatal(err)
	}
	if dt.City() != "New_York" {
		t.Fatalf("city %q", dt.City())
	}
	if got := dt.String(); got != "2023-03-01T12:00:00-05:00 New_York" {
		t.Fatalf("got %q", got)
	}

	if _, err := NewDateTime(time.Date(2023, 3, 1, 12, 0, 0, 0, time.Local)); err == nil {
		t.Fatal("expected error for Local zone")
	}
	if _, err := NewDateTime(time.Date(2023, 3, 1, 12, 0, 0, 0, time.FixedZone("", -5*3600))); err == nil {
		t.Fatal("expected error for fixed offset zone")
	}
}

func TestParseDateTime(t *testing.T) {
	dt, err := ParseDateTime("2023-03-01T12:00:00-05:00 New_York")
	if err != nil {
		t.Fatal(err)
	}
	if dt.Zone() != "America/New_York" {
		t.Fatalf("zone %q", dt.Zone())
	}

	utc, err := ParseDateTime("2023-03-01T17:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if !utc.Time().Equal(dt.Time()) {
		t.Fatal("instants differ")
	}
	if utc.City() != "UTC" {
		t.Fatalf("city %q", utc.City())
	}

	if _, err := ParseDateTime("2023-03-01T12:00:00-05:00"); err == nil {
		t.Fatal("expected error for offset with no city")
	}
	if _, err := ParseDateTime("2023-03-01T12:00:00-05:00 Nowhereville"); err == nil {
		t.Fatal("expected error for unknown city")
	}
}

func TestRefString(t *testing.T) {
	if got := (Ref{Val: "abc"}).String(); got != "@abc" {
		t.Fatalf("got %q", got)
	}
	if got := (Ref{Val: "abc", Dis: "Pump"}).String(); got != "Pump" {
		t.Fatalf("got %q", got)
	}
}

func TestNumberString(t *testing.T) {
	if got := (Number{Val: 72.5, Unit: "°F"}).String(); got != "72.5°F" {
		t.Fatalf("got %q", got)
	}
	if got := (Number{Val: 10}).String(); got != "10" {
		t.Fatalf("got %q", got)
	}
}

func TestDateRangeString(t *testing.T) {
	a := Date{Year: 2023, Month: 3, Day: 1}
	b := Date{Year: 2023, Month: 3, Day: 5}
	if got := (DateRange{Start: a, End: a}).String(); got != "2023-03-01" {
		t.Fatalf("got %q", got)
	}
	if got := (DateRange{Start: a, End: b}).String(); got != "2023-03-01,2023-03-05" {
		t.Fatalf("got %q", got)
	}
}

func TestDateTimeRangeString(t *testing.T) {
	start := MustDateTime(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC))
	end := MustDateTime(time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC))
	if got := (DateTimeRange{Start: start}).String(); got != "2023-03-01T00:00:00+00:00 UTC" {
		t.Fatalf("got %q", got)
	}
	want := "2023-03-01T00:00:00+00:00 UTC,2023-03-02T00:00:00+00:00 UTC"
	if got := (DateTimeRange{Start: start, End: end}).String(); got != want {
		t.Fatalf("got %q", got)
	}
}
