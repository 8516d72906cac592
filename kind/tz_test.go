package kind

import (
	"errors"
	"testing"
	"time"
)

func TestIANAZone(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{"New_York", "America/New_York"},
		{"London", "Europe/London"},
		{"Tokyo", "Asia/Tokyo"},
		{"Sydney", "Australia/Sydney"},
		{"UTC", "UTC"},
		{"GMT", "UTC"},
		{"America/Chicago", "America/Chicago"},
	}
	for _, tc := range tests {
		loc, err := IANAZone(tc.city)
		if err != nil {
			t.Fatalf("%s: %v", tc.city, err)
		}
		if loc.String() != tc.want {
			t.Fatalf("%s: got %s want %s", tc.city, loc, tc.want)
		}
	}
	if _, err := IANAZone("Nowhereville"); !errors.Is(err, ErrZone) {
		t.Fatal("expected ErrZone")
	}
	if _, err := IANAZone(""); !errors.Is(err, ErrZone) {
		t.Fatal("expected ErrZone for empty city")
	}
}

func TestCityName(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	if got := CityName(ny); got != "New_York" {
		t.Fatalf("got %q", got)
	}
	if got := CityName(time.UTC); got != "UTC" {
		t.Fatalf("got %q", got)
	}
}
