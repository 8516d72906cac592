package kind

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Haystack identifies timezones by the last segment of the IANA name, e.g.
// "New_York" for "America/New_York". Resolution tries each continent prefix
// against the host zone database.
var zonePrefixes = []string{
	"America",
	"Europe",
	"Asia",
	"Africa",
	"Australia",
	"Pacific",
	"Atlantic",
	"Indian",
	"Antarctica",
	"America/Argentina",
	"America/Indiana",
	"America/Kentucky",
	"America/North_Dakota",
	"Etc",
}

var zoneCache sync.Map // city -> *time.Location

// IANAZone resolves a Haystack timezone city to an IANA location.
func IANAZone(city string) (*time.Location, error) {
	if city == "" {
		return nil, fmt.Errorf("%w: empty city", ErrZone)
	}
	if strings.Contains(city, "UTC") || city == "GMT" {
		return time.UTC, nil
	}
	if cached, ok := zoneCache.Load(city); ok {
		return cached.(*time.Location), nil
	}
	if strings.Contains(city, "/") {
		loc, err := time.LoadLocation(city)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrZone, city)
		}
		zoneCache.Store(city, loc)
		return loc, nil
	}
	for _, prefix := range zonePrefixes {
		loc, err := time.LoadLocation(prefix + "/" + city)
		if err == nil {
			zoneCache.Store(city, loc)
			return loc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrZone, city)
}

// CityName returns the Haystack timezone label for an IANA location: the
// last slash segment, with UTC collapsed.
func CityName(loc *time.Location) string {
	name := loc.String()
	if strings.Contains(name, "UTC") || name == "GMT" {
		return "UTC"
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ParseDateTime parses a Haystack datetime literal: an ISO-8601 timestamp
// with offset, optionally followed by a space and the timezone city. A
// trailing "Z" with no city means UTC.
func ParseDateTime(s string) (DateTime, error) {
	iso, city, hasCity := strings.Cut(s, " ")
	if !hasCity {
		if !strings.HasSuffix(iso, "Z") {
			return DateTime{}, fmt.Errorf("%w: datetime %q missing timezone", ErrValue, s)
		}
		city = "UTC"
	}
	loc, err := IANAZone(city)
	if err != nil {
		return DateTime{}, err
	}
	t, err := parseISO(iso)
	if err != nil {
		return DateTime{}, err
	}
	return NewDateTime(t.In(loc))
}

func parseISO(iso string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999999-07:00"} {
		t, err := time.Parse(layout, iso)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: datetime %q", ErrValue, iso)
}
