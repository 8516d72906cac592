package kind

import (
	"fmt"
	"strconv"
	"time"
)

// Kind is a single typed Haystack value. The set of implementations is
// closed: singletons (Marker, NA, Remove), scalars (Bool, Str, Number, Uri,
// Ref, Symbol, Date, Time, DateTime, Coord, XStr), collections (List, Dict,
// *Grid), and the toolkit-only range helpers (DateRange, DateTimeRange).
type Kind interface {
	isKind()
	fmt.Stringer
}

// Marker is a stateless sentinel used to create label tags.
type Marker struct{}

// NA is a stateless sentinel indicating a data value that is not available,
// most often an errored timestamp sample in historized data.
type NA struct{}

// Remove is a stateless sentinel used in a Dict to indicate tag deletion.
type Remove struct{}

func (Marker) isKind() {}
func (NA) isKind()     {}
func (Remove) isKind() {}

func (Marker) String() string { return "✓" }
func (NA) String() string     { return "NA" }
func (Remove) String() string { return "remove" }

// Bool is a Haystack boolean.
type Bool bool

func (Bool) isKind() {}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Str is a Haystack string.
type Str string

func (Str) isKind() {}

func (s Str) String() string { return string(s) }

// Number is a 64-bit float with an optional unit of measurement. The unit is
// an opaque string compared case-sensitively; no normalization or unit
// conversion is performed.
type Number struct {
	Val  float64
	Unit string
}

func (Number) isKind() {}

func (n Number) String() string {
	return strconv.FormatFloat(n.Val, 'g', -1, 64) + n.Unit
}

// Uri is a universal resource identifier per RFC 3986.
type Uri string

func (Uri) isKind() {}

func (u Uri) String() string { return string(u) }

// Ref is an opaque record identifier with an optional human display name.
type Ref struct {
	Val string
	Dis string
}

func (Ref) isKind() {}

func (r Ref) String() string {
	if r.Dis != "" {
		return r.Dis
	}
	return "@" + r.Val
}

// Symbol is a def identifier: ASCII letters, digits, underbar, colon, dash,
// period, or tilde.
type Symbol string

func (Symbol) isKind() {}

func (s Symbol) String() string { return "^" + string(s) }

// Date is a calendar date with no time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (Date) isKind() {}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// ParseDate parses an ISO-8601 yyyy-mm-dd literal.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q", ErrValue, s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Time is a time of day with millisecond precision and no date or zone.
type Time struct {
	Hour   int
	Minute int
	Second int
	Millis int
}

func (Time) isKind() {}

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Millis != 0 {
		s += fmt.Sprintf(".%03d", t.Millis)
	}
	return s
}

// ParseTime parses an ISO-8601 hh:mm[:ss[.fff]] literal.
func ParseTime(s string) (Time, error) {
	for _, layout := range []string{"15:04:05.000", "15:04:05.99999999", "15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Time{
				Hour:   t.Hour(),
				Minute: t.Minute(),
				Second: t.Second(),
				Millis: t.Nanosecond() / int(time.Millisecond),
			}, nil
		}
	}
	return Time{}, fmt.Errorf("%w: time %q", ErrValue, s)
}

// DateTime is a timestamp bound to an IANA timezone. Zone-naive instants are
// invalid; construct through NewDateTime so the location is checked.
type DateTime struct {
	val time.Time
}

func (DateTime) isKind() {}

// NewDateTime wraps t, requiring a named IANA location. The fixed-offset
// locations produced by time.Parse do not qualify.
func NewDateTime(t time.Time) (DateTime, error) {
	loc := t.Location()
	if loc == nil || loc == time.Local {
		return DateTime{}, fmt.Errorf("%w: datetime requires an IANA zone", ErrValue)
	}
	name := loc.String()
	if name == "" || name == "Local" {
		return DateTime{}, fmt.Errorf("%w: datetime requires an IANA zone", ErrValue)
	}
	return DateTime{val: t}, nil
}

// MustDateTime is NewDateTime that panics on error, for literals in tests
// and fixtures.
func MustDateTime(t time.Time) DateTime {
	dt, err := NewDateTime(t)
	if err != nil {
		panic(err)
	}
	return dt
}

// Time returns the underlying instant.
func (dt DateTime) Time() time.Time { return dt.val }

// Zone returns the IANA zone name, e.g. "America/New_York".
func (dt DateTime) Zone() string { return dt.val.Location().String() }

// City returns the Haystack timezone label: the last segment of the IANA
// zone name.
func (dt DateTime) City() string { return CityName(dt.val.Location()) }

// IsZero reports whether dt is the zero DateTime.
func (dt DateTime) IsZero() bool { return dt.val.IsZero() }

func (dt DateTime) String() string {
	var iso string
	if dt.val.Nanosecond() == 0 {
		iso = dt.val.Format("2006-01-02T15:04:05-07:00")
	} else {
		iso = dt.val.Format("2006-01-02T15:04:05.000-07:00")
	}
	return iso + " " + dt.City()
}

// Coord is a geographic coordinate in decimal degrees.
type Coord struct {
	Lat float64
	Lng float64
}

func (Coord) isKind() {}

func (c Coord) String() string {
	return "C(" + formatDegrees(c.Lat) + "," + formatDegrees(c.Lng) + ")"
}

func formatDegrees(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// XStr is an extended string: a type name starting with an ASCII uppercase
// letter plus a string-encoded payload.
type XStr struct {
	Type string
	Val  string
}

func (XStr) isKind() {}

func (x XStr) String() string { return "(" + x.Type + ", " + x.Val + ")" }

// List is an ordered sequence of values.
type List []Kind

func (List) isKind() {}

func (l List) String() string { return fmt.Sprintf("List(%d)", len(l)) }

// Dict is a tag bag: a string-keyed mapping of values with no significant
// ordering. A missing key means "no value", distinct from an explicit NA.
type Dict map[string]Kind

func (Dict) isKind() {}

func (d Dict) String() string { return fmt.Sprintf("Dict(%d)", len(d)) }

// Get returns the value for tag name, or nil when absent.
func (d Dict) Get(name string) Kind { return d[name] }

// Has reports whether tag name is present.
func (d Dict) Has(name string) bool {
	_, ok := d[name]
	return ok
}
