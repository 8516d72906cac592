package kind

// DateRange is a whole-day query range, inclusive of both endpoints. It is a
// request-side helper for hisRead and never appears in decoded data.
type DateRange struct {
	Start Date
	End   Date
}

func (DateRange) isKind() {}

func (r DateRange) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + "," + r.End.String()
}

// DateTimeRange is a timestamp query range, inclusive start and exclusive
// end. A zero End means "start to now".
type DateTimeRange struct {
	Start DateTime
	End   DateTime
}

func (DateTimeRange) isKind() {}

func (r DateTimeRange) String() string {
	if r.End.IsZero() {
		return r.Start.String()
	}
	return r.Start.String() + "," + r.End.String()
}
