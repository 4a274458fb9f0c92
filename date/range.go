package date

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains returns true if the date is included in the range (boundaries included).
// A zero From (resp. To) leaves the range open on that side.
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether the range is fully open.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Clamp returns a copy of r restricted to the bounds of x. Open sides of x
// leave the corresponding side of r untouched.
func (r Range) Clamp(x Range) Range {
	out := r
	if !x.From.IsZero() && (out.From.IsZero() || out.From.Before(x.From)) {
		out.From = x.From
	}
	if !x.To.IsZero() && (out.To.IsZero() || out.To.After(x.To)) {
		out.To = x.To
	}
	return out
}

// String formats the range as "from..to" with open sides left empty.
func (r Range) String() string {
	var from, to string
	if !r.From.IsZero() {
		from = r.From.String()
	}
	if !r.To.IsZero() {
		to = r.To.String()
	}
	return from + ".." + to
}
