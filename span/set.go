package span

// Flags carries the insertion behaviour a span was registered with.
type Flags uint8

const (
	ExclusiveExclusive Flags = iota
	InclusiveExclusive
	ExclusiveInclusive
	InclusiveInclusive
	// Paragraph marks spans that must start and end on paragraph boundaries.
	Paragraph Flags = 1 << 4
)

// Entry is one registered span of type T.
type Entry[T any] struct {
	Start int
	End   int
	Flags Flags
	Value T
}

// Query is the read side of a span set, in registration order.
type Query[T any] interface {
	Overlapping(start, end int) []Entry[T]
	NextTransition(start, limit int) int
	Len() int
}

// Set stores spans of one kind in registration order.
type Set[T any] struct {
	entries []Entry[T]
}

var _ Query[Align] = (*Set[Align])(nil)

// Add registers a span; callers validate the range against the text length.
func (s *Set[T]) Add(start, end int, flags Flags, v T) {
	s.entries = append(s.entries, Entry[T]{Start: start, End: end, Flags: flags, Value: v})
}

// Len returns the number of registered spans.
func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Overlapping returns the spans touching [start, end) in registration order.
// Non-empty spans that only abut a non-empty query range are excluded; empty
// spans or empty queries match at their boundary.
func (s *Set[T]) Overlapping(start, end int) []Entry[T] {
	if s == nil {
		return nil
	}
	var out []Entry[T]
	for _, e := range s.entries {
		if overlaps(e.Start, e.End, start, end) {
			out = append(out, e)
		}
	}
	return out
}

// NextTransition returns the first span boundary in (start, limit), or limit.
func (s *Set[T]) NextTransition(start, limit int) int {
	if s == nil {
		return limit
	}
	for _, e := range s.entries {
		if e.Start > start && e.Start < limit {
			limit = e.Start
		}
		if e.End > start && e.End < limit {
			limit = e.End
		}
	}
	return limit
}

func overlaps(spanStart, spanEnd, start, end int) bool {
	if spanStart > end || spanEnd < start {
		return false
	}
	if spanStart != spanEnd && start != end {
		if spanStart == end || spanEnd == start {
			return false
		}
	}
	return true
}

// ParagraphSpans returns the paragraph-style spans over [start, end). A collapsed
// range after the text start never matches, so the empty line after a trailing
// line feed does not inherit the previous paragraph's style.
func ParagraphSpans[T any](q Query[T], start, end int) []Entry[T] {
	if q == nil || (start == end && start > 0) {
		return nil
	}
	return q.Overlapping(start, end)
}
