package core

import (
	"regexp"
	"strings"
)

// FilterKind tags the query shape a filter text was classified as.
type FilterKind int

const (
	NoFilter FilterKind = iota
	ExactDate
	YearMonth
	Year
	CourseSubstring
)

func (k FilterKind) String() string {
	switch k {
	case ExactDate:
		return "exact_date"
	case YearMonth:
		return "year_month"
	case Year:
		return "year"
	case CourseSubstring:
		return "course"
	default:
		return "none"
	}
}

// Filter is a compiled round predicate.
type Filter struct {
	Kind  FilterKind
	Value string
}

// Most specific first.
var filterPatterns = []struct {
	re   *regexp.Regexp
	kind FilterKind
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), ExactDate},
	{regexp.MustCompile(`^\d{4}-\d{2}$`), YearMonth},
	{regexp.MustCompile(`^\d{4}$`), Year},
}

// ParseFilter classifies free filter text. It is total: surrounding space is
// trimmed, empty text yields NoFilter and anything not shaped like a date
// prefix is a case-insensitive course substring.
func ParseFilter(text string) Filter {
	text = strings.TrimSpace(text)
	if text == "" {
		return Filter{Kind: NoFilter}
	}
	for _, p := range filterPatterns {
		if p.re.MatchString(text) {
			return Filter{Kind: p.kind, Value: text}
		}
	}
	return Filter{Kind: CourseSubstring, Value: text}
}

// IsActive reports whether f restricts the record set.
func (f Filter) IsActive() bool {
	return f.Kind != NoFilter
}

// Match reports whether r satisfies f.
func (f Filter) Match(r Round) bool {
	switch f.Kind {
	case ExactDate:
		return r.Date == f.Value
	case YearMonth:
		return len(r.Date) >= 7 && r.Date[:7] == f.Value
	case Year:
		return len(r.Date) >= 4 && r.Date[:4] == f.Value
	case CourseSubstring:
		return strings.Contains(strings.ToLower(r.Course), strings.ToLower(f.Value))
	default:
		return true
	}
}

// Key identifies f for caching. Course filters are case-folded since they
// match case-insensitively.
func (f Filter) Key() string {
	if f.Kind == CourseSubstring {
		return f.Kind.String() + ":" + strings.ToLower(f.Value)
	}
	return f.Kind.String() + ":" + f.Value
}

func (f Filter) String() string {
	if f.Kind == NoFilter {
		return "none"
	}
	return f.Kind.String() + "=" + f.Value
}
