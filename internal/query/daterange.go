package query

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// dateRange is an inclusive date interval; a nil bound is open.
// Comparator expressions are normalized to inclusive bounds on parse
// ("<2015-01-01" becomes an open-start range ending 2014-12-31), so
// intersection is plain max/min over bounds.
type dateRange struct {
	start *time.Time
	end   *time.Time
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseDateRange accepts the provider's qualifier forms:
// "A..B", "A..*", "*..B", ">A", ">=A", "<A", "<=A", and a bare date.
func parseDateRange(expr string) (dateRange, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return dateRange{}, fmt.Errorf("empty date range")
	}

	switch {
	case strings.Contains(expr, ".."):
		lo, hi, _ := strings.Cut(expr, "..")
		var r dateRange
		if lo != "*" && lo != "" {
			t, err := parseDate(lo)
			if err != nil {
				return dateRange{}, err
			}
			r.start = &t
		}
		if hi != "*" && hi != "" {
			t, err := parseDate(hi)
			if err != nil {
				return dateRange{}, err
			}
			r.end = &t
		}
		if r.start == nil && r.end == nil {
			return dateRange{}, fmt.Errorf("date range %q has no bounds", expr)
		}
		if r.start != nil && r.end != nil && r.start.After(*r.end) {
			return dateRange{}, fmt.Errorf("date range %q is inverted", expr)
		}
		return r, nil

	case strings.HasPrefix(expr, ">="):
		t, err := parseDate(expr[2:])
		if err != nil {
			return dateRange{}, err
		}
		return dateRange{start: &t}, nil

	case strings.HasPrefix(expr, "<="):
		t, err := parseDate(expr[2:])
		if err != nil {
			return dateRange{}, err
		}
		return dateRange{end: &t}, nil

	case strings.HasPrefix(expr, ">"):
		t, err := parseDate(expr[1:])
		if err != nil {
			return dateRange{}, err
		}
		t = t.AddDate(0, 0, 1)
		return dateRange{start: &t}, nil

	case strings.HasPrefix(expr, "<"):
		t, err := parseDate(expr[1:])
		if err != nil {
			return dateRange{}, err
		}
		t = t.AddDate(0, 0, -1)
		return dateRange{end: &t}, nil

	default:
		t, err := parseDate(expr)
		if err != nil {
			return dateRange{}, err
		}
		return dateRange{start: &t, end: &t}, nil
	}
}

// intersect narrows r by other. Returns an error when the ranges are
// disjoint; callers combine independent date filters with logical AND and an
// empty intersection means the query can never match.
func (r dateRange) intersect(other dateRange) (dateRange, error) {
	out := r
	if other.start != nil && (out.start == nil || other.start.After(*out.start)) {
		out.start = other.start
	}
	if other.end != nil && (out.end == nil || other.end.Before(*out.end)) {
		out.end = other.end
	}
	if out.start != nil && out.end != nil && out.start.After(*out.end) {
		return dateRange{}, fmt.Errorf("date filters do not overlap")
	}
	return out, nil
}

// String renders the range in provider qualifier syntax.
func (r dateRange) String() string {
	switch {
	case r.start != nil && r.end != nil:
		if r.start.Equal(*r.end) {
			return r.start.Format(dateLayout)
		}
		return r.start.Format(dateLayout) + ".." + r.end.Format(dateLayout)
	case r.start != nil:
		return ">=" + r.start.Format(dateLayout)
	case r.end != nil:
		return "<=" + r.end.Format(dateLayout)
	default:
		return ""
	}
}

func (r dateRange) empty() bool {
	return r.start == nil && r.end == nil
}
