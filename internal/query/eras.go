package query

import "sort"

// Era is a named historical period used as a created-date shorthand.
type Era struct {
	Name  string
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// eras maps era names to creation-date windows.
var eras = map[string]Era{
	"y2k":          {Name: "y2k", Start: "2000-01-01", End: "2001-12-31"},
	"dotcom":       {Name: "dotcom", Start: "1997-01-01", End: "2001-12-31"},
	"web2.0":       {Name: "web2.0", Start: "2004-01-01", End: "2009-12-31"},
	"early-github": {Name: "early-github", Start: "2008-01-01", End: "2011-12-31"},
	"pre-mobile":   {Name: "pre-mobile", Start: "2007-01-01", End: "2010-12-31"},
}

// LookupEra resolves an era name to its date window.
func LookupEra(name string) (Era, bool) {
	e, ok := eras[name]
	return e, ok
}

// EraNames returns all known era names, sorted.
func EraNames() []string {
	names := make([]string, 0, len(eras))
	for name := range eras {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e Era) dateRange() dateRange {
	start, _ := parseDate(e.Start)
	end, _ := parseDate(e.End)
	return dateRange{start: &start, end: &end}
}
