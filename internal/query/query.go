// Package query translates high-level filter parameters into GitHub
// repository-search query strings and request options.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLimit is the result cap applied when the caller does not set one.
	DefaultLimit = 30

	// MaxPerPage is the provider's per-page ceiling for search results.
	MaxPerPage = 100
)

// FilterParams is the full set of recognized search filters. Zero values
// mean "unset"; Merge and Build treat them accordingly.
type FilterParams struct {
	Keywords       []string
	Language       string
	Created        string // date range expression, e.g. "2008-01-01..2010-12-31"
	Pushed         string // date range expression, e.g. "<2015-01-01"
	Stars          string // star range expression, e.g. ">100", "10..50"
	Era            string // named era, resolved into a created-date window
	AbandonedYears int    // pushed before now minus N years
	DeadSince      int    // pushed before January 1 of this year
	Topic          string
	Archived       *bool
	Fork           *bool
	Sort           string // stars, forks or updated; default stars
	Limit          int
}

// Options carries the request parameters that accompany a built query.
type Options struct {
	Sort       string
	Order      string
	PerPage    int
	MaxResults int
}

// InvalidFilterError reports a malformed or unknown filter value. It is
// returned before any network call is made.
type InvalidFilterError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid %s filter: %s", e.Field, e.Reason)
}

var starRangeRe = regexp.MustCompile(`^(?:(>=|<=|>|<)(\d+)|(\d+)\.\.(\d+)|(\d+))$`)

func validateStars(expr string) error {
	m := starRangeRe.FindStringSubmatch(expr)
	if m == nil {
		return fmt.Errorf("malformed star range %q (want >N, >=N, <N, <=N, N..M or N)", expr)
	}
	if m[3] != "" {
		lo, _ := strconv.Atoi(m[3])
		hi, _ := strconv.Atoi(m[4])
		if lo > hi {
			return fmt.Errorf("star range %q is inverted", expr)
		}
	}
	return nil
}

// Merge layers an explicit override on top of a template, field by field.
// Every explicitly-set override field wins; unset override fields keep the
// template's value. Neither input is modified.
func Merge(template, override FilterParams) FilterParams {
	out := template

	if len(override.Keywords) > 0 {
		out.Keywords = override.Keywords
	}
	if override.Language != "" {
		out.Language = override.Language
	}
	if override.Created != "" {
		out.Created = override.Created
	}
	if override.Pushed != "" {
		out.Pushed = override.Pushed
	}
	if override.Stars != "" {
		out.Stars = override.Stars
	}
	if override.Era != "" {
		out.Era = override.Era
	}
	if override.AbandonedYears != 0 {
		out.AbandonedYears = override.AbandonedYears
	}
	if override.DeadSince != 0 {
		out.DeadSince = override.DeadSince
	}
	if override.Topic != "" {
		out.Topic = override.Topic
	}
	if override.Archived != nil {
		out.Archived = override.Archived
	}
	if override.Fork != nil {
		out.Fork = override.Fork
	}
	if override.Sort != "" {
		out.Sort = override.Sort
	}
	if override.Limit != 0 {
		out.Limit = override.Limit
	}

	return out
}

// IsEmpty reports whether no search-constraining field is set. Limit and
// Sort alone do not constrain a search.
func (f FilterParams) IsEmpty() bool {
	return len(f.Keywords) == 0 && f.Language == "" && f.Created == "" &&
		f.Pushed == "" && f.Stars == "" && f.Era == "" &&
		f.AbandonedYears == 0 && f.DeadSince == 0 && f.Topic == "" &&
		f.Archived == nil && f.Fork == nil
}

// Snapshot serializes every set filter field for scan-history records.
func (f FilterParams) Snapshot() map[string]string {
	snap := make(map[string]string)

	if len(f.Keywords) > 0 {
		snap["keywords"] = strings.Join(f.Keywords, ",")
	}
	if f.Language != "" {
		snap["language"] = f.Language
	}
	if f.Created != "" {
		snap["created"] = f.Created
	}
	if f.Pushed != "" {
		snap["pushed"] = f.Pushed
	}
	if f.Stars != "" {
		snap["stars"] = f.Stars
	}
	if f.Era != "" {
		snap["era"] = f.Era
	}
	if f.AbandonedYears != 0 {
		snap["abandoned_years"] = strconv.Itoa(f.AbandonedYears)
	}
	if f.DeadSince != 0 {
		snap["dead_since"] = strconv.Itoa(f.DeadSince)
	}
	if f.Topic != "" {
		snap["topic"] = f.Topic
	}
	if f.Archived != nil {
		snap["archived"] = strconv.FormatBool(*f.Archived)
	}
	if f.Fork != nil {
		snap["fork"] = strconv.FormatBool(*f.Fork)
	}
	if f.Sort != "" {
		snap["sort"] = f.Sort
	}
	if f.Limit != 0 {
		snap["limit"] = strconv.Itoa(f.Limit)
	}

	return snap
}

// Build renders the filters into a provider query string plus request
// options. It is deterministic for identical inputs apart from the
// abandonment cutoff, which uses a single captured "now" for the whole call.
func Build(f FilterParams) (string, Options, error) {
	return buildAt(f, time.Now().UTC())
}

func buildAt(f FilterParams, now time.Time) (string, Options, error) {
	if f.Limit <= 0 {
		return "", Options{}, &InvalidFilterError{Field: "limit", Reason: "must be a positive integer"}
	}

	sort := f.Sort
	if sort == "" {
		sort = "stars"
	}
	switch sort {
	case "stars", "forks", "updated":
	default:
		return "", Options{}, &InvalidFilterError{
			Field:  "sort",
			Reason: fmt.Sprintf("unknown sort field %q (want stars, forks or updated)", f.Sort),
		}
	}

	created, err := resolveCreated(f)
	if err != nil {
		return "", Options{}, err
	}

	pushed, err := resolvePushed(f, now)
	if err != nil {
		return "", Options{}, err
	}

	if f.Stars != "" {
		if err := validateStars(f.Stars); err != nil {
			return "", Options{}, &InvalidFilterError{Field: "stars", Reason: err.Error()}
		}
	}

	// Keywords lead unqualified; qualifiers follow in a fixed order so the
	// same filters always render the same string.
	var parts []string
	for _, kw := range f.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			parts = append(parts, kw)
		}
	}
	if !created.empty() {
		parts = append(parts, "created:"+created.String())
	}
	if f.Language != "" {
		parts = append(parts, "language:"+f.Language)
	}
	if f.Stars != "" {
		parts = append(parts, "stars:"+f.Stars)
	}
	if !pushed.empty() {
		parts = append(parts, "pushed:"+pushed.String())
	}
	if f.Topic != "" {
		parts = append(parts, "topic:"+f.Topic)
	}
	if f.Archived != nil {
		parts = append(parts, "archived:"+strconv.FormatBool(*f.Archived))
	}
	if f.Fork != nil {
		parts = append(parts, "fork:"+strconv.FormatBool(*f.Fork))
	}

	perPage := f.Limit
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	opts := Options{
		Sort:       sort,
		Order:      "desc",
		PerPage:    perPage,
		MaxResults: f.Limit,
	}

	return strings.Join(parts, " "), opts, nil
}

// resolveCreated combines the explicit created range with a named era.
// When both are present they narrow each other.
func resolveCreated(f FilterParams) (dateRange, error) {
	var out dateRange

	if f.Created != "" {
		r, err := parseDateRange(f.Created)
		if err != nil {
			return dateRange{}, &InvalidFilterError{Field: "created", Reason: err.Error()}
		}
		out = r
	}

	if f.Era != "" {
		era, ok := LookupEra(f.Era)
		if !ok {
			return dateRange{}, &InvalidFilterError{
				Field:  "era",
				Reason: fmt.Sprintf("unknown era %q (known: %s)", f.Era, strings.Join(EraNames(), ", ")),
			}
		}
		narrowed, err := out.intersect(era.dateRange())
		if err != nil {
			return dateRange{}, &InvalidFilterError{Field: "created", Reason: err.Error()}
		}
		out = narrowed
	}

	return out, nil
}

// resolvePushed combines the explicit pushed range with abandonment filters.
// DeadSince and AbandonedYears both translate to an upper bound on the last
// push; an explicit range narrows alongside them.
func resolvePushed(f FilterParams, now time.Time) (dateRange, error) {
	var out dateRange

	if f.Pushed != "" {
		r, err := parseDateRange(f.Pushed)
		if err != nil {
			return dateRange{}, &InvalidFilterError{Field: "pushed", Reason: err.Error()}
		}
		out = r
	}

	cutoffYear := 0
	switch {
	case f.DeadSince != 0:
		if f.DeadSince < 1970 || f.DeadSince > now.Year() {
			return dateRange{}, &InvalidFilterError{
				Field:  "dead-since",
				Reason: fmt.Sprintf("year %d out of range", f.DeadSince),
			}
		}
		cutoffYear = f.DeadSince
	case f.AbandonedYears != 0:
		if f.AbandonedYears < 0 {
			return dateRange{}, &InvalidFilterError{Field: "abandoned", Reason: "years must be positive"}
		}
		cutoffYear = now.Year() - f.AbandonedYears
	}

	if cutoffYear != 0 {
		cutoff, err := parseDateRange(fmt.Sprintf("<%d-01-01", cutoffYear))
		if err != nil {
			return dateRange{}, &InvalidFilterError{Field: "pushed", Reason: err.Error()}
		}
		narrowed, err := out.intersect(cutoff)
		if err != nil {
			return dateRange{}, &InvalidFilterError{Field: "pushed", Reason: err.Error()}
		}
		out = narrowed
	}

	return out, nil
}
