package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildQualifierOrder(t *testing.T) {
	q, opts, err := Build(FilterParams{
		Keywords: []string{"democracy", "utopia"},
		Created:  "2008-01-01..2012-12-31",
		Language: "Python",
		Stars:    ">10",
		Limit:    30,
	})
	require.NoError(t, err)
	require.Equal(t, "democracy utopia created:2008-01-01..2012-12-31 language:Python stars:>10", q)
	require.Equal(t, "stars", opts.Sort)
	require.Equal(t, "desc", opts.Order)
	require.Equal(t, 30, opts.PerPage)
	require.Equal(t, 30, opts.MaxResults)
}

func TestBuildDeterministic(t *testing.T) {
	f := FilterParams{
		Keywords: []string{"irc"},
		Language: "Tcl",
		Stars:    "0..5",
		Created:  ">=2008-01-01",
		Limit:    10,
	}

	first, _, err := Build(f)
	require.NoError(t, err)

	for range 5 {
		again, _, err := Build(f)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestBuildEraNarrowsCreated(t *testing.T) {
	tests := []struct {
		name    string
		filters FilterParams
		want    string
	}{
		{
			name:    "era alone",
			filters: FilterParams{Era: "y2k", Language: "Java", Limit: 30},
			want:    "created:2000-01-01..2001-12-31 language:Java",
		},
		{
			name: "era intersects explicit range",
			filters: FilterParams{
				Era:     "early-github",
				Created: "2009-06-01..2020-12-31",
				Limit:   30,
			},
			want: "created:2009-06-01..2011-12-31",
		},
		{
			name: "open-ended explicit range",
			filters: FilterParams{
				Era:     "web2.0",
				Created: ">=2006-01-01",
				Limit:   30,
			},
			want: "created:2006-01-01..2009-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _, err := Build(tt.filters)
			require.NoError(t, err)
			require.Equal(t, tt.want, q)
		})
	}
}

func TestBuildDisjointRangesRejected(t *testing.T) {
	_, _, err := Build(FilterParams{
		Era:     "y2k",
		Created: "2010-01-01..2012-12-31",
		Limit:   30,
	})

	var invalid *InvalidFilterError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "created", invalid.Field)
}

func TestBuildAbandonmentUsesSingleNow(t *testing.T) {
	// Captured "now" right before a year boundary: every qualifier in the
	// built query must use the same capture.
	now := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	q, _, err := buildAt(FilterParams{AbandonedYears: 10, Limit: 30}, now)
	require.NoError(t, err)
	require.Equal(t, "pushed:<=2014-12-31", q)
}

func TestBuildDeadSince(t *testing.T) {
	q, _, err := Build(FilterParams{DeadSince: 2015, Keywords: []string{"python"}, Limit: 5})
	require.NoError(t, err)
	require.Equal(t, "python pushed:<=2014-12-31", q)
}

func TestBuildDeadSinceNarrowsExplicitPushed(t *testing.T) {
	q, _, err := Build(FilterParams{
		DeadSince: 2015,
		Pushed:    ">=2010-01-01",
		Limit:     5,
	})
	require.NoError(t, err)
	require.Equal(t, "pushed:2010-01-01..2014-12-31", q)
}

func TestBuildBooleanQualifiers(t *testing.T) {
	archived := true
	fork := false

	q, _, err := Build(FilterParams{
		Archived: &archived,
		Fork:     &fork,
		Topic:    "bbs",
		Limit:    20,
	})
	require.NoError(t, err)
	require.Equal(t, "topic:bbs archived:true fork:false", q)
}

func TestBuildInvalidInputs(t *testing.T) {
	tests := []struct {
		name      string
		filters   FilterParams
		wantField string
	}{
		{"zero limit", FilterParams{Keywords: []string{"x"}}, "limit"},
		{"negative limit", FilterParams{Keywords: []string{"x"}, Limit: -1}, "limit"},
		{"bad stars", FilterParams{Stars: "lots", Limit: 10}, "stars"},
		{"inverted stars", FilterParams{Stars: "50..10", Limit: 10}, "stars"},
		{"bad created", FilterParams{Created: "2008-13-01..x", Limit: 10}, "created"},
		{"inverted created", FilterParams{Created: "2012-01-01..2008-01-01", Limit: 10}, "created"},
		{"unknown era", FilterParams{Era: "jurassic", Limit: 10}, "era"},
		{"unknown sort", FilterParams{Keywords: []string{"x"}, Sort: "karma", Limit: 10}, "sort"},
		{"bad pushed", FilterParams{Pushed: "recently", Limit: 10}, "pushed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(tt.filters)

			var invalid *InvalidFilterError
			require.ErrorAs(t, err, &invalid)
			require.Equal(t, tt.wantField, invalid.Field)
		})
	}
}

func TestBuildPerPageCapped(t *testing.T) {
	_, opts, err := Build(FilterParams{Keywords: []string{"x"}, Limit: 250})
	require.NoError(t, err)
	require.Equal(t, MaxPerPage, opts.PerPage)
	require.Equal(t, 250, opts.MaxResults)
}

func TestMergeOverrideWins(t *testing.T) {
	template := FilterParams{
		Language: "COBOL",
		Created:  "2008-01-01..2020-12-31",
		Sort:     "stars",
	}
	override := FilterParams{
		Language: "Pascal",
		Stars:    ">10",
	}

	merged := Merge(template, override)
	require.Equal(t, "Pascal", merged.Language)
	require.Equal(t, ">10", merged.Stars)
	// Unset override fields keep the template's values.
	require.Equal(t, "2008-01-01..2020-12-31", merged.Created)
	require.Equal(t, "stars", merged.Sort)

	q, _, err := Build(Merge(merged, FilterParams{Limit: 30}))
	require.NoError(t, err)
	require.Contains(t, q, "language:Pascal")
	require.Contains(t, q, "stars:>10")
	require.NotContains(t, q, "COBOL")
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	template := FilterParams{Language: "Fortran"}
	override := FilterParams{Stars: ">5"}

	_ = Merge(template, override)
	require.Equal(t, "Fortran", template.Language)
	require.Empty(t, template.Stars)
	require.Empty(t, override.Language)
}

func TestSnapshotRoundTripsSetFields(t *testing.T) {
	archived := true
	snap := FilterParams{
		Keywords:  []string{"cvs", "svn"},
		Language:  "Perl",
		DeadSince: 2015,
		Archived:  &archived,
		Limit:     30,
	}.Snapshot()

	require.Equal(t, "cvs,svn", snap["keywords"])
	require.Equal(t, "Perl", snap["language"])
	require.Equal(t, "2015", snap["dead_since"])
	require.Equal(t, "true", snap["archived"])
	require.Equal(t, "30", snap["limit"])
	require.NotContains(t, snap, "stars")
}

func TestIsEmpty(t *testing.T) {
	require.True(t, FilterParams{Limit: 30, Sort: "stars"}.IsEmpty())
	require.False(t, FilterParams{Era: "y2k"}.IsEmpty())
	require.False(t, FilterParams{AbandonedYears: 5}.IsEmpty())
}
