package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/query"
	"github.com/inovacc/relic/internal/search"
	"github.com/inovacc/relic/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	searchFn func(query string, opts search.PageOptions) (*search.Page, error)
	getFn    func(owner, name string) (*github.Repository, error)
	queries  []string
}

func (f *fakeTransport) SearchPage(_ context.Context, query string, opts search.PageOptions) (*search.Page, error) {
	f.queries = append(f.queries, query)
	return f.searchFn(query, opts)
}

func (f *fakeTransport) GetRepository(_ context.Context, owner, name string) (*github.Repository, error) {
	return f.getFn(owner, name)
}

func ghRepo(fullName string, stars int) *github.Repository {
	owner, name, _ := model.SplitFullName(fullName)

	return &github.Repository{
		FullName:        github.Ptr(fullName),
		Name:            github.Ptr(name),
		Owner:           &github.User{Login: github.Ptr(owner)},
		StargazersCount: github.Ptr(stars),
		HTMLURL:         github.Ptr("https://github.com/" + fullName),
	}
}

func newTestService(t *testing.T, transport search.Transport) (*Service, store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "relic.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.DiscardHandler)

	return NewService(search.NewExecutor(transport, logger), st, logger), st
}

func singlePage(repos ...*github.Repository) func(string, search.PageOptions) (*search.Page, error) {
	return func(string, search.PageOptions) (*search.Page, error) {
		return &search.Page{Items: repos, HasNext: false}, nil
	}
}

func TestScanWithPresetPersistsResultsAndHistory(t *testing.T) {
	transport := &fakeTransport{
		searchFn: singlePage(ghRepo("alice/guestbook", 12), ghRepo("bob/webring", 5)),
	}

	svc, st := newTestService(t, transport)

	result, err := svc.Scan(context.Background(), ScanOptions{PresetID: "y2k-web"})
	require.NoError(t, err)

	assert.Len(t, result.Records, 2)
	assert.Equal(t, model.UpsertResult{New: 2}, result.Upsert)
	assert.False(t, result.Partial)

	// one provider search per preset keyword, same created window on each
	require.Len(t, transport.queries, 4)
	assert.Contains(t, transport.queries[0], "created:2008-01-01..2012-12-31")

	scans, err := st.Scans(0)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "y2k-web", scans[0].PresetID)
	assert.Equal(t, 2, scans[0].ResultCount)
	assert.Equal(t, 2, scans[0].NewRecordCount)

	stored, err := st.Get("alice/guestbook")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"y2k-web"}, stored.MatchedPresets)
}

func TestScanUnknownPreset(t *testing.T) {
	svc, _ := newTestService(t, &fakeTransport{})

	_, err := svc.Scan(context.Background(), ScanOptions{PresetID: "no-such-preset"})
	require.Error(t, err)
}

func TestScanRejectsEmptyFilters(t *testing.T) {
	svc, _ := newTestService(t, &fakeTransport{})

	_, err := svc.Scan(context.Background(), ScanOptions{})

	var filterErr *query.InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
}

func TestScanFilterOverridesPresetTemplate(t *testing.T) {
	transport := &fakeTransport{searchFn: singlePage()}

	svc, _ := newTestService(t, transport)

	_, err := svc.Scan(context.Background(), ScanOptions{
		PresetID: "dead-lang-cobol",
		Filters:  query.FilterParams{Language: "Pascal"},
	})
	require.NoError(t, err)

	require.NotEmpty(t, transport.queries)
	assert.Contains(t, transport.queries[0], "language:Pascal")
	assert.NotContains(t, transport.queries[0], "language:COBOL")
}

func TestScanDryRunSkipsPersistence(t *testing.T) {
	transport := &fakeTransport{searchFn: singlePage(ghRepo("a/one", 1))}

	svc, st := newTestService(t, transport)

	result, err := svc.Scan(context.Background(), ScanOptions{
		Filters: query.FilterParams{Keywords: []string{"geocities"}},
		DryRun:  true,
	})
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)

	scans, err := st.Scans(0)
	require.NoError(t, err)
	assert.Empty(t, scans)

	stored, err := st.Get("a/one")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestScanMultiKeywordMergesPerKeywordSearches(t *testing.T) {
	pages := map[string]*search.Page{
		"democracy": {Items: []*github.Repository{ghRepo("a/one", 50), ghRepo("b/two", 5)}},
		"utopia":    {Items: []*github.Repository{ghRepo("b/two", 5), ghRepo("c/three", 80)}},
	}

	transport := &fakeTransport{
		searchFn: func(query string, _ search.PageOptions) (*search.Page, error) {
			for kw, page := range pages {
				if len(query) >= len(kw) && query[:len(kw)] == kw {
					return page, nil
				}
			}
			return &search.Page{}, nil
		},
	}

	svc, _ := newTestService(t, transport)

	result, err := svc.Scan(context.Background(), ScanOptions{
		Filters: query.FilterParams{Keywords: []string{"democracy", "utopia"}},
		DryRun:  true,
	})
	require.NoError(t, err)

	assert.Len(t, transport.queries, 2)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "c/three", result.Records[0].FullName)
	assert.Equal(t, "a/one", result.Records[1].FullName)
	assert.Equal(t, "b/two", result.Records[2].FullName)
}

func TestScanDiscardsResultsOnFailure(t *testing.T) {
	transport := &fakeTransport{
		searchFn: func(string, search.PageOptions) (*search.Page, error) {
			return nil, &search.TransportError{Kind: search.KindAuthFailed, Err: errors.New("bad credentials")}
		},
	}

	svc, st := newTestService(t, transport)

	_, err := svc.Scan(context.Background(), ScanOptions{
		Filters: query.FilterParams{Keywords: []string{"geocities"}},
	})
	require.Error(t, err)

	scans, err := st.Scans(0)
	require.NoError(t, err)
	assert.Empty(t, scans)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRepos)
}

func TestScanKeepPartialPersistsCollectedPages(t *testing.T) {
	transport := &fakeTransport{
		searchFn: func(_ string, opts search.PageOptions) (*search.Page, error) {
			if opts.Page == 1 {
				items := make([]*github.Repository, opts.PerPage)
				for i := range items {
					items[i] = ghRepo(fmt.Sprintf("owner/repo-%03d", i), i)
				}
				return &search.Page{Items: items, HasNext: true}, nil
			}
			return nil, &search.TransportError{Kind: search.KindRateLimited, Err: errors.New("rate limited")}
		},
	}

	svc, st := newTestService(t, transport)

	result, err := svc.Scan(context.Background(), ScanOptions{
		Filters:     query.FilterParams{Keywords: []string{"geocities"}, Limit: 150},
		KeepPartial: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Len(t, result.Records, 100)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalRepos)
}

func TestDigPersistsAndBumpsScanCount(t *testing.T) {
	transport := &fakeTransport{
		getFn: func(owner, name string) (*github.Repository, error) {
			return ghRepo(owner+"/"+name, 7), nil
		},
	}

	svc, st := newTestService(t, transport)

	first, err := svc.Dig(context.Background(), "alice/time-capsule")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ScanCount)

	second, err := svc.Dig(context.Background(), "alice/time-capsule")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ScanCount)
	assert.True(t, second.FirstSeen.Equal(first.FirstSeen))

	// every dig leaves a history row like any other API operation
	scans, err := st.Scans(0)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "repo:alice/time-capsule", scans[0].Query)
	assert.Equal(t, 1, scans[0].ResultCount)
	assert.Equal(t, 0, scans[0].NewRecordCount)
	assert.Equal(t, 1, scans[1].NewRecordCount)
}

func TestRabbitHoleDerivesFiltersFromSeed(t *testing.T) {
	seed := ghRepo("alice/origin", 100)
	seed.Language = github.Ptr("Perl")
	seed.CreatedAt = &github.Timestamp{Time: time.Date(2009, 6, 1, 0, 0, 0, 0, time.UTC)}
	seed.Topics = []string{"cgi", "web", "retro", "extra"}

	transport := &fakeTransport{
		getFn:    func(string, string) (*github.Repository, error) { return seed, nil },
		searchFn: singlePage(ghRepo("bob/neighbor", 3)),
	}

	svc, _ := newTestService(t, transport)

	result, err := svc.RabbitHole(context.Background(), "alice/origin", ScanOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "alice/origin", result.Seed.FullName)
	assert.Equal(t, []string{"cgi", "web", "retro"}, result.Filters.Keywords)
	assert.Equal(t, "Perl", result.Filters.Language)
	assert.Equal(t, "2007-01-01..2011-12-31", result.Filters.Created)

	// one search per topic keyword
	assert.Len(t, transport.queries, 3)
	for _, q := range transport.queries {
		assert.Contains(t, q, "language:Perl")
		assert.Contains(t, q, "created:2007-01-01..2011-12-31")
	}
}

func TestRabbitHoleBareSeedRejected(t *testing.T) {
	transport := &fakeTransport{
		getFn: func(string, string) (*github.Repository, error) {
			return ghRepo("ghost/empty", 0), nil
		},
	}

	svc, _ := newTestService(t, transport)

	_, err := svc.RabbitHole(context.Background(), "ghost/empty", ScanOptions{})
	require.Error(t, err)
}

func TestMorgueAndCasketQueries(t *testing.T) {
	transport := &fakeTransport{searchFn: singlePage()}

	svc, _ := newTestService(t, transport)

	_, err := svc.Morgue(context.Background(), ScanOptions{DryRun: true})
	require.NoError(t, err)

	// one search per keyword, all carrying the fixed date windows
	assert.Len(t, transport.queries, 6)
	assert.Contains(t, transport.queries[0], "created:2008-01-01..2016-12-31")
	assert.Contains(t, transport.queries[0], "pushed:<=2017-12-31")

	transport.queries = nil

	_, err = svc.Casket(context.Background(), "Perl", ScanOptions{DryRun: true})
	require.NoError(t, err)

	assert.Len(t, transport.queries, 5)
	assert.Contains(t, transport.queries[0], "language:Perl")
	assert.Contains(t, transport.queries[0], "pushed:<=2019-12-31")
	assert.Contains(t, transport.queries[0], "archived:true")
}

func TestScanByEraPersistsEverythingAsNew(t *testing.T) {
	transport := &fakeTransport{
		searchFn: singlePage(ghRepo("a/one", 3), ghRepo("b/two", 2), ghRepo("c/three", 1)),
	}

	svc, st := newTestService(t, transport)

	result, err := svc.Scan(context.Background(), ScanOptions{
		Filters: query.FilterParams{Era: "y2k", Language: "Java"},
	})
	require.NoError(t, err)

	require.Len(t, transport.queries, 1)
	assert.Contains(t, transport.queries[0], "created:2000-01-01..2001-12-31")
	assert.Contains(t, transport.queries[0], "language:Java")

	assert.Equal(t, 3, result.Scan.NewRecordCount)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRepos)
}

func TestRandomScansSomePreset(t *testing.T) {
	transport := &fakeTransport{searchFn: singlePage(ghRepo("a/one", 1))}

	svc, st := newTestService(t, transport)

	result, p, err := svc.Random(context.Background(), ScanOptions{}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, p.ID, result.Scan.PresetID)

	scans, err := st.Scans(0)
	require.NoError(t, err)
	require.Len(t, scans, 1)
}
