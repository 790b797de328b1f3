package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/query"
	"github.com/stretchr/testify/require"
)

type stubCall struct {
	page *Page
	err  error
}

// stubTransport replays a scripted sequence of SearchPage responses.
type stubTransport struct {
	calls    []stubCall
	requests []PageOptions
	repos    map[string]*github.Repository
}

func (s *stubTransport) SearchPage(_ context.Context, _ string, opts PageOptions) (*Page, error) {
	s.requests = append(s.requests, opts)
	if len(s.calls) == 0 {
		return &Page{}, nil
	}
	call := s.calls[0]
	s.calls = s.calls[1:]
	return call.page, call.err
}

func (s *stubTransport) GetRepository(_ context.Context, owner, name string) (*github.Repository, error) {
	repo, ok := s.repos[owner+"/"+name]
	if !ok {
		return nil, &NotFoundError{FullName: owner + "/" + name}
	}
	return repo, nil
}

func ghRepo(fullName string, stars int) *github.Repository {
	return &github.Repository{
		FullName:        github.Ptr(fullName),
		StargazersCount: github.Ptr(stars),
		HTMLURL:         github.Ptr("https://github.com/" + fullName),
	}
}

func ghPage(hasNext bool, names ...string) *Page {
	items := make([]*github.Repository, len(names))
	for i, name := range names {
		items[i] = ghRepo(name, i)
	}
	return &Page{Items: items, HasNext: hasNext}
}

func newTestExecutor(t *stubTransport) *Executor {
	e := NewExecutor(t, nil)
	e.sleep = func(time.Duration) {}
	return e
}

func TestSearchStopsOnShortPage(t *testing.T) {
	// Two full pages then a short final page: all three pages concatenated,
	// no fourth request.
	transport := &stubTransport{calls: []stubCall{
		{page: ghPage(true, "a/1", "a/2")},
		{page: ghPage(true, "b/1", "b/2")},
		{page: ghPage(true, "c/1")},
	}}

	opts := query.Options{Sort: "stars", Order: "desc", PerPage: 2, MaxResults: 100}
	records, err := newTestExecutor(transport).Search(context.Background(), "language:Tcl", opts)
	require.NoError(t, err)
	require.Len(t, records, 5)
	require.Len(t, transport.requests, 3)
	require.Equal(t, 3, transport.requests[2].Page)
}

func TestSearchStopsAtMaxResults(t *testing.T) {
	transport := &stubTransport{calls: []stubCall{
		{page: ghPage(true, "a/1", "a/2")},
		{page: ghPage(true, "b/1", "b/2")},
	}}

	opts := query.Options{PerPage: 2, MaxResults: 3}
	records, err := newTestExecutor(transport).Search(context.Background(), "q", opts)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Len(t, transport.requests, 2)
}

func TestSearchStopsWhenNoNextPage(t *testing.T) {
	transport := &stubTransport{calls: []stubCall{
		{page: ghPage(false, "a/1", "a/2")},
	}}

	opts := query.Options{PerPage: 2, MaxResults: 100}
	records, err := newTestExecutor(transport).Search(context.Background(), "q", opts)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, transport.requests, 1)
}

func TestSearchRetriesTransientOnce(t *testing.T) {
	transport := &stubTransport{calls: []stubCall{
		{err: &TransportError{Kind: KindRateLimited, Err: errors.New("403")}},
		{page: ghPage(false, "a/1")},
	}}

	var slept []time.Duration
	e := NewExecutor(transport, nil)
	e.sleep = func(d time.Duration) { slept = append(slept, d) }

	records, err := e.Search(context.Background(), "q", query.Options{PerPage: 10, MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, slept, 1)
}

func TestSearchFailsAfterSecondConsecutiveFailure(t *testing.T) {
	transport := &stubTransport{calls: []stubCall{
		{page: ghPage(true, "a/1", "a/2")},
		{err: &TransportError{Kind: KindTimeout, Err: errors.New("deadline")}},
		{err: &TransportError{Kind: KindTimeout, Err: errors.New("deadline")}},
	}}

	_, err := newTestExecutor(transport).Search(context.Background(), "q", query.Options{PerPage: 2, MaxResults: 100})

	var failed *SearchFailedError
	require.ErrorAs(t, err, &failed)
	require.Equal(t, 2, failed.Page)
	// The first page is carried for callers that opt into partial persistence.
	require.Len(t, failed.Partial, 2)
}

func TestSearchAuthFailureIsFatalWithoutRetry(t *testing.T) {
	transport := &stubTransport{calls: []stubCall{
		{err: &TransportError{Kind: KindAuthFailed, Err: errors.New("401")}},
	}}

	_, err := newTestExecutor(transport).Search(context.Background(), "q", query.Options{PerPage: 10, MaxResults: 10})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, KindAuthFailed, transportErr.Kind)
	require.Len(t, transport.requests, 1)
}

func TestGet(t *testing.T) {
	created := time.Date(2008, 4, 10, 12, 0, 0, 0, time.UTC)
	transport := &stubTransport{repos: map[string]*github.Repository{
		"torvalds/linux": {
			FullName:        github.Ptr("torvalds/linux"),
			Name:            github.Ptr("linux"),
			Owner:           &github.User{Login: github.Ptr("torvalds")},
			StargazersCount: github.Ptr(150000),
			Language:        github.Ptr("C"),
			CreatedAt:       &github.Timestamp{Time: created},
			Topics:          []string{"kernel", "linux"},
		},
	}}

	rec, err := newTestExecutor(transport).Get(context.Background(), "torvalds/linux")
	require.NoError(t, err)
	require.Equal(t, "torvalds", rec.Owner)
	require.Equal(t, "linux", rec.Name)
	require.Equal(t, 150000, rec.Stars)
	require.NotNil(t, rec.CreatedAt)
	require.Equal(t, created, *rec.CreatedAt)

	_, err = newTestExecutor(transport).Get(context.Background(), "nobody/nothing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = newTestExecutor(transport).Get(context.Background(), "not-a-full-name")
	require.ErrorAs(t, err, &notFound)
}

func TestNormalizePreservesAbsentFields(t *testing.T) {
	rec := Normalize(&github.Repository{
		FullName:        github.Ptr("ghost/empty"),
		StargazersCount: github.Ptr(0),
	})

	require.Equal(t, "ghost/empty", rec.FullName)
	require.Equal(t, "ghost", rec.Owner)
	require.Equal(t, "empty", rec.Name)
	require.Zero(t, rec.Stars)
	// Absent optionals stay nil, not empty strings or zero times.
	require.Nil(t, rec.Description)
	require.Nil(t, rec.Language)
	require.Nil(t, rec.CreatedAt)
	require.Nil(t, rec.PushedAt)
}

func TestMergeByFullName(t *testing.T) {
	mk := func(name string, stars int) model.RepositoryRecord {
		return model.RepositoryRecord{FullName: name, Stars: stars}
	}

	merged := MergeByFullName([][]model.RepositoryRecord{
		{mk("a/low", 1), mk("b/high", 90)},
		{mk("b/high", 90), mk("c/mid", 40)},
		{mk("d/extra", 10)},
	}, 3)

	require.Len(t, merged, 3)
	require.Equal(t, "b/high", merged[0].FullName)
	require.Equal(t, "c/mid", merged[1].FullName)
	require.Equal(t, "d/extra", merged[2].FullName)
}

func TestMergeByFullNameNoLimit(t *testing.T) {
	sets := make([][]model.RepositoryRecord, 3)
	for i := range sets {
		sets[i] = []model.RepositoryRecord{{FullName: fmt.Sprintf("o/r%d", i), Stars: i}}
	}

	merged := MergeByFullName(sets, 0)
	require.Len(t, merged, 3)
}
