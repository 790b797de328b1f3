package search

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"
)

// Page is one page of raw search results from the provider.
type Page struct {
	Items   []*github.Repository
	HasNext bool
}

// PageOptions addresses one page of a paginated search.
type PageOptions struct {
	Sort    string
	Order   string
	Page    int
	PerPage int
}

// Transport is the injected request executor. It owns authentication and
// HTTP concerns; the executor above it only sees parsed results or a
// classified error.
type Transport interface {
	SearchPage(ctx context.Context, query string, opts PageOptions) (*Page, error)
	GetRepository(ctx context.Context, owner, name string) (*github.Repository, error)
}

// GitHubTransport implements Transport against the GitHub REST API.
type GitHubTransport struct {
	client *github.Client
}

// NewGitHubTransport builds an authenticated transport from a token.
func NewGitHubTransport(ctx context.Context, token string) *GitHubTransport {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &GitHubTransport{client: github.NewClient(tc)}
}

// NewTransportWithClient wraps an existing GitHub client, mainly for tests.
func NewTransportWithClient(client *github.Client) *GitHubTransport {
	return &GitHubTransport{client: client}
}

func (t *GitHubTransport) SearchPage(ctx context.Context, query string, opts PageOptions) (*Page, error) {
	result, resp, err := t.client.Search.Repositories(ctx, query, &github.SearchOptions{
		Sort:  opts.Sort,
		Order: opts.Order,
		ListOptions: github.ListOptions{
			Page:    opts.Page,
			PerPage: opts.PerPage,
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	return &Page{
		Items:   result.Repositories,
		HasNext: resp != nil && resp.NextPage != 0,
	}, nil
}

func (t *GitHubTransport) GetRepository(ctx context.Context, owner, name string) (*github.Repository, error) {
	repo, resp, err := t.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{FullName: owner + "/" + name}
		}
		return nil, classify(err)
	}
	return repo, nil
}

// classify maps provider errors onto the transport error taxonomy.
func classify(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &TransportError{Kind: KindRateLimited, Err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &TransportError{Kind: KindRateLimited, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Kind: KindTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Kind: KindTimeout, Err: err}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &TransportError{Kind: KindAuthFailed, Err: err}
		}
	}

	return &TransportError{Kind: KindOther, Err: err}
}
