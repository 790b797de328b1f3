// Package search executes paginated repository searches against an injected
// transport and normalizes raw provider items into canonical records.
package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/query"
)

const retryBackoff = 2 * time.Second

// Executor runs searches page by page, sequentially, respecting the
// provider's rate limits. One transient failure per page is retried after a
// backoff; a second consecutive failure aborts the whole operation.
type Executor struct {
	transport Transport
	logger    *slog.Logger
	sleep     func(time.Duration)
}

// NewExecutor builds an executor over the given transport.
func NewExecutor(transport Transport, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		transport: transport,
		logger:    logger,
		sleep:     time.Sleep,
	}
}

// Search fetches up to opts.MaxResults records for the query. Pages already
// fetched when a later page fails are carried inside the returned
// *SearchFailedError, not silently discarded; the caller decides whether to
// persist them.
func (e *Executor) Search(ctx context.Context, queryStr string, opts query.Options) ([]model.RepositoryRecord, error) {
	perPage := opts.PerPage
	if perPage <= 0 || perPage > query.MaxPerPage {
		perPage = query.MaxPerPage
	}

	var records []model.RepositoryRecord

	for page := 1; ; page++ {
		pageOpts := PageOptions{
			Sort:    opts.Sort,
			Order:   opts.Order,
			Page:    page,
			PerPage: perPage,
		}

		result, err := e.transport.SearchPage(ctx, queryStr, pageOpts)
		if err != nil {
			var transport *TransportError
			if !errors.As(err, &transport) || !transport.Transient() {
				return records, err
			}

			e.logger.Warn("transient search failure, retrying",
				slog.Int("page", page),
				slog.String("kind", transport.Kind.String()),
				slog.Duration("backoff", retryBackoff),
			)
			e.sleep(retryBackoff)

			result, err = e.transport.SearchPage(ctx, queryStr, pageOpts)
			if err != nil {
				return records, &SearchFailedError{
					Query:   queryStr,
					Page:    page,
					Partial: records,
					Err:     err,
				}
			}
		}

		for _, item := range result.Items {
			records = append(records, Normalize(item))
			if opts.MaxResults > 0 && len(records) >= opts.MaxResults {
				return records, nil
			}
		}

		// A short page is the last page.
		if len(result.Items) < perPage || !result.HasNext {
			return records, nil
		}
	}
}

// Get looks up a single repository directly, bypassing search pagination.
func (e *Executor) Get(ctx context.Context, fullName string) (model.RepositoryRecord, error) {
	owner, name, ok := model.SplitFullName(fullName)
	if !ok {
		return model.RepositoryRecord{}, &NotFoundError{FullName: fullName}
	}

	repo, err := e.transport.GetRepository(ctx, owner, name)
	if err != nil {
		return model.RepositoryRecord{}, err
	}

	return Normalize(repo), nil
}

// Normalize converts a raw provider item into the canonical record shape.
// Absent optional fields stay nil rather than collapsing to zero values.
func Normalize(repo *github.Repository) model.RepositoryRecord {
	rec := model.RepositoryRecord{
		FullName: repo.GetFullName(),
		Name:     repo.GetName(),
		Stars:    repo.GetStargazersCount(),
		Forks:    repo.GetForksCount(),
		Archived: repo.GetArchived(),
		Fork:     repo.GetFork(),
		HTMLURL:  repo.GetHTMLURL(),
	}

	if owner := repo.GetOwner(); owner != nil {
		rec.Owner = owner.GetLogin()
	}
	if rec.Owner == "" || rec.Name == "" {
		if owner, name, ok := model.SplitFullName(rec.FullName); ok {
			rec.Owner, rec.Name = owner, name
		}
	}

	rec.Description = repo.Description
	rec.Language = repo.Language

	if ts := repo.CreatedAt; ts != nil {
		t := ts.Time.UTC()
		rec.CreatedAt = &t
	}
	if ts := repo.UpdatedAt; ts != nil {
		t := ts.Time.UTC()
		rec.UpdatedAt = &t
	}
	if ts := repo.PushedAt; ts != nil {
		t := ts.Time.UTC()
		rec.PushedAt = &t
	}

	if len(repo.Topics) > 0 {
		rec.Topics = append([]string(nil), repo.Topics...)
	}

	return rec
}

// MergeByFullName merges multiple result sets (one per free-text keyword),
// deduplicating by full name, ordering by stars descending and capping at
// limit. The provider ANDs bare keywords, which starves diverse keyword
// sets; running per-keyword searches and merging gives OR coverage.
func MergeByFullName(sets [][]model.RepositoryRecord, limit int) []model.RepositoryRecord {
	seen := make(map[string]bool)

	var merged []model.RepositoryRecord
	for _, set := range sets {
		for _, rec := range set {
			if rec.FullName == "" || seen[rec.FullName] {
				continue
			}
			seen[rec.FullName] = true
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Stars > merged[j].Stars
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
