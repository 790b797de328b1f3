// Package core orchestrates searches, presets and the local store into the
// operations the commands expose.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/preset"
	"github.com/inovacc/relic/internal/query"
	"github.com/inovacc/relic/internal/search"
	"github.com/inovacc/relic/internal/store"
)

// Service wires the search executor and the local store together.
type Service struct {
	executor *search.Executor
	store    store.Store
	logger   *slog.Logger
}

// NewService builds a service over the given executor and store.
func NewService(executor *search.Executor, st store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		executor: executor,
		store:    st,
		logger:   logger,
	}
}

// ScanOptions configures one scan operation.
type ScanOptions struct {
	// PresetID selects a curated preset whose filters form the template;
	// Filters then override individual fields.
	PresetID string
	Filters  query.FilterParams

	// DryRun skips persistence entirely.
	DryRun bool

	// KeepPartial persists pages collected before a failed page instead of
	// discarding everything.
	KeepPartial bool
}

// ScanResult is the outcome of one executed scan.
type ScanResult struct {
	Scan    model.ScanRecord
	Records []model.RepositoryRecord
	Upsert  model.UpsertResult
	Partial bool
}

// Scan builds a query from the options, executes it and persists both the
// results and a scan-history record. Results from a failed search are
// discarded unless KeepPartial is set.
func (s *Service) Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	filters := opts.Filters

	if opts.PresetID != "" {
		p, err := preset.Get(opts.PresetID)
		if err != nil {
			return nil, err
		}

		filters = query.Merge(p.Filters, opts.Filters)
	}

	if filters.IsEmpty() {
		return nil, &query.InvalidFilterError{
			Field:  "filters",
			Reason: "at least one search filter is required",
		}
	}

	if filters.Limit <= 0 {
		filters.Limit = query.DefaultLimit
	}

	queryStr, queryOpts, err := query.Build(filters)
	if err != nil {
		return nil, err
	}

	records, searchErr := s.collect(ctx, filters, queryStr, queryOpts)

	partial := false

	if searchErr != nil {
		var failed *search.SearchFailedError
		if !opts.KeepPartial || !errors.As(searchErr, &failed) {
			return nil, searchErr
		}

		records = failed.Partial
		partial = true

		s.logger.Warn("search failed, keeping pages collected so far",
			slog.String("query", queryStr),
			slog.Int("records", len(records)),
		)
	}

	result := &ScanResult{Records: records, Partial: partial}

	if opts.DryRun {
		return result, nil
	}

	scanID := uuid.NewString()

	upserted, err := s.store.Upsert(records, opts.PresetID, scanID)
	if err != nil {
		return nil, err
	}

	scan := model.ScanRecord{
		ID:             scanID,
		ExecutedAt:     time.Now().UTC(),
		Query:          queryStr,
		PresetID:       opts.PresetID,
		FilterParams:   filters.Snapshot(),
		ResultCount:    len(records),
		NewRecordCount: upserted.New,
	}

	if err := s.store.RecordScan(scan); err != nil {
		return nil, err
	}

	result.Scan = scan
	result.Upsert = upserted

	s.logger.Info("scan complete",
		slog.String("query", queryStr),
		slog.Int("results", len(records)),
		slog.Int("new", upserted.New),
	)

	return result, nil
}

// collect runs the search. Multiple keywords are searched one at a time and
// merged: the provider treats words in one query as AND, which returns
// almost nothing for diverse keyword sets.
func (s *Service) collect(ctx context.Context, filters query.FilterParams, queryStr string, opts query.Options) ([]model.RepositoryRecord, error) {
	if len(filters.Keywords) <= 1 {
		return s.executor.Search(ctx, queryStr, opts)
	}

	sets := make([][]model.RepositoryRecord, 0, len(filters.Keywords))

	for _, kw := range filters.Keywords {
		single := filters
		single.Keywords = []string{kw}

		q, o, err := query.Build(single)
		if err != nil {
			return nil, err
		}

		records, err := s.executor.Search(ctx, q, o)
		if err != nil {
			var failed *search.SearchFailedError
			if errors.As(err, &failed) {
				sets = append(sets, failed.Partial)

				return nil, &search.SearchFailedError{
					Query:   failed.Query,
					Page:    failed.Page,
					Partial: search.MergeByFullName(sets, filters.Limit),
					Err:     failed.Err,
				}
			}

			return nil, err
		}

		sets = append(sets, records)
	}

	return search.MergeByFullName(sets, filters.Limit), nil
}

// Dig fetches a single repository directly and folds it into the store.
// Like any other operation that touches the API, it leaves a scan-history
// row behind.
func (s *Service) Dig(ctx context.Context, fullName string) (*model.RepositoryRecord, error) {
	rec, err := s.executor.Get(ctx, fullName)
	if err != nil {
		return nil, err
	}

	scanID := uuid.NewString()

	upserted, err := s.store.Upsert([]model.RepositoryRecord{rec}, "", scanID)
	if err != nil {
		return nil, err
	}

	scan := model.ScanRecord{
		ID:             scanID,
		ExecutedAt:     time.Now().UTC(),
		Query:          "repo:" + rec.FullName,
		FilterParams:   map[string]string{"repo": rec.FullName},
		ResultCount:    1,
		NewRecordCount: upserted.New,
	}

	if err := s.store.RecordScan(scan); err != nil {
		return nil, err
	}

	stored, err := s.store.Get(rec.FullName)
	if err != nil {
		return nil, err
	}

	if stored != nil {
		return stored, nil
	}

	return &rec, nil
}

// Random scans with a randomly chosen preset, skipping any preset named in
// exclude.
func (s *Service) Random(ctx context.Context, opts ScanOptions, exclude map[string]bool) (*ScanResult, preset.Preset, error) {
	p, err := preset.Random(exclude)
	if err != nil {
		return nil, preset.Preset{}, err
	}

	opts.PresetID = p.ID

	result, err := s.Scan(ctx, opts)

	return result, p, err
}

// RabbitHoleResult pairs the seed repository with the scan it spawned.
type RabbitHoleResult struct {
	Seed    model.RepositoryRecord
	Filters query.FilterParams
	Scan    *ScanResult
}

const rabbitHoleTopics = 3

// RabbitHole starts from one repository and searches for its neighbors:
// same language, created within two years, sharing its leading topics.
func (s *Service) RabbitHole(ctx context.Context, fullName string, opts ScanOptions) (*RabbitHoleResult, error) {
	seed, err := s.executor.Get(ctx, fullName)
	if err != nil {
		return nil, err
	}

	filters := query.FilterParams{Limit: opts.Filters.Limit}

	if seed.Language != nil {
		filters.Language = *seed.Language
	}

	if len(seed.Topics) > 0 {
		topics := seed.Topics
		if len(topics) > rabbitHoleTopics {
			topics = topics[:rabbitHoleTopics]
		}

		filters.Keywords = append([]string(nil), topics...)
	}

	if seed.CreatedAt != nil {
		year := seed.CreatedAt.Year()
		filters.Created = fmt.Sprintf("%d-01-01..%d-12-31", year-2, year+2)
	}

	if filters.IsEmpty() {
		return nil, fmt.Errorf("%s has no language, topics or creation date to follow", fullName)
	}

	opts.PresetID = ""
	opts.Filters = filters

	scan, err := s.Scan(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &RabbitHoleResult{Seed: seed, Filters: filters, Scan: scan}, nil
}

// MorgueFilters targets dead forks and repositories whose owners moved on:
// old creations, no pushes for years, descriptions that say so.
func MorgueFilters(limit int) query.FilterParams {
	return query.FilterParams{
		Keywords: []string{"fork", "mirror", "deleted", "moved", "404", "gone"},
		Created:  "2008-01-01..2016-12-31",
		Pushed:   "<2018-01-01",
		Limit:    limit,
	}
}

// Morgue scans for dead forks and inactive repositories.
func (s *Service) Morgue(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	limit := opts.Filters.Limit
	opts.PresetID = ""
	opts.Filters = MorgueFilters(limit)

	return s.Scan(ctx, opts)
}

// CasketFilters targets archived and frozen repositories. The archived
// qualifier narrows the keyword matches to repositories the owner actually
// froze.
func CasketFilters(language string, limit int) query.FilterParams {
	archived := true

	return query.FilterParams{
		Keywords: []string{"archived", "unmaintained", "deprecated", "read-only", "no longer maintained"},
		Language: language,
		Pushed:   "<2020-01-01",
		Archived: &archived,
		Limit:    limit,
	}
}

// Casket scans for archived and frozen repositories, optionally narrowed to
// one language.
func (s *Service) Casket(ctx context.Context, language string, opts ScanOptions) (*ScanResult, error) {
	limit := opts.Filters.Limit
	opts.PresetID = ""
	opts.Filters = CasketFilters(language, limit)

	return s.Scan(ctx, opts)
}
