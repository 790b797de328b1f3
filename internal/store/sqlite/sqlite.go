// Package sqlite provides SQLite-backed storage for collected
// repository records and scan history.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/inovacc/relic/internal/model"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ConfirmationRequiredError guards destructive operations.
type ConfirmationRequiredError struct {
	Operation string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s is destructive and requires explicit confirmation", e.Operation)
}

// IOError wraps disk or engine failures.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Store implements the store.Store interface using SQLite.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// New creates or opens a SQLite store at the given database path,
// applying pending migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't handle multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := newMigrator(db).migrateUp(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks if the database is accessible.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

const repoColumns = `r.id, r.full_name, r.owner, r.name, r.description, r.language,
	r.stars, r.forks, r.created_at, r.updated_at, r.pushed_at, r.archived, r.fork,
	r.topics, r.html_url, r.first_seen, r.last_seen, r.scan_count`

// Upsert merges a batch of records in one transaction. New full names are
// inserted with first seen and last seen set to the same instant; known
// full names keep their first seen and bump last seen and the scan count.
func (s *Store) Upsert(records []model.RepositoryRecord, presetID, scanID string) (model.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result model.UpsertResult

	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return result, &IOError{Op: "upsert", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		topics, err := json.Marshal(rec.Topics)
		if err != nil {
			return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
		}
		if rec.Topics == nil {
			topics = []byte("[]")
		}

		var repoID int64

		err = tx.QueryRow(`SELECT id FROM repos WHERE full_name = ?`, rec.FullName).Scan(&repoID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.Exec(`
				INSERT INTO repos (
					full_name, owner, name, description, language, stars, forks,
					created_at, updated_at, pushed_at, archived, fork, topics,
					html_url, first_seen, last_seen, scan_count
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
				rec.FullName, rec.Owner, rec.Name,
				nullString(rec.Description), nullString(rec.Language),
				rec.Stars, rec.Forks,
				nullTime(rec.CreatedAt), nullTime(rec.UpdatedAt), nullTime(rec.PushedAt),
				boolInt(rec.Archived), boolInt(rec.Fork), string(topics),
				rec.HTMLURL, encodeTime(now), encodeTime(now),
			)
			if err != nil {
				return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
			}

			repoID, err = res.LastInsertId()
			if err != nil {
				return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
			}

			result.New++
		case err != nil:
			return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
		default:
			_, err = tx.Exec(`
				UPDATE repos SET
					owner = ?, name = ?, description = ?, language = ?,
					stars = ?, forks = ?, created_at = ?, updated_at = ?,
					pushed_at = ?, archived = ?, fork = ?, topics = ?,
					html_url = ?, last_seen = ?, scan_count = scan_count + 1
				WHERE id = ?`,
				rec.Owner, rec.Name,
				nullString(rec.Description), nullString(rec.Language),
				rec.Stars, rec.Forks,
				nullTime(rec.CreatedAt), nullTime(rec.UpdatedAt), nullTime(rec.PushedAt),
				boolInt(rec.Archived), boolInt(rec.Fork), string(topics),
				rec.HTMLURL, encodeTime(now), repoID,
			)
			if err != nil {
				return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
			}

			result.Updated++
		}

		if presetID != "" {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO repo_presets (repo_id, preset_id) VALUES (?, ?)`, repoID, presetID); err != nil {
				return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
			}
		}

		if scanID != "" {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO scan_repos (scan_id, repo_id) VALUES (?, ?)`, scanID, repoID); err != nil {
				return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return model.UpsertResult{}, &IOError{Op: "upsert", Err: err}
	}

	return result, nil
}

// RecordScan appends one scan-history row.
func (s *Store) RecordScan(scan model.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	params := scan.FilterParams
	if params == nil {
		params = map[string]string{}
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		return &IOError{Op: "record scan", Err: err}
	}

	var presetID any
	if scan.PresetID != "" {
		presetID = scan.PresetID
	}

	_, err = s.db.Exec(`
		INSERT INTO scans (id, executed_at, query, preset_id, filter_params, result_count, new_record_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		scan.ID, encodeTime(scan.ExecutedAt.UTC()), scan.Query, presetID,
		string(encoded), scan.ResultCount, scan.NewRecordCount,
	)
	if err != nil {
		return &IOError{Op: "record scan", Err: err}
	}

	return nil
}

// Scans returns scan history, most recent first. A limit <= 0 returns
// everything.
func (s *Store) Scans(limit int) ([]model.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT id, executed_at, query, preset_id, filter_params, result_count, new_record_count
		FROM scans
		ORDER BY executed_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, &IOError{Op: "list scans", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var scans []model.ScanRecord

	for rows.Next() {
		var (
			scan       model.ScanRecord
			executedAt string
			presetID   sql.NullString
			params     string
		)

		if err := rows.Scan(&scan.ID, &executedAt, &scan.Query, &presetID, &params, &scan.ResultCount, &scan.NewRecordCount); err != nil {
			return nil, &IOError{Op: "list scans", Err: err}
		}

		scan.ExecutedAt, err = decodeTime(executedAt)
		if err != nil {
			return nil, &IOError{Op: "list scans", Err: err}
		}

		scan.PresetID = presetID.String

		if err := json.Unmarshal([]byte(params), &scan.FilterParams); err != nil {
			return nil, &IOError{Op: "list scans", Err: err}
		}

		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "list scans", Err: err}
	}

	return scans, nil
}

// Get returns the stored record for a full name, or nil when unknown.
func (s *Store) Get(fullName string) (*model.RepositoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+repoColumns+` FROM repos r WHERE r.full_name = ?`, fullName)

	rec, repoID, err := scanRepoRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, &IOError{Op: "get repo", Err: err}
	}

	rec.MatchedPresets, err = s.matchedPresets(repoID)
	if err != nil {
		return nil, &IOError{Op: "get repo", Err: err}
	}

	return &rec, nil
}

var orderColumns = map[string]string{
	"last_seen":  "r.last_seen DESC",
	"first_seen": "r.first_seen DESC",
	"stars":      "r.stars DESC",
	"forks":      "r.forks DESC",
	"created_at": "r.created_at DESC",
	"pushed_at":  "r.pushed_at DESC",
	"full_name":  "r.full_name ASC",
}

// Query returns stored records matching the filter, most recently seen
// first unless another order is requested.
func (s *Store) Query(filter model.StoreFilter) ([]model.RepositoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		query strings.Builder
		args  []any
		where []string
	)

	query.WriteString(`SELECT ` + repoColumns + ` FROM repos r`)

	if filter.PresetID != "" {
		query.WriteString(` JOIN repo_presets rp ON rp.repo_id = r.id AND rp.preset_id = ?`)
		args = append(args, filter.PresetID)
	}

	if filter.Language != "" {
		where = append(where, `LOWER(r.language) = LOWER(?)`)
		args = append(args, filter.Language)
	}

	if filter.Stars != "" {
		clause, starArgs, err := starsClause(filter.Stars)
		if err != nil {
			return nil, err
		}

		where = append(where, clause)
		args = append(args, starArgs...)
	}

	if !filter.Since.IsZero() {
		where = append(where, `r.first_seen >= ?`)
		args = append(args, encodeTime(filter.Since.UTC()))
	}

	if filter.Archived != nil {
		where = append(where, `r.archived = ?`)
		args = append(args, boolInt(*filter.Archived))
	}

	if filter.Fork != nil {
		where = append(where, `r.fork = ?`)
		args = append(args, boolInt(*filter.Fork))
	}

	if len(where) > 0 {
		query.WriteString(` WHERE ` + strings.Join(where, ` AND `))
	}

	order, ok := orderColumns[filter.OrderBy]
	if filter.OrderBy == "" {
		order = orderColumns["last_seen"]
	} else if !ok {
		return nil, fmt.Errorf("unknown order column %q", filter.OrderBy)
	}

	query.WriteString(` ORDER BY ` + order)

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	query.WriteString(` LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.Query(query.String(), args...)
	if err != nil {
		return nil, &IOError{Op: "query repos", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var (
		records []model.RepositoryRecord
		ids     []int64
	)

	for rows.Next() {
		rec, repoID, err := scanRepoRow(rows)
		if err != nil {
			return nil, &IOError{Op: "query repos", Err: err}
		}

		records = append(records, rec)
		ids = append(ids, repoID)
	}

	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "query repos", Err: err}
	}

	for i, repoID := range ids {
		records[i].MatchedPresets, err = s.matchedPresets(repoID)
		if err != nil {
			return nil, &IOError{Op: "query repos", Err: err}
		}
	}

	return records, nil
}

// Stats summarizes the database contents.
func (s *Store) Stats() (*model.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.Stats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM repos`).Scan(&stats.TotalRepos); err != nil {
		return nil, &IOError{Op: "stats", Err: err}
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&stats.TotalScans); err != nil {
		return nil, &IOError{Op: "stats", Err: err}
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.DBSizeBytes = info.Size()
	}

	var oldest, newest sql.NullString

	err := s.db.QueryRow(`SELECT MIN(first_seen), MAX(first_seen) FROM repos`).Scan(&oldest, &newest)
	if err != nil {
		return nil, &IOError{Op: "stats", Err: err}
	}

	if stats.OldestFirstSeen, err = decodeTimePtr(oldest); err != nil {
		return nil, &IOError{Op: "stats", Err: err}
	}

	if stats.NewestFirstSeen, err = decodeTimePtr(newest); err != nil {
		return nil, &IOError{Op: "stats", Err: err}
	}

	rows, err := s.db.Query(`
		SELECT language, COUNT(*) AS n
		FROM repos
		WHERE language IS NOT NULL AND language != ''
		GROUP BY language
		ORDER BY n DESC, language ASC
		LIMIT 5`)
	if err != nil {
		return nil, &IOError{Op: "stats", Err: err}
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var lc model.LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Count); err != nil {
			return nil, &IOError{Op: "stats", Err: err}
		}

		stats.TopLanguages = append(stats.TopLanguages, lc)
	}

	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "stats", Err: err}
	}

	return stats, nil
}

// Clear removes every stored record and scan. It refuses to run without
// explicit confirmation.
func (s *Store) Clear(confirm bool) error {
	if !confirm {
		return &ConfirmationRequiredError{Operation: "clearing the database"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteAll("clear", "scan_repos", "repo_presets", "scans", "repos")
}

// ClearScans removes scan history while keeping collected records.
func (s *Store) ClearScans(confirm bool) error {
	if !confirm {
		return &ConfirmationRequiredError{Operation: "clearing scan history"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteAll("clear scans", "scan_repos", "scans")
}

func (s *Store) deleteAll(op string, tables ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &IOError{Op: op, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range tables {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return &IOError{Op: op, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &IOError{Op: op, Err: err}
	}

	return nil
}

// Compact reclaims free pages in the database file.
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`VACUUM`); err != nil {
		return &IOError{Op: "vacuum", Err: err}
	}

	return nil
}

func (s *Store) matchedPresets(repoID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT preset_id FROM repo_presets WHERE repo_id = ? ORDER BY preset_id`, repoID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var presets []string

	for rows.Next() {
		var preset string
		if err := rows.Scan(&preset); err != nil {
			return nil, err
		}

		presets = append(presets, preset)
	}

	return presets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepoRow(row rowScanner) (model.RepositoryRecord, int64, error) {
	var (
		rec                            model.RepositoryRecord
		repoID                         int64
		description, language          sql.NullString
		createdAt, updatedAt, pushedAt sql.NullString
		archived, fork                 int
		topics, firstSeen, lastSeen    string
	)

	err := row.Scan(
		&repoID, &rec.FullName, &rec.Owner, &rec.Name, &description, &language,
		&rec.Stars, &rec.Forks, &createdAt, &updatedAt, &pushedAt, &archived, &fork,
		&topics, &rec.HTMLURL, &firstSeen, &lastSeen, &rec.ScanCount,
	)
	if err != nil {
		return rec, 0, err
	}

	if description.Valid {
		rec.Description = &description.String
	}

	if language.Valid {
		rec.Language = &language.String
	}

	if rec.CreatedAt, err = decodeTimePtr(createdAt); err != nil {
		return rec, 0, err
	}

	if rec.UpdatedAt, err = decodeTimePtr(updatedAt); err != nil {
		return rec, 0, err
	}

	if rec.PushedAt, err = decodeTimePtr(pushedAt); err != nil {
		return rec, 0, err
	}

	rec.Archived = archived != 0
	rec.Fork = fork != 0

	if err := json.Unmarshal([]byte(topics), &rec.Topics); err != nil {
		return rec, 0, err
	}

	if rec.FirstSeen, err = decodeTime(firstSeen); err != nil {
		return rec, 0, err
	}

	if rec.LastSeen, err = decodeTime(lastSeen); err != nil {
		return rec, 0, err
	}

	return rec, repoID, nil
}

var starsExprRe = regexp.MustCompile(`^(>=|<=|>|<)?(\d+)$|^(\d+)\.\.(\d+)$`)

// starsClause translates a star-count expression such as ">10", "<=5",
// "100..500" or "42" into a SQL condition.
func starsClause(expr string) (string, []any, error) {
	matches := starsExprRe.FindStringSubmatch(strings.TrimSpace(expr))
	if matches == nil {
		return "", nil, fmt.Errorf("invalid star filter %q", expr)
	}

	if matches[3] != "" {
		low, _ := strconv.Atoi(matches[3])
		high, _ := strconv.Atoi(matches[4])

		return `r.stars BETWEEN ? AND ?`, []any{low, high}, nil
	}

	n, _ := strconv.Atoi(matches[2])

	op := matches[1]
	if op == "" {
		op = "="
	}

	return `r.stars ` + op + ` ?`, []any{n}, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeTime(t.UTC())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func decodeTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}

	t, err := decodeTime(s.String)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
