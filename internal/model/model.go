package model

import (
	"strings"
	"time"
)

// RepositoryRecord is the canonical repository shape persisted by the store
// and returned to the presentation layer. FullName ("owner/name") is the
// identity key; provider-optional fields are pointers so an absent value is
// distinguishable from a real zero.
type RepositoryRecord struct {
	FullName    string     `json:"full_name"`
	Owner       string     `json:"owner"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Language    *string    `json:"language,omitempty"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	PushedAt    *time.Time `json:"pushed_at,omitempty"`
	Archived    bool       `json:"archived"`
	Fork        bool       `json:"fork"`
	Topics      []string   `json:"topics,omitempty"`
	HTMLURL     string     `json:"html_url"`

	// Local collection bookkeeping, owned by the store.
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
	ScanCount      int       `json:"scan_count"`
	MatchedPresets []string  `json:"matched_presets,omitempty"`
}

// SplitFullName breaks an "owner/name" identifier into its parts.
// The second return is false when the input is not in owner/name form.
func SplitFullName(fullName string) (owner, name string, ok bool) {
	owner, name, ok = strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return owner, name, true
}

// ScanRecord is one executed search, recorded for history. Immutable after
// creation; removed only by a whole-database clear.
type ScanRecord struct {
	ID             string            `json:"id"`
	ExecutedAt     time.Time         `json:"executed_at"`
	Query          string            `json:"query"`
	PresetID       string            `json:"preset_id,omitempty"`
	FilterParams   map[string]string `json:"filter_params,omitempty"`
	ResultCount    int               `json:"result_count"`
	NewRecordCount int               `json:"new_record_count"`
}

// UpsertResult reports how an upsert batch split between fresh inserts and
// refreshes of known repositories.
type UpsertResult struct {
	New     int
	Updated int
}

// StoreFilter narrows store queries over previously collected records.
// Zero values mean "no constraint".
type StoreFilter struct {
	Language string
	Stars    string // comparator form: ">N", ">=N", "<N", "<=N", "N..M", "N"
	PresetID string
	Since    time.Time // first_seen lower bound
	Archived *bool
	Fork     *bool
	OrderBy  string // record column, default last_seen
	Limit    int
}

// LanguageCount is one row of the top-languages breakdown.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Stats summarizes the local collection.
type Stats struct {
	TotalRepos      int             `json:"total_repos"`
	TotalScans      int             `json:"total_scans"`
	DBSizeBytes     int64           `json:"db_size_bytes"`
	OldestFirstSeen *time.Time      `json:"oldest_first_seen,omitempty"`
	NewestFirstSeen *time.Time      `json:"newest_first_seen,omitempty"`
	TopLanguages    []LanguageCount `json:"top_languages"`
}
