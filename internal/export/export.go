// Package export serializes collected repository records for use outside
// the local database.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/inovacc/relic/internal/model"
)

// Format selects an export serialization.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
)

// UnsupportedFormatError reports a format name outside the supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q (supported: json, csv, ndjson)", e.Format)
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	default:
		return "", &UnsupportedFormatError{Format: s}
	}
}

// Write serializes records to w in the given format.
func Write(w io.Writer, format Format, records []model.RepositoryRecord) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatCSV:
		return writeCSV(w, records)
	case FormatNDJSON:
		return writeNDJSON(w, records)
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

func writeJSON(w io.Writer, records []model.RepositoryRecord) error {
	if records == nil {
		records = []model.RepositoryRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}

func writeNDJSON(w io.Writer, records []model.RepositoryRecord) error {
	enc := json.NewEncoder(w)

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	return nil
}

var csvHeader = []string{
	"full_name", "description", "language", "stars", "forks",
	"created_at", "pushed_at", "html_url",
	"first_seen", "last_seen", "scan_count",
	"topics", "matched_presets",
}

func writeCSV(w io.Writer, records []model.RepositoryRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.FullName,
			strOrEmpty(rec.Description),
			strOrEmpty(rec.Language),
			strconv.Itoa(rec.Stars),
			strconv.Itoa(rec.Forks),
			timeOrEmpty(rec.CreatedAt),
			timeOrEmpty(rec.PushedAt),
			rec.HTMLURL,
			rec.FirstSeen.Format(time.RFC3339),
			rec.LastSeen.Format(time.RFC3339),
			strconv.Itoa(rec.ScanCount),
			strings.Join(rec.Topics, ";"),
			strings.Join(rec.MatchedPresets, ";"),
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
