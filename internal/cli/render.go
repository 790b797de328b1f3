// Package cli renders records, scan history and stats for the terminal.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/preset"
)

var (
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	starStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	archivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const descriptionWidth = 72

// RenderRecords renders one line per repository with a dimmed description
// underneath.
func RenderRecords(records []model.RepositoryRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("nothing here but dust") + "\n"
	}

	var b strings.Builder

	for _, rec := range records {
		b.WriteString(nameStyle.Render(rec.FullName))
		b.WriteString("  ")
		b.WriteString(starStyle.Render(fmt.Sprintf("★ %d", rec.Stars)))

		if rec.Language != nil {
			b.WriteString(dimStyle.Render("  " + *rec.Language))
		}

		if rec.PushedAt != nil {
			b.WriteString(dimStyle.Render("  last push " + rec.PushedAt.Format("2006-01-02")))
		}

		if rec.Archived {
			b.WriteString("  " + archivedStyle.Render("[archived]"))
		}

		b.WriteString("\n")

		if rec.Description != nil && *rec.Description != "" {
			b.WriteString(dimStyle.Render("  " + truncate(*rec.Description, descriptionWidth)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderDetail renders every known field of one repository.
func RenderDetail(rec model.RepositoryRecord) string {
	var b strings.Builder

	b.WriteString(nameStyle.Render(rec.FullName) + "\n")

	if rec.Description != nil && *rec.Description != "" {
		b.WriteString(*rec.Description + "\n")
	}

	b.WriteString("\n")

	writeField := func(label, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("  %-12s %s\n", label, value))
		}
	}

	writeField("stars", fmt.Sprintf("%d", rec.Stars))
	writeField("forks", fmt.Sprintf("%d", rec.Forks))

	if rec.Language != nil {
		writeField("language", *rec.Language)
	}

	writeField("created", formatTimePtr(rec.CreatedAt))
	writeField("last push", formatTimePtr(rec.PushedAt))

	if rec.Archived {
		writeField("status", archivedStyle.Render("archived"))
	}

	if rec.Fork {
		writeField("fork", "yes")
	}

	if len(rec.Topics) > 0 {
		writeField("topics", strings.Join(rec.Topics, ", "))
	}

	writeField("url", rec.HTMLURL)

	if !rec.FirstSeen.IsZero() {
		writeField("first seen", rec.FirstSeen.Format("2006-01-02"))
		writeField("scans", fmt.Sprintf("%d", rec.ScanCount))
	}

	if len(rec.MatchedPresets) > 0 {
		writeField("presets", strings.Join(rec.MatchedPresets, ", "))
	}

	return b.String()
}

// RenderPresets renders the preset catalog grouped by category.
func RenderPresets(presets []preset.Preset) string {
	var b strings.Builder

	byCategory := make(map[preset.Category][]preset.Preset)
	for _, p := range presets {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	for _, cat := range preset.Categories() {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}

		b.WriteString(categoryStyle.Render(string(cat)) + "\n")

		for _, p := range group {
			b.WriteString(fmt.Sprintf("  %-22s %s\n", p.ID, dimStyle.Render(p.Description)))
		}

		b.WriteString("\n")
	}

	return b.String()
}

// RenderScans renders scan history, most recent first.
func RenderScans(scans []model.ScanRecord) string {
	if len(scans) == 0 {
		return dimStyle.Render("no scans recorded yet") + "\n"
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-17s %-20s %7s %5s  %s",
		"when", "preset", "results", "new", "query")) + "\n")

	for _, scan := range scans {
		presetID := scan.PresetID
		if presetID == "" {
			presetID = "-"
		}

		b.WriteString(fmt.Sprintf("%-17s %-20s %7d %5d  %s\n",
			scan.ExecutedAt.Local().Format("2006-01-02 15:04"),
			presetID,
			scan.ResultCount,
			scan.NewRecordCount,
			dimStyle.Render(truncate(scan.Query, 60)),
		))
	}

	return b.String()
}

// RenderStats renders the database summary.
func RenderStats(stats *model.Stats) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("collection") + "\n")
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "repositories", stats.TotalRepos))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "scans", stats.TotalScans))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "database size", formatBytes(stats.DBSizeBytes)))

	if stats.OldestFirstSeen != nil {
		b.WriteString(fmt.Sprintf("  %-14s %s\n", "collecting since", stats.OldestFirstSeen.Format("2006-01-02")))
	}

	if len(stats.TopLanguages) > 0 {
		b.WriteString("\n" + headerStyle.Render("top languages") + "\n")

		for _, lc := range stats.TopLanguages {
			b.WriteString(fmt.Sprintf("  %-14s %d\n", lc.Language, lc.Count))
		}
	}

	return b.String()
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
