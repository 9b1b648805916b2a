package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/search"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var titleCaser = cases.Title(language.English)

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// formatTime formats a time relative to now or as an absolute date
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < 0 {
		return t.Format("Jan 2, 2006")
	}

	if diff < 24*time.Hour {
		if diff < time.Hour {
			minutes := int(diff.Minutes())
			if minutes < 1 {
				return "just now"
			}
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	}

	if diff < 7*24*time.Hour {
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format("Jan 2, 2006")
}

// viewTitle names what a rendering shows.
func viewTitle(res *search.Results) string {
	if res.View != search.SeedNone {
		return titleCaser.String(strings.ReplaceAll(string(res.View), "_", " "))
	}
	return fmt.Sprintf("Results for %q", res.Query)
}

// printResults renders one page of results, its facets and the footer.
func printResults(w io.Writer, res *search.Results) {
	fmt.Fprintln(w, titleStyle.Render(viewTitle(res)))

	if len(res.Results) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No results found"))
	}
	for i := range res.Results {
		printResult(w, (res.Page-1)*res.PageSize+i+1, &res.Results[i])
	}

	if len(res.Facets) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tags: "+formatFacets(res.Facets, 10))
	}
	if active := formatFilters(res.Filters); active != "" {
		fmt.Fprintln(w, metaStyle.Render("Filters: "+active))
	}
	fmt.Fprintln(w, metaStyle.Render(res.PageLabel))
}

func printResult(w io.Writer, n int, r *core.SearchResult) {
	line := fmt.Sprintf("%3d. %s %s", n, r.DisplayIcon(), nameStyle.Render(r.Name))
	if r.IsFavorite {
		line += " " + favoriteStyle.Render("★")
	}
	fmt.Fprintln(w, line)

	if r.Content != "" && r.Content != r.Name {
		fmt.Fprintf(w, "     %s\n", truncate(r.Content, 80))
	}

	meta := []string{titleCaser.String(string(r.Type))}
	if len(r.Projects) > 0 {
		meta = append(meta, "in "+strings.Join(r.Projects, ", "))
	}
	if r.UpdatedAt != nil {
		meta = append(meta, "updated "+formatTime(*r.UpdatedAt))
	}
	if r.UseCount > 0 {
		meta = append(meta, fmt.Sprintf("used %d×", r.UseCount))
	}
	line = "     " + metaStyle.Render(strings.Join(meta, " · "))
	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = "#" + t
		}
		line += " " + tagStyle.Render(strings.Join(tags, " "))
	}
	fmt.Fprintln(w, line)
}

// formatFacets renders at most limit facets as "name (count)".
func formatFacets(list []facets.TagFacet, limit int) string {
	parts := make([]string, 0, min(len(list), limit))
	for i, f := range list {
		if i == limit {
			parts = append(parts, fmt.Sprintf("+%d more", len(list)-limit))
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", tagStyle.Render(f.Name), f.Count))
	}
	return strings.Join(parts, " · ")
}

func formatFilters(f search.Filters) string {
	var parts []string
	if len(f.Tags) > 0 {
		parts = append(parts, "tags "+strings.Join(f.Tags, ", "))
	}
	for _, e := range f.Excluded {
		parts = append(parts, "no "+string(e))
	}
	return strings.Join(parts, "; ")
}

// formatStats formats store statistics for display
func formatStats(w io.Writer, stats core.Stats) {
	fmt.Fprintln(w, "📊 Store Statistics")
	fmt.Fprintln(w, "═══════════════════")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total results: %s\n", formatNumber(stats.Total))
	if stats.Total == 0 {
		fmt.Fprintln(w, noDataStyle.Render("Nothing imported yet. Run seekr import FILE."))
		return
	}

	rows := []struct {
		label string
		n     int
	}{
		{"with projects", stats.WithProjects},
		{"with areas", stats.WithAreas},
		{"with categories", stats.WithCategories},
		{"with tables", stats.WithTables},
		{"with processes", stats.WithProcesses},
		{"favorites", stats.Favorites},
	}
	for _, row := range rows {
		pct := float64(row.n) / float64(stats.Total) * 100
		fmt.Fprintf(w, "  %-16s %8s (%.1f%%)\n", titleCaser.String(row.label)+":", formatNumber(row.n), pct)
	}
	fmt.Fprintf(w, "Unique tags: %s\n", formatNumber(stats.UniqueTags))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
