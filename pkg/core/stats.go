package core

// Stats summarizes a result set for the status line.
type Stats struct {
	Total          int `json:"total"`
	WithProjects   int `json:"with_projects"`
	WithAreas      int `json:"with_areas"`
	WithTables     int `json:"with_tables"`
	WithProcesses  int `json:"with_processes"`
	WithCategories int `json:"with_categories"`
	Favorites      int `json:"favorites"`
	UniqueTags     int `json:"unique_tags"`
}

// ComputeStats walks results once and counts entity associations and
// distinct tags.
func ComputeStats(results []SearchResult) Stats {
	stats := Stats{Total: len(results)}
	tags := make(map[string]struct{})

	for i := range results {
		r := &results[i]
		if len(r.Projects) > 0 {
			stats.WithProjects++
		}
		if len(r.Areas) > 0 {
			stats.WithAreas++
		}
		if r.Table != "" {
			stats.WithTables++
		}
		if len(r.Processes) > 0 {
			stats.WithProcesses++
		}
		if r.Category != "" {
			stats.WithCategories++
		}
		if r.IsFavorite {
			stats.Favorites++
		}
		for _, t := range r.Tags {
			if t != "" {
				tags[t] = struct{}{}
			}
		}
	}

	stats.UniqueTags = len(tags)
	return stats
}
