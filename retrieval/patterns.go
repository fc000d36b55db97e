package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// Theme extraction parameters. Short words carry little topical signal, so
// only longer words count toward a project's themes.
const (
	patternTopK     = 10
	minThemeWordLen = 5
	maxThemes       = 10
)

// ProjectPattern summarizes how one project's discussions relate to a query.
type ProjectPattern struct {
	ProjectID    string
	ProjectTitle string
	ChunkCount   int
	Themes       []string
}

// FindCrossProjectPatterns retrieves the chunks most relevant to the query
// across all projects and groups them by project, extracting the dominant
// vocabulary of each group as themes. Projects are ordered by how many
// relevant chunks they contributed. Failures yield an empty result.
func (r *Retriever) FindCrossProjectPatterns(ctx context.Context, query string) ([]*ProjectPattern, error) {
	chunks, err := r.Retrieve(ctx, query, "", patternTopK)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]*core.RetrievedChunk)
	var order []string
	for _, chunk := range chunks {
		if chunk.ProjectID == "" {
			continue
		}
		if _, seen := groups[chunk.ProjectID]; !seen {
			order = append(order, chunk.ProjectID)
		}
		groups[chunk.ProjectID] = append(groups[chunk.ProjectID], chunk)
	}

	patterns := make([]*ProjectPattern, 0, len(groups))
	for _, projectID := range order {
		group := groups[projectID]
		patterns = append(patterns, &ProjectPattern{
			ProjectID:    projectID,
			ProjectTitle: group[0].Metadata["project_title"],
			ChunkCount:   len(group),
			Themes:       extractThemes(group),
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].ChunkCount > patterns[j].ChunkCount
	})
	return patterns, nil
}

// extractThemes returns the most frequent long words across a group of
// chunks, most frequent first. Frequency ties break alphabetically so the
// result is deterministic.
func extractThemes(chunks []*core.RetrievedChunk) []string {
	frequency := make(map[string]int)
	for _, chunk := range chunks {
		for _, word := range strings.Fields(strings.ToLower(chunk.Text)) {
			word = strings.Trim(word, ".,:;!?\"'()")
			if len(word) < minThemeWordLen {
				continue
			}
			frequency[word]++
		}
	}

	themes := make([]string, 0, len(frequency))
	for word := range frequency {
		themes = append(themes, word)
	}
	sort.Slice(themes, func(i, j int) bool {
		if frequency[themes[i]] != frequency[themes[j]] {
			return frequency[themes[i]] > frequency[themes[j]]
		}
		return themes[i] < themes[j]
	})

	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}
	return themes
}
