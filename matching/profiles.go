package matching

import (
	"context"
	"fmt"

	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
)

// LoadProfiles builds matching profiles for every live project in the
// repository. Keywords are extracted from the project title.
func LoadProfiles(ctx context.Context, projects storage.ProjectRepository) ([]core.ProjectProfile, error) {
	list, err := projects.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	profiles := make([]core.ProjectProfile, 0, len(list))
	for _, project := range list {
		profiles = append(profiles, core.ProjectProfile{
			ID:          project.ID,
			Title:       project.Title,
			Keywords:    ExtractKeywords(project.Title),
			TeamMembers: project.TeamMembers,
		})
	}
	return profiles, nil
}
