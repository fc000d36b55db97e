// Copyright 2025 Alleato Group
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matching

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// Component weights of the combined confidence score.
const (
	titleWeight        = 0.4
	participantsWeight = 0.3
	contentWeight      = 0.3

	// priorAssignmentBonus is added when a meeting was previously assigned
	// to the candidate project.
	priorAssignmentBonus = 0.1

	// historyFloor discards history-ranked candidates at or below this
	// confidence, so a bare prior-assignment bonus never wins on its own.
	historyFloor = 0.3
)

// projectPatterns holds a profile together with its precompiled keyword
// patterns.
type projectPatterns struct {
	profile  core.ProjectProfile
	keywords []*regexp.Regexp
}

// Matcher scores meetings against a fixed set of project profiles. The
// keyword patterns are compiled once at construction, so a single Matcher
// should be reused across all meetings of a matching session.
type Matcher struct {
	projects []projectPatterns
	logger   *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithLogger sets the logger used by the Matcher.
func WithLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// NewMatcher creates a Matcher over the given project profiles.
func NewMatcher(profiles []core.ProjectProfile, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		projects: make([]projectPatterns, 0, len(profiles)),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, profile := range profiles {
		pp := projectPatterns{profile: profile}
		for _, keyword := range profile.Keywords {
			pp.keywords = append(pp.keywords,
				regexp.MustCompile(`\b`+regexp.QuoteMeta(keyword)+`\b`))
		}
		m.projects = append(m.projects, pp)
	}
	return m
}

// Match scores the meeting against every profile and returns the best
// match, or nil when no project scores above zero. The confidence combines
// title, participant, and transcript-content similarity.
func (m *Matcher) Match(meeting *core.Meeting, transcriptText string) *core.MatchResult {
	var best *core.MatchResult
	for i := range m.projects {
		result := m.score(&m.projects[i], meeting, transcriptText)
		if result.Confidence <= 0 {
			continue
		}
		if best == nil || result.Confidence > best.Confidence {
			best = result
		}
	}
	if best != nil {
		m.logger.Debug("matched meeting to project",
			slog.String("meeting_id", meeting.ID),
			slog.String("project_id", best.ProjectID),
			slog.Float64("confidence", best.Confidence))
	}
	return best
}

// MatchWithHistory behaves like Match but additionally rewards the project
// the meeting was previously assigned to, and discards candidates whose
// confidence does not clear the history floor.
func (m *Matcher) MatchWithHistory(meeting *core.Meeting, transcriptText string) *core.MatchResult {
	var best *core.MatchResult
	for i := range m.projects {
		result := m.score(&m.projects[i], meeting, transcriptText)
		if meeting.ProjectID != "" && meeting.ProjectID == m.projects[i].profile.ID {
			result.Confidence += priorAssignmentBonus
			result.Reasons = append(result.Reasons, "Previously assigned to project")
		}
		if result.Confidence <= historyFloor {
			continue
		}
		if best == nil || result.Confidence > best.Confidence {
			best = result
		}
	}
	return best
}

// score computes the weighted confidence of one meeting/project pair.
func (m *Matcher) score(project *projectPatterns, meeting *core.Meeting, transcriptText string) *core.MatchResult {
	result := &core.MatchResult{ProjectID: project.profile.ID}

	if s := scoreTitle(meeting.Title, project.profile); s > 0 {
		result.Confidence += s * titleWeight
		result.Reasons = append(result.Reasons, fmt.Sprintf("Title match: %.0f%%", s*100))
	}
	if s := scoreParticipants(meeting.Participants, project.profile.TeamMembers); s > 0 {
		result.Confidence += s * participantsWeight
		result.Reasons = append(result.Reasons, fmt.Sprintf("Team member match: %.0f%%", s*100))
	}
	if s := scoreContent(transcriptText, project.keywords); s > 0 {
		result.Confidence += s * contentWeight
		result.Reasons = append(result.Reasons, fmt.Sprintf("Content keywords: %.0f%%", s*100))
	}
	return result
}

// scoreTitle returns 1.0 when one normalized title contains the other, and
// otherwise the fraction of project keywords present in the meeting title.
func scoreTitle(meetingTitle string, profile core.ProjectProfile) float64 {
	title := strings.ToLower(meetingTitle)
	projectTitle := strings.ToLower(profile.Title)
	if title == "" || projectTitle == "" {
		return 0
	}
	if strings.Contains(title, projectTitle) || strings.Contains(projectTitle, title) {
		return 1.0
	}

	if len(profile.Keywords) == 0 {
		return 0
	}
	matches := 0
	for _, keyword := range profile.Keywords {
		if strings.Contains(title, keyword) {
			matches++
		}
	}
	return clamp01(float64(matches) / float64(len(profile.Keywords)))
}

// scoreParticipants returns the fraction of meeting participants that match
// a team member. Names match by substring in either direction so that full
// names, short names, and email addresses all line up.
func scoreParticipants(participants, teamMembers []string) float64 {
	if len(participants) == 0 || len(teamMembers) == 0 {
		return 0
	}

	matches := 0
	for _, participant := range participants {
		p := strings.ToLower(strings.TrimSpace(participant))
		if p == "" {
			continue
		}
		for _, member := range teamMembers {
			t := strings.ToLower(strings.TrimSpace(member))
			if t == "" {
				continue
			}
			if strings.Contains(p, t) || strings.Contains(t, p) {
				matches++
				break
			}
		}
	}
	return clamp01(float64(matches) / float64(len(participants)))
}

// scoreContent measures how prominently the project keywords occur in the
// transcript. Occurrences are counted whole-word, normalized per hundred
// words, and log-scaled so one dense mention run cannot dominate.
func scoreContent(transcriptText string, keywords []*regexp.Regexp) float64 {
	if transcriptText == "" || len(keywords) == 0 {
		return 0
	}

	text := strings.ToLower(transcriptText)
	occurrences := 0
	for _, pattern := range keywords {
		occurrences += len(pattern.FindAllStringIndex(text, -1))
	}
	if occurrences == 0 {
		return 0
	}

	wordCount := len(strings.Fields(text))
	denominator := math.Max(float64(wordCount)/100, 1)
	density := float64(occurrences) / denominator
	return clamp01(math.Log10(1 + density))
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
